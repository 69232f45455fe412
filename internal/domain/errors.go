package domain

import (
	"errors"
	"fmt"
)

// Taxonomia de errores del servicio. Todos son recuperables y se reportan al cliente.
var (
	ErrMissingInput = errors.New("missing input")
	ErrDecode       = errors.New("image decode failed")
	ErrInference    = errors.New("vision inference failed")
	ErrGeneration   = errors.New("text generation failed")
)

// StageError etiqueta una falla con su tipo y la etapa donde ocurrio.
// errors.Is funciona tanto contra el tipo (ErrDecode, ...) como contra la causa.
type StageError struct {
	Kind  error
	Stage Stage
	Err   error
	// Message reemplaza el texto por defecto cuando debe mostrarse tal cual al usuario.
	Message string
}

func (e *StageError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// MissingInput construye el error de campo requerido ausente, p.ej. "No image provided.".
func MissingInput(field string) error {
	return &StageError{
		Kind:    ErrMissingInput,
		Stage:   StageValidating,
		Message: fmt.Sprintf("No %s provided.", field),
	}
}

// NewStageError etiqueta err con kind. Si err ya esta etiquetado se devuelve sin cambios.
func NewStageError(kind error, stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Kind: kind, Stage: stage, Err: err}
}

// KindName devuelve una etiqueta estable para logs y metricas.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingInput):
		return "missing_input"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrInference):
		return "inference"
	case errors.Is(err, ErrGeneration):
		return "generation"
	default:
		return "internal"
	}
}

// StageOf devuelve la etapa registrada en err, o StageFailed si no hay.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) && se.Stage != "" {
		return se.Stage
	}
	return StageFailed
}
