// Package vision obtiene atributos faciales de una imagen usando modelos externos.
package vision

import (
	"context"
	"errors"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/imaging"
)

// Actions son los analisis pedidos en una unica llamada de inferencia.
var Actions = []string{"age", "gender", "emotion", "race"}

// ErrNoFace solo se devuelve cuando la deteccion estricta esta activada.
var ErrNoFace = errors.New("no face detected")

// Extractor corre el modelo facial sobre un artefacto y normaliza el resultado.
type Extractor interface {
	Extract(ctx context.Context, art *imaging.Artifact) (domain.AttributeRecord, error)
}

// SmileScore normaliza el canal "happy" (0-100) a [0,1]. Sin canal devuelve 0.
func SmileScore(emotions map[string]float64) float64 {
	happy, ok := emotions["happy"]
	if !ok {
		return 0
	}
	score := happy / 100
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}
