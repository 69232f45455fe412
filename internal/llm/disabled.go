package llm

import (
	"context"
	"errors"
)

type disabledClient struct {
	reason string
}

// NewDisabledClient devuelve un cliente que siempre falla. Se usa cuando no hay
// credencial configurada: el servicio arranca igual y el error aparece al generar.
func NewDisabledClient(reason string) LLMClient {
	return &disabledClient{reason: reason}
}

func (c *disabledClient) Generate(_ context.Context, _ Request) (string, error) {
	if c.reason == "" {
		return "", errors.New("llm client disabled")
	}
	return "", errors.New(c.reason)
}
