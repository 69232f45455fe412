package service

import "context"

type requestIDKey struct{}

// ContextWithRequestID adjunta el id de la peticion para los logs del pipeline.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom devuelve el id adjunto, o "" si no hay.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
