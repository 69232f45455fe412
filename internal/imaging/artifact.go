package imaging

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"sync"
)

// Artifact es una imagen ya verificada, materializada como archivo temporal.
// Pertenece a una sola invocacion del pipeline y debe cerrarse en todas las salidas.
type Artifact struct {
	Path   string
	MIME   string
	Format string
	Width  int
	Height int

	data      []byte
	closeOnce sync.Once
	closeErr  error
}

// Bytes devuelve el contenido original de la imagen.
func (a *Artifact) Bytes() []byte {
	return a.data
}

// Size devuelve el tamaño en bytes de la imagen decodificada.
func (a *Artifact) Size() int {
	return len(a.data)
}

// DataURI codifica la imagen como data URI para backends que la reciben inline.
func (a *Artifact) DataURI() string {
	return "data:" + a.MIME + ";base64," + base64.StdEncoding.EncodeToString(a.data)
}

// Close elimina el archivo temporal. Es idempotente.
func (a *Artifact) Close() error {
	if a == nil {
		return nil
	}
	a.closeOnce.Do(func() {
		a.data = nil
		if a.Path == "" {
			return
		}
		if err := os.Remove(a.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			a.closeErr = err
		}
	})
	return a.closeErr
}
