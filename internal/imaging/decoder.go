package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Neuralic/Tinder-AI/internal/domain"
)

// DefaultMaxBytes limita el tamaño de la imagen decodificada.
const DefaultMaxBytes int64 = 10 << 20

// DefaultMaxPixels limita el lienzo (ancho x alto) antes de reservar memoria.
const DefaultMaxPixels int64 = 40_000_000

var errEmptyPayload = errors.New("empty payload after base64 decoding")

// Decoder convierte un payload base64 en un Artifact verificado.
type Decoder struct {
	tmpDir    string
	maxBytes  int64
	maxPixels int64
}

// NewDecoder crea un decoder que escribe artefactos en tmpDir (vacio = temp del sistema).
func NewDecoder(tmpDir string, maxBytes int64) *Decoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Decoder{tmpDir: tmpDir, maxBytes: maxBytes, maxPixels: DefaultMaxPixels}
}

// WithMaxPixels cambia el limite de pixeles; n <= 0 conserva el valor por defecto.
func (d *Decoder) WithMaxPixels(n int64) *Decoder {
	if n > 0 {
		d.maxPixels = n
	}
	return d
}

// Decode valida el payload y materializa la imagen. Si la decodificacion falla
// no se crea ningun artefacto.
func (d *Decoder) Decode(encoded string) (*Artifact, error) {
	payload := strings.TrimSpace(encoded)
	if payload == "" {
		return nil, domain.MissingInput("image")
	}

	raw, err := decodeBase64(stripDataURI(payload))
	if err != nil {
		return nil, decodeErr(err)
	}
	if int64(len(raw)) > d.maxBytes {
		return nil, decodeErr(fmt.Errorf("image of %d bytes exceeds limit of %d", len(raw), d.maxBytes))
	}

	mt := mimetype.Detect(raw)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, decodeErr(fmt.Errorf("payload is %s, not an image", mt.String()))
	}

	// El encabezado declara las dimensiones; se validan antes de que
	// image.Decode reserve el lienzo completo.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, decodeErr(fmt.Errorf("decode %s header: %w", mt.String(), err))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, decodeErr(errors.New("image has no pixels"))
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > d.maxPixels {
		return nil, decodeErr(fmt.Errorf("image of %dx%d pixels exceeds limit of %d", cfg.Width, cfg.Height, d.maxPixels))
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, decodeErr(fmt.Errorf("decode %s: %w", mt.String(), err))
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, decodeErr(errors.New("image has no pixels"))
	}

	path, err := d.writeTemp(raw, mt.Extension())
	if err != nil {
		return nil, decodeErr(err)
	}

	return &Artifact{
		Path:   path,
		MIME:   mt.String(),
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		data:   raw,
	}, nil
}

func (d *Decoder) writeTemp(raw []byte, ext string) (string, error) {
	f, err := os.CreateTemp(d.tmpDir, "profile-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp artifact: %w", err)
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp artifact: %w", err)
	}
	return f.Name(), nil
}

func decodeErr(err error) error {
	return domain.NewStageError(domain.ErrDecode, domain.StageDecoding, err)
}

// stripDataURI quita prefijos tipo "data:image/jpeg;base64,".
func stripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if idx := strings.Index(s, ","); idx != -1 {
		return s[idx+1:]
	}
	return s
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', ' ':
			return -1
		}
		return r
	}, s)

	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		raw, err := enc.DecodeString(s)
		if err == nil {
			if len(raw) == 0 {
				return nil, errEmptyPayload
			}
			return raw, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("invalid base64: %w", firstErr)
}
