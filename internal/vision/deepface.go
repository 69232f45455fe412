package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/imaging"
)

// DeepFaceOptions configura la llamada a /analyze.
type DeepFaceOptions struct {
	DetectorBackend  string
	EnforceDetection bool
	// SharedPath envia la ruta del artefacto en vez de los bytes; requiere
	// que el servicio de vision monte el mismo directorio temporal.
	SharedPath bool
	Timeout    time.Duration
}

// DeepFaceExtractor habla con la API REST de DeepFace.
type DeepFaceExtractor struct {
	baseURL string
	opts    DeepFaceOptions
	client  *http.Client
	logger  *zap.Logger
}

func NewDeepFaceExtractor(baseURL string, opts DeepFaceOptions, logger *zap.Logger) *DeepFaceExtractor {
	if opts.DetectorBackend == "" {
		opts.DetectorBackend = "opencv"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeepFaceExtractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts,
		client:  &http.Client{Timeout: opts.Timeout},
		logger:  logger,
	}
}

func (e *DeepFaceExtractor) Extract(ctx context.Context, art *imaging.Artifact) (domain.AttributeRecord, error) {
	img := art.DataURI()
	if e.opts.SharedPath {
		img = art.Path
	}
	bodyBytes, err := json.Marshal(analyzeRequest{
		Img:              img,
		Actions:          Actions,
		DetectorBackend:  e.opts.DetectorBackend,
		EnforceDetection: e.opts.EnforceDetection,
		Align:            true,
	})
	if err != nil {
		return domain.AttributeRecord{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/analyze", bytes.NewReader(bodyBytes))
	if err != nil {
		return domain.AttributeRecord{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.AttributeRecord{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.AttributeRecord{}, fmt.Errorf("read response: %w", err)
	}

	var ar analyzeResponse
	if resp.StatusCode >= 400 {
		_ = json.Unmarshal(respBody, &ar)
		msg := ar.message()
		if isNoFaceMessage(msg) {
			if !e.opts.EnforceDetection {
				e.logger.Info("deepface found no face, using defaults", zap.String("detail", msg))
				return domain.AttributeRecord{}, nil
			}
			return domain.AttributeRecord{}, fmt.Errorf("%w: %s", ErrNoFace, msg)
		}
		return domain.AttributeRecord{}, fmt.Errorf("deepface http error: status=%d: %s", resp.StatusCode, msg)
	}
	if err := json.Unmarshal(respBody, &ar); err != nil {
		return domain.AttributeRecord{}, fmt.Errorf("unmarshal response: %w", err)
	}

	faces, err := ar.faces()
	if err != nil {
		return domain.AttributeRecord{}, err
	}
	if len(faces) == 0 {
		e.logger.Info("deepface returned no faces, using defaults")
		return domain.AttributeRecord{}, nil
	}

	return mainFace(faces).record(), nil
}

type analyzeRequest struct {
	Img              string   `json:"img"`
	Actions          []string `json:"actions"`
	DetectorBackend  string   `json:"detector_backend"`
	EnforceDetection bool     `json:"enforce_detection"`
	Align            bool     `json:"align"`
}

type analyzeResponse struct {
	Results   json.RawMessage `json:"results"`
	Error     string          `json:"error,omitempty"`
	Exception string          `json:"exception,omitempty"`
}

func (r analyzeResponse) message() string {
	if r.Error != "" {
		return r.Error
	}
	if r.Exception != "" {
		return r.Exception
	}
	return "unknown error"
}

// faces acepta tanto una lista de caras como un unico objeto.
func (r analyzeResponse) faces() ([]faceResult, error) {
	raw := bytes.TrimSpace(r.Results)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '{' {
		var single faceResult
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("unmarshal face: %w", err)
		}
		return []faceResult{single}, nil
	}
	var list []faceResult
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("unmarshal faces: %w", err)
	}
	return list, nil
}

type faceResult struct {
	Age             float64            `json:"age"`
	DominantGender  string             `json:"dominant_gender"`
	DominantEmotion string             `json:"dominant_emotion"`
	DominantRace    string             `json:"dominant_race"`
	Emotion         map[string]float64 `json:"emotion"`
	FaceConfidence  float64            `json:"face_confidence"`
	Region          struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"region"`
}

func (f faceResult) record() domain.AttributeRecord {
	return domain.AttributeRecord{
		EstimatedAge:      f.Age,
		DominantGender:    f.DominantGender,
		DominantEmotion:   f.DominantEmotion,
		DominantEthnicity: f.DominantRace,
		SmileScore:        SmileScore(f.Emotion),
	}
}

// mainFace elige la cara de mayor area; en empate gana la primera.
func mainFace(faces []faceResult) faceResult {
	best := faces[0]
	for _, f := range faces[1:] {
		if f.Region.W*f.Region.H > best.Region.W*best.Region.H {
			best = f
		}
	}
	return best
}

func isNoFaceMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "face could not be detected") || strings.Contains(m, "no face")
}
