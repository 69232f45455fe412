package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	oagc "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/imaging"
	"github.com/Neuralic/Tinder-AI/internal/llm"
)

const visionSystemPrompt = `You are a facial attribute estimator. You look at one photo and report
apparent attributes of the most prominent face. Always answer, even when the face is
small, blurry or missing: give your best guess and set "face_detected" accordingly.`

const visionUserPrompt = `Return ONLY a JSON object with this format:
{
  "face_detected": true,
  "age": 29,
  "dominant_gender": "Woman",
  "dominant_emotion": "happy",
  "dominant_race": "latino hispanic",
  "emotion": {"angry": 0, "disgust": 0, "fear": 0, "happy": 92.5, "sad": 0, "surprise": 3, "neutral": 4.5}
}
"emotion" values are percentages (0-100) that add up to roughly 100.`

// OpenAIExtractor estima los atributos con un modelo multimodal de OpenAI.
// Temperatura 0 para que la misma imagen produzca el mismo registro.
type OpenAIExtractor struct {
	client  *oagc.Client
	model   string
	enforce bool
}

// NewOpenAIExtractor con enforceDetection devuelve ErrNoFace cuando el modelo
// informa que no hay rostro; sin ella se degrada al registro por defecto.
func NewOpenAIExtractor(apiKey, baseURL, model string, enforceDetection bool, httpClient *http.Client) *OpenAIExtractor {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	return &OpenAIExtractor{
		client:  oagc.NewClient(opts...),
		model:   model,
		enforce: enforceDetection,
	}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, art *imaging.Artifact) (domain.AttributeRecord, error) {
	params := oagc.ChatCompletionNewParams{
		Model: oagc.F(oagc.ChatModel(e.model)),
		Messages: oagc.F([]oagc.ChatCompletionMessageParamUnion{
			oagc.SystemMessage(visionSystemPrompt),
			oagc.UserMessageParts(
				oagc.TextPart(visionUserPrompt),
				oagc.ImagePart(art.DataURI()),
			),
		}),
		MaxTokens:   oagc.Int(300),
		Temperature: oagc.Float(0),
	}
	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return domain.AttributeRecord{}, fmt.Errorf("openai vision: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.AttributeRecord{}, errors.New("openai vision: empty response")
	}
	return parseVisionJSON(resp.Choices[0].Message.Content, e.enforce)
}

type visionLLMResult struct {
	FaceDetected    *bool              `json:"face_detected,omitempty"`
	Age             float64            `json:"age"`
	DominantGender  string             `json:"dominant_gender"`
	DominantEmotion string             `json:"dominant_emotion"`
	DominantRace    string             `json:"dominant_race"`
	Emotion         map[string]float64 `json:"emotion"`
}

func parseVisionJSON(raw string, enforce bool) (domain.AttributeRecord, error) {
	cleaned := llm.CleanJSONResponse(raw)
	var parsed visionLLMResult
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		obj := llm.ExtractFirstJSONObject(cleaned)
		if obj == "" {
			return domain.AttributeRecord{}, fmt.Errorf("parse vision response: %w", err)
		}
		if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
			return domain.AttributeRecord{}, fmt.Errorf("parse vision response: %w", err)
		}
	}
	if parsed.FaceDetected != nil && !*parsed.FaceDetected {
		if enforce {
			return domain.AttributeRecord{}, fmt.Errorf("%w: vision model reported no face", ErrNoFace)
		}
		return domain.AttributeRecord{}, nil
	}
	return domain.AttributeRecord{
		EstimatedAge:      parsed.Age,
		DominantGender:    strings.TrimSpace(parsed.DominantGender),
		DominantEmotion:   strings.TrimSpace(parsed.DominantEmotion),
		DominantEthnicity: strings.TrimSpace(parsed.DominantRace),
		SmileScore:        SmileScore(parsed.Emotion),
	}, nil
}
