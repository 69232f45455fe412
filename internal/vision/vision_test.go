package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/imaging"
)

func newArtifact(t *testing.T) *imaging.Artifact {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 6, 6))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	art, err := imaging.NewDecoder(t.TempDir(), 0).Decode(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	t.Cleanup(func() { art.Close() })
	return art
}

func TestSmileScoreRange(t *testing.T) {
	for happy := 0.0; happy <= 100; happy += 0.5 {
		s := SmileScore(map[string]float64{"happy": happy})
		if s < 0 || s > 1 {
			t.Fatalf("score %f out of range for happy=%f", s, happy)
		}
	}
	if SmileScore(map[string]float64{"happy": 97}) != 0.97 {
		t.Fatalf("expected 0.97")
	}
	if SmileScore(map[string]float64{"sad": 40}) != 0 {
		t.Fatalf("expected 0 when happy channel is absent")
	}
	if SmileScore(nil) != 0 {
		t.Fatalf("expected 0 for nil distribution")
	}
	if SmileScore(map[string]float64{"happy": 140}) != 1 {
		t.Fatalf("expected clamp to 1")
	}
}

func TestDeepFaceExtractorSingleCallWithAllActions(t *testing.T) {
	var calls int32
	var got analyzeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/analyze" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"results":[{
			"age": 31, "dominant_gender": "Man", "dominant_emotion": "happy", "dominant_race": "white",
			"emotion": {"happy": 88.0, "neutral": 12.0}, "region": {"w": 120, "h": 140}
		}]}`))
	}))
	defer srv.Close()

	art := newArtifact(t)
	e := NewDeepFaceExtractor(srv.URL+"/", DeepFaceOptions{}, zap.NewNop())
	rec, err := e.Extract(context.Background(), art)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single inference call, got %d", calls)
	}
	if strings.Join(got.Actions, ",") != "age,gender,emotion,race" {
		t.Fatalf("unexpected actions %v", got.Actions)
	}
	if got.EnforceDetection {
		t.Fatalf("expected relaxed face detection")
	}
	if got.DetectorBackend != "opencv" {
		t.Fatalf("expected default detector, got %s", got.DetectorBackend)
	}
	if got.Img != art.DataURI() {
		t.Fatalf("expected inline data uri")
	}
	want := domain.AttributeRecord{EstimatedAge: 31, DominantGender: "Man", DominantEmotion: "happy", DominantEthnicity: "white", SmileScore: 0.88}
	if rec != want {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestDeepFaceExtractorSharedPath(t *testing.T) {
	var got analyzeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"results":{"age": 25, "dominant_gender": "Woman", "emotion": {"sad": 70}}}`))
	}))
	defer srv.Close()

	art := newArtifact(t)
	e := NewDeepFaceExtractor(srv.URL, DeepFaceOptions{SharedPath: true, DetectorBackend: "retinaface"}, nil)
	rec, err := e.Extract(context.Background(), art)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Img != art.Path || got.DetectorBackend != "retinaface" {
		t.Fatalf("unexpected request %+v", got)
	}
	if rec.SmileScore != 0 || rec.DominantGender != "Woman" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestDeepFaceExtractorPicksLargestFace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[
			{"age": 50, "dominant_gender": "Man", "region": {"w": 10, "h": 10}},
			{"age": 27, "dominant_gender": "Woman", "region": {"w": 200, "h": 220}}
		]}`))
	}))
	defer srv.Close()

	rec, err := NewDeepFaceExtractor(srv.URL, DeepFaceOptions{}, nil).Extract(context.Background(), newArtifact(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.EstimatedAge != 27 {
		t.Fatalf("expected largest face to win, got %+v", rec)
	}
}

func TestDeepFaceExtractorNoFaceDegradesGracefully(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Face could not be detected in numpy array."}`))
	}))
	defer srv.Close()

	rec, err := NewDeepFaceExtractor(srv.URL, DeepFaceOptions{}, nil).Extract(context.Background(), newArtifact(t))
	if err != nil {
		t.Fatalf("expected graceful degradation, got %v", err)
	}
	if rec != (domain.AttributeRecord{}) {
		t.Fatalf("expected default record, got %+v", rec)
	}

	_, err = NewDeepFaceExtractor(srv.URL, DeepFaceOptions{EnforceDetection: true}, nil).Extract(context.Background(), newArtifact(t))
	if !errors.Is(err, ErrNoFace) {
		t.Fatalf("expected ErrNoFace in strict mode, got %v", err)
	}
}

func TestDeepFaceExtractorEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	rec, err := NewDeepFaceExtractor(srv.URL, DeepFaceOptions{}, nil).Extract(context.Background(), newArtifact(t))
	if err != nil || rec.SmileScore != 0 {
		t.Fatalf("expected defaults, got %+v, %v", rec, err)
	}
}

func TestDeepFaceExtractorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"exception":"model weights missing"}`))
	}))
	defer srv.Close()

	_, err := NewDeepFaceExtractor(srv.URL, DeepFaceOptions{}, nil).Extract(context.Background(), newArtifact(t))
	if err == nil || !strings.Contains(err.Error(), "model weights missing") {
		t.Fatalf("expected server error, got %v", err)
	}
	if errors.Is(err, ErrNoFace) {
		t.Fatalf("server errors must not look like no-face")
	}
}

func TestParseVisionJSON(t *testing.T) {
	raw := "```json\n{\"face_detected\": true, \"age\": 33, \"dominant_gender\": \" Woman \", \"dominant_emotion\": \"happy\", \"dominant_race\": \"asian\", \"emotion\": {\"happy\": 64}}\n```"
	rec, err := parseVisionJSON(raw, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.AttributeRecord{EstimatedAge: 33, DominantGender: "Woman", DominantEmotion: "happy", DominantEthnicity: "asian", SmileScore: 0.64}
	if rec != want {
		t.Fatalf("unexpected record %+v", rec)
	}

	rec, err = parseVisionJSON(`Here you go: {"face_detected": false, "age": 41, "emotion": {"happy": 80}} thanks`, false)
	if err != nil {
		t.Fatalf("expected wrapped json to parse, got %v", err)
	}
	if rec != (domain.AttributeRecord{}) {
		t.Fatalf("expected default record without a face, got %+v", rec)
	}

	if _, err := parseVisionJSON("I cannot help with that", false); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseVisionJSONStrictDetection(t *testing.T) {
	_, err := parseVisionJSON(`{"face_detected": false, "age": 0}`, true)
	if !errors.Is(err, ErrNoFace) {
		t.Fatalf("expected ErrNoFace in strict mode, got %v", err)
	}

	// Sin el campo se asume que hubo rostro.
	rec, err := parseVisionJSON(`{"age": 25, "dominant_gender": "Man"}`, true)
	if err != nil || rec.EstimatedAge != 25 {
		t.Fatalf("expected record without face_detected, got %+v, %v", rec, err)
	}
}

func TestOpenAIExtractorSendsImageAtZeroTemperature(t *testing.T) {
	var calls int32
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		content, _ := json.Marshal(`{"face_detected": true, "age": 28, "dominant_gender": "Woman", "dominant_emotion": "happy", "dominant_race": "white", "emotion": {"happy": 75}}`)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` + string(content) + `}}]}`))
	}))
	defer srv.Close()

	art := newArtifact(t)
	e := NewOpenAIExtractor("test-key", srv.URL, "gpt-4o-mini", false, srv.Client())
	rec, err := e.Extract(context.Background(), art)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single inference call, got %d", calls)
	}
	if temp, ok := body["temperature"].(float64); !ok || temp != 0 {
		t.Fatalf("expected temperature 0, got %v", body["temperature"])
	}
	if body["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model %v", body["model"])
	}
	raw, _ := json.Marshal(body["messages"])
	if !strings.Contains(string(raw), `"image_url"`) || !strings.Contains(string(raw), art.DataURI()) {
		t.Fatalf("expected an image_url part with the artifact data uri, got %s", raw)
	}
	want := domain.AttributeRecord{EstimatedAge: 28, DominantGender: "Woman", DominantEmotion: "happy", DominantEthnicity: "white", SmileScore: 0.75}
	if rec != want {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestOpenAIExtractorStrictNoFace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-2","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"face_detected\": false}"}}]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIExtractor("test-key", srv.URL, "gpt-4o-mini", true, srv.Client()).Extract(context.Background(), newArtifact(t))
	if !errors.Is(err, ErrNoFace) {
		t.Fatalf("expected ErrNoFace in strict mode, got %v", err)
	}
}

type slowExtractor struct {
	active  int32
	maxSeen int32
}

func (s *slowExtractor) Extract(ctx context.Context, art *imaging.Artifact) (domain.AttributeRecord, error) {
	n := atomic.AddInt32(&s.active, 1)
	for {
		m := atomic.LoadInt32(&s.maxSeen)
		if n <= m || atomic.CompareAndSwapInt32(&s.maxSeen, m, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	atomic.AddInt32(&s.active, -1)
	return domain.AttributeRecord{EstimatedAge: 30}, nil
}

func TestPoolBoundsConcurrency(t *testing.T) {
	inner := &slowExtractor{}
	p := NewPool(inner, 2, time.Second)
	art := newArtifact(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Extract(context.Background(), art); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if inner.maxSeen > 2 {
		t.Fatalf("expected at most 2 concurrent extractions, saw %d", inner.maxSeen)
	}
}

func TestPoolRespectsCancelledContext(t *testing.T) {
	p := NewPool(&MockExtractor{}, 1, 0)
	if err := p.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer p.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := p.Extract(ctx, newArtifact(t)); err == nil {
		t.Fatalf("expected error when no worker is free before deadline")
	}
}
