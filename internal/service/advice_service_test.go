package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/llm"
)

func TestAdviceServiceAskOut(t *testing.T) {
	mock := &llm.MockClient{Response: "  Want to grab tacos Saturday? \n"}
	svc := NewAdviceService(NewGenerator(mock, 0, nil), nil, nil)

	out, err := svc.AskOut(context.Background(), domain.AskOutRequest{Convo: "me: hi\nthem: hey, love tacos", Tone: "playful"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Want to grab tacos Saturday?" {
		t.Fatalf("expected trimmed line, got %q", out)
	}
	req := mock.LastRequest()
	if req.MaxTokens != 120 || req.Temperature != 0.95 {
		t.Fatalf("unexpected params %+v", req)
	}
	if !strings.Contains(req.Prompt, "playful") {
		t.Fatalf("expected tone in prompt")
	}
}

func TestAdviceServiceMissingInput(t *testing.T) {
	mock := &llm.MockClient{Response: "x"}
	svc := NewAdviceService(NewGenerator(mock, 0, nil), nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() error
		want string
	}{
		{"bio", func() error { _, err := svc.AnalyzeBio(ctx, domain.BioRequest{Bio: " "}); return err }, "No bio provided."},
		{"reply", func() error { _, err := svc.SuggestReply(ctx, domain.ReplyRequest{Intent: "date"}); return err }, "No message provided."},
		{"ask out", func() error { _, err := svc.AskOut(ctx, domain.AskOutRequest{Tone: "bold"}); return err }, "No chat context provided."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			if !errors.Is(err, domain.ErrMissingInput) || err.Error() != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
	if mock.Calls != 0 {
		t.Fatalf("llm must not be called on missing input")
	}
}

func TestAdviceServiceSuggestReplyAndBio(t *testing.T) {
	mock := &llm.MockClient{Response: "1. a\n2. b\n3. c"}
	stages := &stageLog{}
	svc := NewAdviceService(NewGenerator(mock, 0, nil), nil, nil).WithStageHook(stages.hook)

	if _, err := svc.SuggestReply(context.Background(), domain.ReplyRequest{Message: "What's your go-to karaoke song?"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mock.LastRequest().Prompt; !strings.Contains(got, "They said: 'What's your go-to karaoke song?'") {
		t.Fatalf("unexpected prompt %q", got)
	}
	if got := stages.String(); got != "validating>synthesizing>generating>done" {
		t.Fatalf("unexpected stages %s", got)
	}

	if _, err := svc.AnalyzeBio(context.Background(), domain.BioRequest{Bio: "Hiker. Pizza snob."}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.LastRequest().System != BioOpenersTask.System {
		t.Fatalf("expected bio system prompt")
	}
}

func TestAdviceServiceGenerationError(t *testing.T) {
	svc := NewAdviceService(NewGenerator(&llm.MockClient{Err: errors.New("down")}, 0, nil), nil, nil)
	_, err := svc.AnalyzeBio(context.Background(), domain.BioRequest{Bio: "hi"})
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected generation error, got %v", err)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	if RequestIDFrom(ctx) != "req-1" || RequestIDFrom(context.Background()) != "" {
		t.Fatalf("unexpected request id propagation")
	}
}
