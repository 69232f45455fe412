package domain

import (
	"errors"
	"io"
	"testing"
)

func TestMissingInputMessage(t *testing.T) {
	err := MissingInput("image")
	if err.Error() != "No image provided." {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput")
	}
	if KindName(err) != "missing_input" {
		t.Fatalf("unexpected kind %q", KindName(err))
	}
}

func TestNewStageErrorWrapsKindAndCause(t *testing.T) {
	err := NewStageError(ErrDecode, StageDecoding, io.ErrUnexpectedEOF)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected cause to be preserved")
	}
	if StageOf(err) != StageDecoding {
		t.Fatalf("expected stage decoding, got %s", StageOf(err))
	}
	if err.Error() != "image decode failed: unexpected EOF" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestNewStageErrorKeepsExistingTag(t *testing.T) {
	inner := NewStageError(ErrInference, StageExtracting, errors.New("model load"))
	err := NewStageError(ErrGeneration, StageGenerating, inner)
	if errors.Is(err, ErrGeneration) {
		t.Fatalf("expected original tag to be kept")
	}
	if KindName(err) != "inference" {
		t.Fatalf("expected inference kind, got %q", KindName(err))
	}
}

func TestKindNameUntagged(t *testing.T) {
	if KindName(errors.New("boom")) != "internal" {
		t.Fatalf("expected internal")
	}
	if KindName(nil) != "" {
		t.Fatalf("expected empty kind for nil")
	}
	if StageOf(errors.New("boom")) != StageFailed {
		t.Fatalf("expected failed stage")
	}
}

func TestAttributeRecordSmiling(t *testing.T) {
	if (AttributeRecord{SmileScore: 0.5}).Smiling() != true {
		t.Fatalf("0.5 should count as smiling")
	}
	if (AttributeRecord{SmileScore: 0.49}).Smiling() {
		t.Fatalf("0.49 should not count as smiling")
	}
}
