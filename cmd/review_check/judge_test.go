package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/llm"
)

const wellFormedReview = `1. First impression: Warm and approachable.
2. Photo critique: Great smile, the lighting is a bit flat.
3. Suggestions: Try an outdoor shot near golden hour.
4. Bio line: "Weekend hiker, weekday pasta perfectionist."
5. Match potential: 78/100. Friendly energy that invites a first message.`

func TestCheckStructureWellFormed(t *testing.T) {
	rep := checkStructure(wellFormedReview)
	if !rep.ok() {
		t.Fatalf("expected valid structure, got %+v", rep)
	}
	if rep.MatchScore != 78 {
		t.Fatalf("expected match score 78, got %d", rep.MatchScore)
	}
}

func TestCheckStructureMissingAndOutOfOrder(t *testing.T) {
	rep := checkStructure("Match potential: 50\nFirst impression: ok\nSuggestions: smile")
	if len(rep.Missing) != 2 {
		t.Fatalf("expected two missing sections, got %v", rep.Missing)
	}
	if !rep.OutOfOrder {
		t.Fatalf("expected out-of-order detection")
	}
}

func TestCheckStructureNoScore(t *testing.T) {
	rep := checkStructure("first impression photo critique suggestions bio line match potential: high")
	if rep.MatchScore != -1 || rep.ok() {
		t.Fatalf("expected missing score, got %+v", rep)
	}
}

func TestDetectNegativeLanguage(t *testing.T) {
	if got := detectNegativeLanguage("honestly this photo looks hopeless"); len(got) != 1 {
		t.Fatalf("expected one negative term, got %v", got)
	}
	if got := detectNegativeLanguage("great smile"); len(got) != 0 {
		t.Fatalf("expected none, got %v", got)
	}
}

func TestEvaluateReviewClampsAndPenalizes(t *testing.T) {
	judge := &llm.MockClient{Response: "```json\n{\"reasoning\":\"fine\",\"tone_score\":9,\"specificity_score\":0}\n```"}

	jr, err := evaluateReview(context.Background(), judge, "name=Sam", wellFormedReview, structureReport{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jr.ToneScore != 5 || jr.SpecificityScore != 1 {
		t.Fatalf("expected clamped scores, got %+v", jr)
	}

	jr, err = evaluateReview(context.Background(), judge, "", "x", structureReport{Negative: []string{"ugly"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jr.ToneScore != 2 {
		t.Fatalf("expected tone capped at 2, got %d", jr.ToneScore)
	}
	if judge.LastRequest().Temperature != 0 {
		t.Fatalf("judge must run deterministically")
	}
}

func TestEvaluateReviewErrors(t *testing.T) {
	if _, err := evaluateReview(context.Background(), &llm.MockClient{Response: "no json here"}, "", "x", structureReport{}); err == nil {
		t.Fatalf("expected non-json error")
	}
	if _, err := evaluateReview(context.Background(), &llm.MockClient{Err: errors.New("down")}, "", "x", structureReport{}); err == nil {
		t.Fatalf("expected client error")
	}
}

func TestLoadScenarios(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := loadScenarios(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(baseScenarios) {
		t.Fatalf("expected %d scenarios, got %d", len(baseScenarios), len(got))
	}
	if got[0].Request.Image == "" || got[0].Request.Name != "Sam" {
		t.Fatalf("unexpected scenario %+v", got[0])
	}
}

func TestDescribe(t *testing.T) {
	if describe(domain.ProfileRequest{}) != "no details shared" {
		t.Fatalf("unexpected empty description")
	}
	if got := describe(domain.ProfileRequest{Name: "Sam", Goals: "fun"}); got != "name=Sam, goals=fun" {
		t.Fatalf("unexpected description %q", got)
	}
}
