package main

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Neuralic/Tinder-AI/internal/llm"
)

// reviewSections son las cinco partes que toda revision debe traer, en orden.
var reviewSections = []string{
	"first impression",
	"photo critique",
	"suggestions",
	"bio line",
	"match potential",
}

var matchScorePattern = regexp.MustCompile(`(?i)match potential[^0-9]{0,40}(\d{1,3})`)

// structureReport resume el chequeo estructural, sin LLM.
type structureReport struct {
	Missing    []string
	OutOfOrder bool
	MatchScore int // -1 si no se encontro
	Negative   []string
}

func (r structureReport) ok() bool {
	return len(r.Missing) == 0 && !r.OutOfOrder && r.MatchScore >= 0 && len(r.Negative) == 0
}

func checkStructure(review string) structureReport {
	lower := strings.ToLower(review)
	rep := structureReport{MatchScore: -1}

	last := -1
	for _, s := range reviewSections {
		idx := strings.Index(lower, s)
		if idx < 0 {
			rep.Missing = append(rep.Missing, s)
			continue
		}
		if idx < last {
			rep.OutOfOrder = true
		}
		last = idx
	}

	if m := matchScorePattern.FindStringSubmatch(review); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v <= 100 {
			rep.MatchScore = v
		}
	}

	rep.Negative = detectNegativeLanguage(lower)
	return rep
}

// Terminos que nunca deberian aparecer en una revision alentadora.
var negativeTerms = []string{"ugly", "unattractive", "hopeless", "loser", "gross", "pathetic", "nobody will"}

func detectNegativeLanguage(lower string) []string {
	var found []string
	for _, t := range negativeTerms {
		if strings.Contains(lower, t) {
			found = append(found, t)
		}
	}
	return found
}

// judgeResponse es la respuesta JSON del juez.
type judgeResponse struct {
	Reasoning        string `json:"reasoning"`
	ToneScore        int    `json:"tone_score"`
	SpecificityScore int    `json:"specificity_score"`
}

func evaluateReview(ctx context.Context, judge llm.LLMClient, profile, review string, rep structureReport) (judgeResponse, error) {
	raw, err := judge.Generate(ctx, llm.Request{
		System:      "You are a strict evaluator of dating-profile coaching answers.",
		Prompt:      buildJudgePrompt(profile, review, rep),
		MaxTokens:   300,
		Temperature: 0,
	})
	if err != nil {
		return judgeResponse{}, err
	}

	jsonStr := llm.ExtractFirstJSONObject(llm.CleanJSONResponse(raw))
	if jsonStr == "" {
		return judgeResponse{}, fmt.Errorf("judge returned non-json: %q", raw)
	}
	var jr judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &jr); err != nil {
		return judgeResponse{}, fmt.Errorf("parse judge json: %w (raw=%q)", err, jsonStr)
	}

	jr.ToneScore = clamp1to5(jr.ToneScore)
	jr.SpecificityScore = clamp1to5(jr.SpecificityScore)

	// Lenguaje negativo detectado: el tono no puede pasar de 2.
	if len(rep.Negative) > 0 && jr.ToneScore > 2 {
		jr.ToneScore = 2
	}
	return jr, nil
}

func buildJudgePrompt(profile, review string, rep structureReport) string {
	return fmt.Sprintf(`Evaluate this dating-profile review written for a user.

User profile: %s
Heuristics: missing_sections=%d, match_score_found=%t, negative_terms=%d

Review:
%q

Score from 1 to 5:
1) Tone: casual, warm, encouraging and honest. 1 = mean or insulting, 5 = a supportive friend.
2) Specificity: advice tied to this user and photo. 1 = generic filler, 5 = concrete and personal.

Reply ONLY with JSON (no markdown):
{
  "reasoning": "...",
  "tone_score": 0,
  "specificity_score": 0
}`, profile, len(rep.Missing), rep.MatchScore >= 0, len(rep.Negative), review)
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
