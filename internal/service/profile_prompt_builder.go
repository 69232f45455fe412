package service

import (
	"fmt"
	"strings"

	"github.com/Neuralic/Tinder-AI/internal/domain"
)

const (
	sentinelUnknown      = "Unknown"
	sentinelNotSpecified = "Not specified"
	sentinelNotShared    = "Not shared"
)

// ProfilePromptBuilder construye el prompt de revision de perfil a partir de
// los atributos visuales y los datos del usuario. Es puro y determinista.
type ProfilePromptBuilder struct{}

// BuildProfilePrompt arma el prompt completo que se envía al LLM generador.
// Solo varian los bloques de analisis visual y de datos del usuario.
func (ProfilePromptBuilder) BuildProfilePrompt(attrs domain.AttributeRecord, req domain.ProfileRequest) string {
	var sb strings.Builder

	sb.WriteString("Analyze this dating profile and give the user feedback.\n\n")

	// 1. Analisis visual
	sb.WriteString("=== VISUAL ANALYSIS OF THE PROFILE PHOTO ===\n")
	sb.WriteString(fmt.Sprintf("- Estimated age: %s\n", formatAge(attrs.EstimatedAge)))
	sb.WriteString(fmt.Sprintf("- Detected gender: %s\n", orDefault(attrs.DominantGender, sentinelUnknown)))
	sb.WriteString(fmt.Sprintf("- Emotion: %s\n", orDefault(attrs.DominantEmotion, sentinelUnknown)))
	sb.WriteString(fmt.Sprintf("- Ethnicity: %s\n", orDefault(attrs.DominantEthnicity, sentinelUnknown)))
	sb.WriteString(fmt.Sprintf("- Smiling: %s\n\n", yesNo(attrs.Smiling())))

	// 2. Datos del usuario
	sb.WriteString("=== USER INFO ===\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", orDefault(req.Name, sentinelUnknown)))
	sb.WriteString(fmt.Sprintf("- Age: %s\n", orDefault(req.Age, sentinelNotSpecified)))
	sb.WriteString(fmt.Sprintf("- Gender: %s\n", orDefault(req.Gender, sentinelNotSpecified)))
	sb.WriteString(fmt.Sprintf("- Goals: %s\n", orDefault(req.Goals, sentinelNotSpecified)))
	sb.WriteString(fmt.Sprintf("- Confidence (self-rated): %s\n\n", orDefault(req.Confidence, sentinelNotShared)))

	// 3. Instrucciones fijas
	sb.WriteString(profileReviewInstructions)

	return sb.String()
}

const profileReviewInstructions = `=== YOUR TASK ===
Reply with exactly these five parts, each starting with its label:
1. First impression: how the photo comes across at a glance.
2. Photo critique: what works and what does not (lighting, framing, expression, outfit).
3. Suggestions: concrete, doable ways to improve the photo and the profile.
4. Bio line: one short bio line tailored to this person and their goals.
5. Match potential: a score from 0 to 100, followed by a one-sentence justification.

Tone: casual, warm and confident, like a friend who knows dating apps well.
Be encouraging and honest. Never be negative, mean or insulting, and never comment
on ethnicity as something to change.
`

func formatAge(age float64) string {
	if age <= 0 {
		return sentinelUnknown
	}
	return fmt.Sprintf("%.0f", age)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// orDefault colapsa espacios y saltos de linea para que el dato no rompa el bloque.
func orDefault(value, fallback string) string {
	v := strings.Join(strings.Fields(value), " ")
	if v == "" {
		return fallback
	}
	return v
}
