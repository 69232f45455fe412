package service

import "fmt"

const (
	defaultReplyIntent = "keep the conversation going"
	defaultAskOutTone  = "confident"
)

// BuildBioPrompt pide tres frases de apertura a partir de una bio.
func BuildBioPrompt(bio string) string {
	return fmt.Sprintf("Based on this Tinder bio: '%s', give me 3 unique opening lines. "+
		"Number them 1 to 3 and keep each under 25 words.", orDefault(bio, ""))
}

// BuildReplyPrompt pide tres respuestas a un mensaje recibido.
func BuildReplyPrompt(message, intent, tone string) string {
	prompt := fmt.Sprintf("I'm chatting on Tinder. They said: '%s'. My intent is to '%s'. "+
		"Suggest 3 flirty/funny replies.", orDefault(message, ""), orDefault(intent, defaultReplyIntent))
	if t := orDefault(tone, ""); t != "" {
		prompt += fmt.Sprintf(" Keep the tone %s.", t)
	}
	return prompt
}

// BuildAskOutPrompt pide un unico mensaje para proponer una cita.
// El chat conserva sus saltos de linea: cada linea es un turno.
func BuildAskOutPrompt(convo, tone string) string {
	return fmt.Sprintf("This is my Tinder chat:\n'%s'\n\nSuggest a cool, smooth, and %s way to ask them out. "+
		"Reply with the single message I should send, nothing else.", convo, orDefault(tone, defaultAskOutTone))
}
