package domain

// BioRequest es la entrada de POST /analyze-bio.
type BioRequest struct {
	Bio string `json:"bio"`
}

// ReplyRequest es la entrada de POST /suggest-reply.
type ReplyRequest struct {
	Message string `json:"message"`
	Intent  string `json:"intent,omitempty"`
	Tone    string `json:"tone,omitempty"`
}

// AskOutRequest es la entrada de POST /ask-out.
type AskOutRequest struct {
	Convo string `json:"convo"`
	Tone  string `json:"tone,omitempty"`
}
