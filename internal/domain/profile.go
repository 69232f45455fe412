package domain

// SmileThreshold separa una sonrisa detectada ("Yes") de una neutra ("No").
const SmileThreshold = 0.5

// ProfileRequest es la entrada del pipeline de analisis de perfil.
// Los campos de texto son opcionales; vacio significa "desconocido".
type ProfileRequest struct {
	Image      string `json:"image"`
	Name       string `json:"name,omitempty"`
	Age        string `json:"age,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Goals      string `json:"goals,omitempty"`
	Confidence string `json:"confidence,omitempty"`
}

// AttributeRecord es el resultado normalizado del analisis facial.
type AttributeRecord struct {
	EstimatedAge      float64 `json:"estimated_age"`
	DominantGender    string  `json:"dominant_gender"`
	DominantEmotion   string  `json:"dominant_emotion"`
	DominantEthnicity string  `json:"dominant_ethnicity"`
	SmileScore        float64 `json:"smile_score"` // 0.0 - 1.0
}

// Smiling indica si la sonrisa supera el umbral.
func (a AttributeRecord) Smiling() bool {
	return a.SmileScore >= SmileThreshold
}

// GeneratedReview es el texto final devuelto al usuario, sin parsear.
type GeneratedReview struct {
	Feedback string `json:"feedback"`
}

// ProfileResponse es la forma uniforme de respuesta del pipeline: feedback o error.
type ProfileResponse struct {
	Feedback string `json:"feedback,omitempty"`
	Error    string `json:"error,omitempty"`
}
