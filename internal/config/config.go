package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string   `env:"HTTP_PORT" envDefault:"8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// La credencial del LLM no se valida al arrancar: sin ella la llamada falla en el momento de generar.
	LLMProvider  string        `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey    string        `env:"LLM_API_KEY"`
	LLMBaseURL   string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel     string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	GeminiModel  string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-lite"`

	VisionProvider         string        `env:"VISION_PROVIDER" envDefault:"deepface"`
	VisionBaseURL          string        `env:"VISION_BASE_URL" envDefault:"http://localhost:5005"`
	VisionDetectorBackend  string        `env:"VISION_DETECTOR_BACKEND" envDefault:"opencv"`
	VisionEnforceDetection bool          `env:"VISION_ENFORCE_DETECTION" envDefault:"false"`
	VisionSharedTmp        bool          `env:"VISION_SHARED_TMP" envDefault:"false"`
	VisionModel            string        `env:"VISION_MODEL" envDefault:"gpt-4o-mini"`
	VisionTimeout          time.Duration `env:"VISION_TIMEOUT" envDefault:"120s"`
	VisionMaxConcurrency   int           `env:"VISION_MAX_CONCURRENCY" envDefault:"2"`

	ImageTmpDir    string `env:"IMAGE_TMP_DIR"`
	ImageMaxBytes  int64  `env:"IMAGE_MAX_BYTES" envDefault:"10485760"`
	ImageMaxPixels int64  `env:"IMAGE_MAX_PIXELS" envDefault:"40000000"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.VisionProvider = strings.ToLower(strings.TrimSpace(cfg.VisionProvider))
	if cfg.VisionMaxConcurrency <= 0 {
		cfg.VisionMaxConcurrency = 1
	}
	return &cfg, nil
}

// GenerationKey devuelve la credencial correspondiente al proveedor activo.
func (c *Config) GenerationKey() string {
	if c.LLMProvider == "gemini" && c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.LLMAPIKey
}
