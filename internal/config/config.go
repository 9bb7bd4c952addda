package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
// Las API keys no son obligatorias: su falta se reporta por request.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	GeminiAPIKey          string  `env:"GEMINI_API_KEY"`
	GeminiBaseURL         string  `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	GeminiModel           string  `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	GeminiTemperature     float64 `env:"GEMINI_TEMPERATURE" envDefault:"0.7"`
	GeminiMaxOutputTokens int     `env:"GEMINI_MAX_OUTPUT_TOKENS" envDefault:"4000"`
	LLMRPS                float64 `env:"LLM_RPS" envDefault:"2"`
	LLMBurst              int     `env:"LLM_BURST" envDefault:"4"`

	ExaAPIKey                 string        `env:"EXA_API_KEY"`
	ExaBaseURL                string        `env:"EXA_BASE_URL" envDefault:"https://api.exa.ai"`
	SearchTimeout             time.Duration `env:"SEARCH_TIMEOUT" envDefault:"8s"`
	SearchCacheTTL            time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"6h"`
	SearchReadabilityFallback bool          `env:"SEARCH_READABILITY_FALLBACK" envDefault:"false"`

	YoutubeAPIKey  string `env:"YOUTUBE_API_KEY"`
	YoutubeBaseURL string `env:"YOUTUBE_BASE_URL" envDefault:"https://www.googleapis.com/youtube/v3"`

	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	AnalyzeRateLimit  int           `env:"ANALYZE_RATE_LIMIT" envDefault:"10"`
	AnalyzeRateWindow time.Duration `env:"ANALYZE_RATE_WINDOW" envDefault:"1m"`

	RecoUsePool         bool `env:"RECO_USE_POOL" envDefault:"true"`
	RecoGenerateReasons bool `env:"RECO_GENERATE_REASONS" envDefault:"false"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
