package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"3001"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	LogDir      string `env:"LOG_DIR" envDefault:"./logs"`

	DBUser           string        `env:"DB_USER"`
	DBPassword       string        `env:"DB_PASSWORD"`
	DBHost           string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort           string        `env:"DB_PORT" envDefault:"5432"`
	DBName           string        `env:"DB_NAME"`
	DBSSLMode        string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBConnectRetries int           `env:"DB_CONNECT_RETRIES" envDefault:"10"`
	DBConnectDelay   time.Duration `env:"DB_CONNECT_DELAY" envDefault:"5s"`

	JWTSecret    string        `env:"JWT_SECRET" envDefault:"fallback-secret-key"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"24h"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"12"`

	// Groq exposes an OpenAI-compatible API; any compatible base URL works.
	LLMAPIKey    string        `env:"OPENAI_API_KEY"`
	LLMBaseURL   string        `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel     string        `env:"LLM_MODEL" envDefault:"llama-3.1-8b-instant"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	LLMMaxTokens int           `env:"LLM_MAX_TOKENS" envDefault:"1000"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOBucket    string `env:"MINIO_BUCKET" envDefault:"avatars"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	// Base used to build public avatar URLs. Empty means http(s)://<endpoint>/<bucket>.
	MinIOPublicURL string `env:"MINIO_PUBLIC_URL"`
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) StorageEnabled() bool {
	return c.MinIOEndpoint != ""
}
