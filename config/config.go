package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Chatbot   ChatbotConfig
}

type AppConfig struct {
	Port string
	Env  string
	// AllowedOrigin is the frontend origin for CORS. "*" disables
	// credentialed requests.
	AllowedOrigin string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SessionConfig selects the session registry backend. "memory" serves a
// single-instance deployment; "redis" shares the registry across
// instances.
type SessionConfig struct {
	Store      string
	TTL        time.Duration
	CookieName string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type ChatbotConfig struct {
	APIKey string
	APIURL string
	Model  string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Environment-only configuration is fine; .env is optional.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	sessionTTL, err := time.ParseDuration(viper.GetString("SESSION_TTL"))
	if err != nil {
		sessionTTL = 24 * time.Hour
	}

	sessionStore := viper.GetString("SESSION_STORE")
	if sessionStore == "" {
		sessionStore = "memory"
	}

	cookieName := viper.GetString("SESSION_COOKIE_NAME")
	if cookieName == "" {
		cookieName = "MEDICONNECT_SESSION"
	}

	rps := viper.GetFloat64("RATE_LIMIT_RPS")
	if rps == 0 {
		rps = 5
	}
	burst := viper.GetInt("RATE_LIMIT_BURST")
	if burst == 0 {
		burst = 10
	}

	chatbotURL := viper.GetString("OPENROUTER_API_URL")
	if chatbotURL == "" {
		chatbotURL = "https://openrouter.ai/api/v1/chat/completions"
	}
	chatbotModel := viper.GetString("OPENROUTER_MODEL")
	if chatbotModel == "" {
		chatbotModel = "meta-llama/llama-3.1-8b-instruct:free"
	}

	allowedOrigin := viper.GetString("CORS_ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}

	config := &Config{
		App: AppConfig{
			Port:          viper.GetString("APP_PORT"),
			Env:           viper.GetString("APP_ENV"),
			AllowedOrigin: allowedOrigin,
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Store:      sessionStore,
			TTL:        sessionTTL,
			CookieName: cookieName,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: rps,
			Burst:             burst,
		},
		Chatbot: ChatbotConfig{
			APIKey: viper.GetString("OPENROUTER_API_KEY"),
			APIURL: chatbotURL,
			Model:  chatbotModel,
		},
	}

	return config, nil
}
