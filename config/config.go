package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries every runtime setting the service reads. It is built once
// in main via Load and passed by reference into constructors; nothing in the
// codebase reads the environment after startup.
type Config struct {
	Port        string
	Environment string
	GinMode     string

	DBHost     string
	DBPort     string
	DBDatabase string
	DBUsername string
	DBPassword string
	DebugSQL   bool

	JWTSecret      string
	JWTExpireHours int

	UploadPath      string
	MaxUploadSizeMB int64

	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string
	SMTPSkipTLSVerify bool

	FrontendURL        string
	CORSAllowedOrigins []string

	LogLevel string
}

// Load reads the configuration from environment variables. Callers that want
// .env support run godotenv.Load before calling this.
func Load() *Config {
	return &Config{
		Port:        getenv("PORT", "8080"),
		Environment: strings.ToLower(getenv("ENVIRONMENT", "development")),
		GinMode:     getenv("GIN_MODE", ""),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "3306"),
		DBDatabase: getenv("DB_DATABASE", "marketing_analytics"),
		DBUsername: getenv("DB_USERNAME", "root"),
		DBPassword: getenv("DB_PASSWORD", ""),
		DebugSQL:   getenvBool("DEBUG_SQL", false),

		JWTSecret:      getenv("JWT_SECRET", ""),
		JWTExpireHours: getenvInt("JWT_EXPIRE_HOURS", 24),

		UploadPath:      getenv("UPLOAD_PATH", "./uploads"),
		MaxUploadSizeMB: getenvInt64("MAX_UPLOAD_SIZE_MB", 10),

		SMTPHost:          getenv("SMTP_HOST", ""),
		SMTPPort:          getenvInt("SMTP_PORT", 587),
		SMTPUser:          getenv("SMTP_USER", ""),
		SMTPPass:          getenv("SMTP_PASS", ""),
		SMTPFrom:          getenv("SMTP_FROM", ""),
		SMTPSkipTLSVerify: getenvBool("SMTP_SKIP_TLS_VERIFY", false),

		FrontendURL:        strings.TrimRight(getenv("FRONTEND_URL", "http://localhost:3000"), "/"),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "")),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadSizeMB << 20
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getenvInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(getenv(key, ""), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	switch strings.ToLower(getenv(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
