package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderMailjet = "mailjet"
	ProviderSMTP    = "smtp"
)

// SMTP connection security modes
const (
	SMTPTLSStartTLS = "starttls"
	SMTPTLSImplicit = "tls"
	SMTPTLSNone     = "none"
)

type Config struct {
	Port          string
	GinMode       string
	LogLevel      string
	AllowedOrigin string
	// Email provider selection ("mailjet" or "smtp")
	EmailProvider string
	// Mailjet v3.1 Configuration
	MailjetAPIKey    string
	MailjetAPISecret string
	MailjetBaseURL   string
	MailjetSandbox   bool
	// SMTP Configuration (only used when EmailProvider is "smtp")
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPTLS      string
	// Addresses
	FromEmail     string
	FromName      string
	ContactTo     string
	ContactToName string
	SubjectPrefix string
	// Development-only credential fallback via query string
	AllowQueryCredentials bool
	TrustLocalhost        bool
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	RateLimitMax           int
	// Transport
	ProviderTimeoutSeconds int
	MaxBodyBytes           int64
	SwaggerEnabled         bool
}

func LoadConfig() (*Config, error) {
	// Only effective locally; a missing .env file is ignored
	_ = godotenv.Load()

	ginMode := getEnv("GIN_MODE", "debug")

	cfg := &Config{
		Port:          getEnv("PORT", "3000"),
		GinMode:       ginMode,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		EmailProvider: strings.ToLower(getEnv("EMAIL_PROVIDER", ProviderMailjet)),
		// Mailjet: MJ_* names take precedence over the MAILJET_* aliases
		MailjetAPIKey:    firstEnv("MJ_APIKEY_PUBLIC", "MAILJET_API_KEY"),
		MailjetAPISecret: firstEnv("MJ_APIKEY_PRIVATE", "MAILJET_API_SECRET"),
		MailjetBaseURL:   strings.TrimRight(getEnv("MAILJET_API_URL", "https://api.mailjet.com"), "/"),
		MailjetSandbox:   getEnvBool("MAILJET_SANDBOX", false),
		// SMTP
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPTLS:      strings.ToLower(getEnv("SMTP_TLS", "")),
		// Addresses
		FromEmail:     firstEnv("MAILJET_FROM", "MJ_SENDER_EMAIL"),
		FromName:      orDefault(firstEnv("MAILJET_FROM_NAME", "MJ_SENDER_NAME"), "Site"),
		ContactTo:     getEnv("CONTACT_TO", ""),
		ContactToName: getEnv("CONTACT_TO_NAME", "Contato"),
		SubjectPrefix: getEnv("CONTACT_SUBJECT_PREFIX", "Novo contato"),
		// Query credentials
		AllowQueryCredentials: getEnvBool("ALLOW_QUERY_CREDS", false),
		TrustLocalhost:        getEnvBool("LOCALHOST_QUERY_CREDS", true),
		// Redis/Upstash
		UpstashRedisURL:      firstEnv("UPSTASH_REDIS_URL", "REDIS_URL"),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting (5 submissions per hour per IP)
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 3600),
		RateLimitMax:           getEnvInt("RATE_LIMIT_MAX", 5),
		// Transport
		ProviderTimeoutSeconds: getEnvInt("PROVIDER_TIMEOUT_SECONDS", 10),
		MaxBodyBytes:           int64(getEnvInt("MAX_BODY_BYTES", 64*1024)),
		SwaggerEnabled:         getEnvBool("SWAGGER_ENABLED", ginMode != "release"),
	}

	if cfg.EmailProvider != ProviderMailjet && cfg.EmailProvider != ProviderSMTP {
		log.Printf("WARNING: unknown EMAIL_PROVIDER %q, using %s", cfg.EmailProvider, ProviderMailjet)
		cfg.EmailProvider = ProviderMailjet
	}

	cfg.SMTPTLS = smtpTLSMode(cfg.SMTPTLS, cfg.SMTPPort)

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory store.")
	}

	return cfg, nil
}

// ProviderKey returns the credential used as the provider's API key (Mailjet) or login (SMTP).
func (c *Config) ProviderKey() string {
	if c.EmailProvider == ProviderSMTP {
		return c.SMTPUsername
	}
	return c.MailjetAPIKey
}

// ProviderSecret returns the credential paired with ProviderKey.
func (c *Config) ProviderSecret() string {
	if c.EmailProvider == ProviderSMTP {
		return c.SMTPPassword
	}
	return c.MailjetAPISecret
}

// RequiredNames returns the display names reported when a required value is missing,
// in the order: api key, api secret, sender, recipient.
func (c *Config) RequiredNames() [4]string {
	if c.EmailProvider == ProviderSMTP {
		return [4]string{"SMTP_USERNAME", "SMTP_PASSWORD", "MAILJET_FROM or MJ_SENDER_EMAIL", "CONTACT_TO"}
	}
	return [4]string{
		"MAILJET_API_KEY or MJ_APIKEY_PUBLIC",
		"MAILJET_API_SECRET or MJ_APIKEY_PRIVATE",
		"MAILJET_FROM or MJ_SENDER_EMAIL",
		"CONTACT_TO",
	}
}

// smtpTLSMode defaults to implicit TLS on 465 and STARTTLS elsewhere
func smtpTLSMode(mode, port string) string {
	switch mode {
	case SMTPTLSStartTLS, SMTPTLSImplicit, SMTPTLSNone:
		return mode
	case "":
	default:
		log.Printf("WARNING: unknown SMTP_TLS %q, using the default for port %s", mode, port)
	}
	if port == "465" {
		return SMTPTLSImplicit
	}
	return SMTPTLSStartTLS
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// firstEnv returns the first non-empty value among keys
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
