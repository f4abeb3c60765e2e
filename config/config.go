package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Email         EmailConfig
	Calendar      CalendarConfig
	Booking       BookingConfig
	Alerting      AlertingConfig
	EventTriggers EventTriggerConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Cache         CacheConfig
	AdminSession  AdminSessionConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	FrontendURL    string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	User     string
	Password string
	From     string
}

type CalendarConfig struct {
	CredentialsFile string // GOOGLE_APPLICATION_CREDENTIALS service account key path
	CalendarID      string
}

type BookingConfig struct {
	DefaultTimezone string
	MaxAdvanceDays  int
}

type AlertingConfig struct {
	SlackWebhookURL    string
	DiscordWebhookURL  string
	WebhookURLs        []string // generic JSON webhooks
	ErrorRateWindow    int      // seconds
	HighErrorCount     int
	CriticalErrorCount int
	MemoryWarnPercent  float64
	MemoryCritPercent  float64
}

type EventTriggerConfig struct {
	BookingCreatedTriggerURL   string
	BookingConfirmedTriggerURL string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	OTLPEndpoint      string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type CacheConfig struct {
	SlotTTLSeconds int // available-slots cache TTL in seconds
}

type AdminSessionConfig struct {
	JWTSecret       string
	JWTIssuer       string
	SessionTTLHours int
	CookieDomain    string
	CookieSecure    bool
	AdminEmail      string
	AdminPassword   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "5001")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://api.eduforge.io")
	v.SetDefault("FRONTEND_URL", "https://eduforge.io")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	v.SetDefault("BOOKING_DEFAULT_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("BOOKING_MAX_ADVANCE_DAYS", 30)
	v.SetDefault("ALERT_ERROR_RATE_WINDOW_SECONDS", 300)
	v.SetDefault("ALERT_HIGH_ERROR_COUNT", 10)
	v.SetDefault("ALERT_CRITICAL_ERROR_COUNT", 50)
	v.SetDefault("ALERT_MEMORY_WARN_PERCENT", 80.0)
	v.SetDefault("ALERT_MEMORY_CRIT_PERCENT", 90.0)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "eduforge-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "eduforge")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "eduforge-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("SLOT_CACHE_TTL", 300) // 5 minutes in seconds

	// Admin session defaults
	v.SetDefault("JWT_ISSUER", "eduforge-api")
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Allowed CORS origins: FRONTEND_URL plus any extra comma-separated origins
	allowedOrigins := []string{}
	if frontend := strings.TrimSpace(v.GetString("FRONTEND_URL")); frontend != "" {
		allowedOrigins = append(allowedOrigins, frontend)
	}
	for _, origin := range strings.Split(v.GetString("ALLOWED_CORS_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" && !contains(allowedOrigins, origin) {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	// Generic alert webhook URLs (comma-separated)
	webhookURLs := []string{}
	for _, u := range strings.Split(v.GetString("ALERT_WEBHOOK_URLS"), ",") {
		u = strings.TrimSpace(u)
		if u != "" {
			webhookURLs = append(webhookURLs, u)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			FrontendURL:    v.GetString("FRONTEND_URL"),
			AllowedOrigins: allowedOrigins,
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			MaxConns: 20,
			MinConns: 2,
		},
		Email: EmailConfig{
			SMTPHost: v.GetString("SMTP_HOST"),
			SMTPPort: v.GetInt("SMTP_PORT"),
			User:     v.GetString("EMAIL_USER"),
			Password: v.GetString("EMAIL_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		Calendar: CalendarConfig{
			CredentialsFile: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
			CalendarID:      v.GetString("GOOGLE_CALENDAR_ID"),
		},
		Booking: BookingConfig{
			DefaultTimezone: v.GetString("BOOKING_DEFAULT_TIMEZONE"),
			MaxAdvanceDays:  v.GetInt("BOOKING_MAX_ADVANCE_DAYS"),
		},
		Alerting: AlertingConfig{
			SlackWebhookURL:    v.GetString("ALERT_SLACK_WEBHOOK_URL"),
			DiscordWebhookURL:  v.GetString("ALERT_DISCORD_WEBHOOK_URL"),
			WebhookURLs:        webhookURLs,
			ErrorRateWindow:    v.GetInt("ALERT_ERROR_RATE_WINDOW_SECONDS"),
			HighErrorCount:     v.GetInt("ALERT_HIGH_ERROR_COUNT"),
			CriticalErrorCount: v.GetInt("ALERT_CRITICAL_ERROR_COUNT"),
			MemoryWarnPercent:  v.GetFloat64("ALERT_MEMORY_WARN_PERCENT"),
			MemoryCritPercent:  v.GetFloat64("ALERT_MEMORY_CRIT_PERCENT"),
		},
		EventTriggers: EventTriggerConfig{
			BookingCreatedTriggerURL:   v.GetString("BOOKING_CREATED_TRIGGER_URL"),
			BookingConfirmedTriggerURL: v.GetString("BOOKING_CONFIRMED_TRIGGER_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint:      v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Cache: CacheConfig{
			SlotTTLSeconds: v.GetInt("SLOT_CACHE_TTL"),
		},
		AdminSession: AdminSessionConfig{
			JWTSecret:       v.GetString("JWT_SECRET"),
			JWTIssuer:       v.GetString("JWT_ISSUER"),
			SessionTTLHours: v.GetInt("SESSION_TTL_HOURS"),
			CookieDomain:    v.GetString("COOKIE_DOMAIN"),
			CookieSecure:    v.GetBool("COOKIE_SECURE"),
			AdminEmail:      v.GetString("ADMIN_EMAIL"),
			AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("FRONTEND_URL or ALLOWED_CORS_ORIGINS is required")
	}

	// Email credentials travel together
	if (c.Email.User == "") != (c.Email.Password == "") {
		return fmt.Errorf("EMAIL_USER and EMAIL_PASS must both be set or both be empty")
	}

	if c.Booking.MaxAdvanceDays <= 0 {
		return fmt.Errorf("BOOKING_MAX_ADVANCE_DAYS must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// EmailEnabled reports whether SMTP credentials are configured.
func (c *Config) EmailEnabled() bool {
	return c.Email.User != "" && c.Email.Password != ""
}

// CalendarEnabled reports whether the Google Calendar integration is configured.
func (c *Config) CalendarEnabled() bool {
	return c.Calendar.CredentialsFile != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
