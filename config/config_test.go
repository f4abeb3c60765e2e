package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "5001",
			BaseURL:        "https://api.eduforge.io",
			AllowedOrigins: []string{"https://eduforge.io"},
			AppEnv:         "production",
		},
		Database: DatabaseConfig{URL: "postgres://localhost/eduforge"},
		Booking:  BookingConfig{DefaultTimezone: "Asia/Kolkata", MaxAdvanceDays: 30},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = ""
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg = validConfig()
	cfg.Server.Port = ""
	assert.ErrorContains(t, cfg.Validate(), "PORT")

	cfg = validConfig()
	cfg.Server.AllowedOrigins = nil
	assert.ErrorContains(t, cfg.Validate(), "FRONTEND_URL")

	cfg = validConfig()
	cfg.Booking.MaxAdvanceDays = 0
	assert.ErrorContains(t, cfg.Validate(), "BOOKING_MAX_ADVANCE_DAYS")
}

func TestValidate_EmailCredentialsTravelTogether(t *testing.T) {
	cfg := validConfig()
	cfg.Email.User = "bookings@eduforge.io"
	assert.ErrorContains(t, cfg.Validate(), "EMAIL_USER and EMAIL_PASS")

	cfg.Email.Password = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ProfilingNeedsEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Profiling.Enabled = true
	assert.ErrorContains(t, cfg.Validate(), "O11Y_PROFILING_ENDPOINT")

	cfg.Profiling.Endpoint = "http://pyroscope:4040"
	assert.NoError(t, cfg.Validate())
}

func TestEmailAndCalendarToggles(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.EmailEnabled())
	assert.False(t, cfg.CalendarEnabled())

	cfg.Email.User = "bookings@eduforge.io"
	cfg.Email.Password = "secret"
	assert.True(t, cfg.EmailEnabled())

	cfg.Calendar.CredentialsFile = "/etc/eduforge/gcal.json"
	assert.True(t, cfg.CalendarEnabled())
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())

	cfg.Server.AppEnv = "development"
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/eduforge_test")
	t.Setenv("FRONTEND_URL", "https://staging.eduforge.io")
	t.Setenv("ALERT_WEBHOOK_URLS", "https://a.example/hook, https://b.example/hook")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Server.Port)
	assert.Equal(t, "Asia/Kolkata", cfg.Booking.DefaultTimezone)
	assert.Equal(t, 30, cfg.Booking.MaxAdvanceDays)
	assert.Equal(t, 300, cfg.Alerting.ErrorRateWindow)
	assert.Equal(t, 10, cfg.Alerting.HighErrorCount)
	assert.Equal(t, 50, cfg.Alerting.CriticalErrorCount)
	assert.InDelta(t, 80.0, cfg.Alerting.MemoryWarnPercent, 0.01)
	assert.InDelta(t, 90.0, cfg.Alerting.MemoryCritPercent, 0.01)
	assert.Contains(t, cfg.Server.AllowedOrigins, "https://staging.eduforge.io")
	assert.Equal(t, []string{"https://a.example/hook", "https://b.example/hook"}, cfg.Alerting.WebhookURLs)
}
