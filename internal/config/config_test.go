package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("EMAIL_ENABLED", "")
	t.Setenv("EMAIL_FROM", "")
	t.Setenv("NOTIFY_EMAIL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, "sqlite:///./j2systems.db", cfg.Database.URL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Email.Enabled)
	assert.Equal(t, "smtp.gmail.com", cfg.Email.SMTPHost)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestLoadEmailFallbacks(t *testing.T) {
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("GMAIL_USER", "ops@j2systems.ec")
	t.Setenv("GMAIL_PASS", "app-password")
	t.Setenv("EMAIL_FROM", "ops@j2systems.ec")
	t.Setenv("NOTIFY_EMAIL", "")
	t.Setenv("CORS_ORIGINS", "https://j2systems.ec, https://www.j2systems.ec,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ops@j2systems.ec", cfg.Email.Username)
	assert.Equal(t, "app-password", cfg.Email.Password)
	assert.Equal(t, "ops@j2systems.ec", cfg.Email.NotifyTo, "operator address defaults to the sender")
	assert.Equal(t, []string{"https://j2systems.ec", "https://www.j2systems.ec"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsEnabledEmailWithoutCredentials(t *testing.T) {
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("GMAIL_USER", "")
	t.Setenv("GMAIL_PASS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonNumericPort(t *testing.T) {
	t.Setenv("EMAIL_ENABLED", "false")
	t.Setenv("PORT", "http")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "full url",
			cfg:  DatabaseConfig{URL: "postgresql://j2:s3cr:et@db.internal:6543/contacts?sslmode=require"},
			want: "host=db.internal port=6543 user=j2 dbname=contacts sslmode=require password=s3cr:et",
		},
		{
			name: "no database in url",
			cfg:  DatabaseConfig{URL: "postgres://j2@localhost"},
			want: "host=localhost port=5432 user=j2 dbname=postgres sslmode=disable",
		},
		{
			name: "db name override",
			cfg:  DatabaseConfig{URL: "postgres://j2:pw@localhost:5432/ignored", Name: "landing"},
			want: "host=localhost port=5432 user=j2 dbname=landing sslmode=disable password=pw",
		},
		{
			name: "already a dsn",
			cfg:  DatabaseConfig{URL: "host=localhost user=j2 dbname=contacts"},
			want: "host=localhost user=j2 dbname=contacts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.cfg.IsPostgres())
			assert.Equal(t, tt.want, tt.cfg.GetPostgresDSN())
		})
	}
}

func TestGetSQLitePath(t *testing.T) {
	assert.Equal(t, "./j2systems.db", (&DatabaseConfig{URL: "sqlite:///./j2systems.db"}).GetSQLitePath())
	assert.Equal(t, ":memory:", (&DatabaseConfig{URL: "sqlite:///:memory:"}).GetSQLitePath())
	assert.False(t, (&DatabaseConfig{URL: "sqlite:///:memory:"}).IsPostgres())
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("PORT", "8000")
	t.Setenv("EMAIL_ENABLED", "sometimes")
	t.Setenv("SMTP_PORT", "five-eight-seven")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMAIL_ENABLED must be a boolean")
	assert.Contains(t, err.Error(), "SMTP_PORT must be an integer")
}

func TestEnvReaderFirstSetKeyWins(t *testing.T) {
	vars := map[string]string{"GMAIL_USER": "fallback@j2systems.ec", "SMTP_USERNAME": ""}
	env := &envReader{lookup: func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok && v != ""
	}}

	assert.Equal(t, "fallback@j2systems.ec", env.String("", "SMTP_USERNAME", "GMAIL_USER"))
	assert.Equal(t, "def", env.String("def", "MISSING"))
	assert.Equal(t, []string{"a"}, env.List([]string{"a"}, "MISSING"))
	assert.NoError(t, env.Err())
}
