package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ORDER_CANCELLABLE_STATUSES", "")
	t.Setenv("VERIFY_TOKEN_TTL", "")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.VerifyTokenTTL)
	assert.Equal(t, []string{"Submitted", "InProgress"}, cfg.CancellableStatuses())
	assert.True(t, cfg.LoginRequireVerified)
	assert.Equal(t, "inline", cfg.AuditTransport)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ORDER_CANCELLABLE_STATUSES", " Submitted , ,Completed")
	t.Setenv("VERIFY_TOKEN_TTL", "2h")
	t.Setenv("LOGIN_REQUIRE_VERIFIED", "not-a-bool")
	t.Setenv("AUDIT_BUFFER_SIZE", "x")

	cfg := Load()
	assert.Equal(t, []string{"Submitted", "Completed"}, cfg.CancellableStatuses())
	assert.Equal(t, 2*time.Hour, cfg.VerifyTokenTTL)
	assert.True(t, cfg.LoginRequireVerified, "invalid bool falls back to default")
	assert.Equal(t, 256, cfg.AuditBufferSize)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
