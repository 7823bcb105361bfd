package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/khanghh/signup-form/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, config.ListenAddr)
	assert.Equal(t, DefaultCookieName, config.Session.CookieName)
	assert.Equal(t, DefaultSessionMaxAge, config.Session.SessionMaxAge)
	assert.Equal(t, form.DefaultSubmitDelay, config.Form.SubmitDelay)
	assert.Equal(t, DefaultStateTTL, config.Form.StateTTL)
	assert.Empty(t, config.RedisURL)
}

func TestLoadConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	content := `
debug: true
listenAddr: "127.0.0.1:8080"
redisURL: "redis://localhost:6379/1"
session:
  cookieName: sid
  sessionMaxAge: 2h
form:
  submitDelay: 250ms
  retainOnPass: true
`
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o600))

	config, err := LoadConfig(filename)
	require.NoError(t, err)

	assert.True(t, config.Debug)
	assert.Equal(t, "127.0.0.1:8080", config.ListenAddr)
	assert.Equal(t, "redis://localhost:6379/1", config.RedisURL)
	assert.Equal(t, "sid", config.Session.CookieName)
	assert.Equal(t, 2*time.Hour, config.Session.SessionMaxAge)
	assert.Equal(t, 250*time.Millisecond, config.Form.SubmitDelay)
	assert.True(t, config.Form.RetainOnPass)
}

func TestSanitizeRejectsNegativeDurations(t *testing.T) {
	config := Config{Form: FormConfig{SubmitDelay: -time.Second}}
	assert.Error(t, config.Sanitize())
}

func TestLoadConfigEnvWithoutFile(t *testing.T) {
	t.Setenv("SIGNUP_LISTENADDR", "127.0.0.1:9999")
	t.Setenv("SIGNUP_REDISURL", "redis://cache:6379/0")
	t.Setenv("SIGNUP_FORM_SUBMITDELAY", "5s")
	t.Setenv("SIGNUP_SESSION_COOKIENAME", "sid")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", config.ListenAddr)
	assert.Equal(t, "redis://cache:6379/0", config.RedisURL)
	assert.Equal(t, 5*time.Second, config.Form.SubmitDelay)
	assert.Equal(t, "sid", config.Session.CookieName)
	assert.Equal(t, DefaultStateTTL, config.Form.StateTTL)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listenAddr: "127.0.0.1:8080"
form:
  submitDelay: 1s
  stateTTL: 1h
`
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o600))
	t.Setenv("SIGNUP_LISTENADDR", "0.0.0.0:3001")
	t.Setenv("SIGNUP_FORM_SUBMITDELAY", "5s")

	config, err := LoadConfig(filename)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3001", config.ListenAddr)
	assert.Equal(t, 5*time.Second, config.Form.SubmitDelay)
	assert.Equal(t, time.Hour, config.Form.StateTTL)
}
