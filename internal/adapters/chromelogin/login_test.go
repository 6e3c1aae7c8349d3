package chromelogin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func TestNew(t *testing.T) {
	source, err := New(Config{
		UserID:   "AB1234",
		Password: "secret",
		PIN:      "000000",
		Headless: true,
		Logger:   &mockLogger{},
	})

	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, source.stepTimeout, "default bounded wait")
}

func TestNew_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no logger", cfg: Config{UserID: "AB1234", Password: "secret", PIN: "000000"}},
		{name: "no user id", cfg: Config{Password: "secret", PIN: "000000", Logger: &mockLogger{}}},
		{name: "no password", cfg: Config{UserID: "AB1234", PIN: "000000", Logger: &mockLogger{}}},
		{name: "no pin", cfg: Config{UserID: "AB1234", Password: "secret", Logger: &mockLogger{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
		})
	}
}

func TestRequestTokenFromURL(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantToken string
		wantOK    bool
	}{
		{
			name:      "redirect with token",
			raw:       "https://example.com/callback?action=login&status=success&request_token=abc123",
			wantToken: "abc123",
			wantOK:    true,
		},
		{
			name:   "login page without token",
			raw:    "https://broker.test/connect/login?v=3&api_key=xyz",
			wantOK: false,
		},
		{
			name:   "empty token parameter",
			raw:    "https://example.com/callback?request_token=",
			wantOK: false,
		},
		{
			name:   "unparseable url",
			raw:    "://not a url",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := requestTokenFromURL(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
