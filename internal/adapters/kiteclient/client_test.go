package kiteclient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"kitecover/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Config{APIKey: "test-key", APISecret: "test-secret", Logger: &mockLogger{}})
	require.NoError(t, err)
	return client
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{APIKey: "k", APISecret: "s"})
	require.Error(t, err, "logger is required")

	_, err = New(Config{APIKey: "k", Logger: &mockLogger{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
}

func TestHandleError_Nil(t *testing.T) {
	client := newTestClient(t)
	assert.NoError(t, client.handleError(context.Background(), nil, "Test"))
}

func TestHandleError_APIErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		errorType string
		httpCode  int
		want      error
	}{
		{name: "token error", errorType: kiteconnect.TokenError, httpCode: 403, want: ports.ErrTokenInvalid},
		{name: "user error", errorType: kiteconnect.UserError, httpCode: 403, want: ports.ErrTokenInvalid},
		{name: "twofa error", errorType: kiteconnect.TwoFAError, httpCode: 403, want: ports.ErrTokenInvalid},
		{name: "permission error", errorType: kiteconnect.PermissionError, httpCode: 403, want: ports.ErrPermissionDenied},
		{name: "order error", errorType: kiteconnect.OrderError, httpCode: 400, want: ports.ErrOrderPlacementFailed},
		{name: "input error", errorType: kiteconnect.InputError, httpCode: 400, want: ports.ErrInvalidRequest},
		{name: "network error", errorType: kiteconnect.NetworkError, httpCode: 502, want: ports.ErrConnectionFailed},
		{name: "data error", errorType: kiteconnect.DataError, httpCode: 502, want: ports.ErrUnknown},
		{name: "rate limited", errorType: kiteconnect.GeneralError, httpCode: 429, want: ports.ErrRateLimited},
	}
	client := newTestClient(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := kiteconnect.Error{Code: tt.httpCode, ErrorType: tt.errorType, Message: "broker says no"}
			got := client.handleError(context.Background(), apiErr, "Test")
			require.Error(t, got)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestHandleError_NonAPIErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: ports.ErrTimeout},
		{name: "canceled", err: context.Canceled, want: ports.ErrContextCanceled},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: ports.ErrConnectionFailed},
		{name: "connection reset", err: errors.New("read: connection reset by peer"), want: ports.ErrConnectionFailed},
		{name: "dns failure", err: errors.New("lookup api.kite.trade: no such host"), want: ports.ErrConnectionFailed},
		{name: "anything else", err: errors.New("boom"), want: ports.ErrUnknown},
	}
	client := newTestClient(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.handleError(context.Background(), tt.err, "Test")
			require.Error(t, got)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestHandleError_WrappedAPIError(t *testing.T) {
	client := newTestClient(t)
	wrapped := fmt.Errorf("outer: %w", kiteconnect.Error{Code: 403, ErrorType: kiteconnect.TokenError, Message: "expired"})

	got := client.handleError(context.Background(), wrapped, "Test")

	require.Error(t, got)
	assert.ErrorIs(t, got, ports.ErrTokenInvalid)
}

func TestProfile_CanceledContext(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Profile(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrContextCanceled)
}

func TestTranslateMargins(t *testing.T) {
	got := translateMargins(kiteconnect.AllMargins{
		Equity: kiteconnect.Margins{
			Enabled:   true,
			Net:       1250.5,
			Available: kiteconnect.AvailableMargins{Cash: 1500},
			Used:      kiteconnect.UsedMargins{Debits: 249.5},
		},
	})

	assert.True(t, got.Enabled)
	assert.Equal(t, 1250.5, got.Net)
	assert.Equal(t, 1500.0, got.AvailableCash)
	assert.Equal(t, 249.5, got.UtilisedDebit)
}

func TestInstrumentKeys(t *testing.T) {
	assert.Equal(t, "NSE:TCS", instrument("NSE", "TCS"))
	assert.Equal(t, "TCS", symbolOf("NSE:TCS"))
	assert.Equal(t, "TCS", symbolOf("TCS"), "bare symbol passes through")
}
