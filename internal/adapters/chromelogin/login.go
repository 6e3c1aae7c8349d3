package chromelogin

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"kitecover/internal/ports"

	"github.com/chromedp/chromedp"
)

const (
	loginFormSel  = `form.login-form`
	userIDSel     = `form.login-form input#userid`
	passwordSel   = `form.login-form input#password`
	twofaFormSel  = `form.twofa-form`
	twofaInputSel = `form.twofa-form input`
	submitSel     = `button[type="submit"]`

	redirectPollInterval = 500 * time.Millisecond
)

// Source implements ports.TokenSource by scripting the broker's login pages
// in a headless browser. The page structure is a fragile external dependency;
// every selector this adapter knows about is listed above.
type Source struct {
	userID      string
	password    string
	pin         string
	stepTimeout time.Duration
	headless    bool
	logger      ports.Logger
}

// Config holds configuration for the browser login adapter.
type Config struct {
	UserID      string
	Password    string
	PIN         string
	StepTimeout time.Duration // bounded wait per page step
	Headless    bool
	Logger      ports.Logger
}

// New creates a browser-based token source.
func New(cfg Config) (*Source, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for browser login")
	}
	if cfg.UserID == "" || cfg.Password == "" || cfg.PIN == "" {
		return nil, fmt.Errorf("%w: user id, password and PIN are required", ports.ErrConfigurationError)
	}
	stepTimeout := cfg.StepTimeout
	if stepTimeout <= 0 {
		stepTimeout = 45 * time.Second
	}
	return &Source{
		userID:      cfg.UserID,
		password:    cfg.Password,
		pin:         cfg.PIN,
		stepTimeout: stepTimeout,
		headless:    cfg.Headless,
		logger:      cfg.Logger,
	}, nil
}

// RequestToken opens the login URL, submits credentials and the PIN, waits
// for the redirect and returns the request_token from its query string.
// Any step that cannot locate its page element within the bounded wait fails
// fatally; there is no retry.
func (s *Source) RequestToken(ctx context.Context, loginURL string) (string, error) {
	op := "RequestToken"

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.headless),
		chromedp.DisableGPU,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	s.logger.Info(ctx, op+": opening broker login page", map[string]interface{}{"headless": s.headless})

	if err := s.runStep(browserCtx, "open login form",
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(loginFormSel),
		chromedp.SendKeys(userIDSel, s.userID),
		chromedp.SendKeys(passwordSel, s.password),
		chromedp.Click(submitSel),
	); err != nil {
		return "", err
	}

	if err := s.runStep(browserCtx, "submit PIN",
		chromedp.WaitVisible(twofaFormSel),
		chromedp.SendKeys(twofaInputSel, s.pin),
		chromedp.Click(submitSel),
	); err != nil {
		return "", err
	}

	token, err := s.waitForRequestToken(browserCtx)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, op+": request token obtained")
	return token, nil
}

// runStep runs a sequence of browser actions under the per-step bounded wait.
func (s *Source) runStep(ctx context.Context, name string, actions ...chromedp.Action) error {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	if err := chromedp.Run(stepCtx, actions...); err != nil {
		s.logger.Error(ctx, err, "login step failed", map[string]interface{}{"step": name})
		return fmt.Errorf("login step %q: %w: %w", name, ports.ErrAuthFlowFailed, err)
	}
	return nil
}

// waitForRequestToken polls the current page URL until the broker redirect
// carrying the request token shows up, or the bounded wait elapses.
func (s *Source) waitForRequestToken(ctx context.Context) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	ticker := time.NewTicker(redirectPollInterval)
	defer ticker.Stop()

	for {
		var current string
		if err := chromedp.Run(waitCtx, chromedp.Location(&current)); err != nil {
			return "", fmt.Errorf("waiting for redirect: %w: %w", ports.ErrAuthFlowFailed, err)
		}
		if token, ok := requestTokenFromURL(current); ok {
			return token, nil
		}

		select {
		case <-waitCtx.Done():
			return "", fmt.Errorf("redirect with request token never arrived: %w: %w", ports.ErrAuthFlowFailed, waitCtx.Err())
		case <-ticker.C:
		}
	}
}

// requestTokenFromURL extracts the request_token query parameter from a
// redirect URL, if present.
func requestTokenFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	token := u.Query().Get("request_token")
	return token, token != ""
}
