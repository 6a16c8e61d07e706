package providers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driven"
)

// Ensure Exchanger implements the interface.
var _ driven.TokenExchanger = (*Exchanger)(nil)

// exchangeTimeout bounds the provider round-trip. A hung provider must not
// block callers indefinitely; a timeout is treated like a rejection.
const exchangeTimeout = 10 * time.Second

// Exchanger performs OAuth2 refresh-token exchanges against provider token
// endpoints. One attempt per call; retries belong to the caller.
type Exchanger struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewExchanger creates an exchanger with a bounded HTTP client.
func NewExchanger(logger *slog.Logger) *Exchanger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exchanger{
		httpClient: &http.Client{Timeout: exchangeTimeout},
		logger:     logger,
	}
}

// Refresh posts a refresh_token grant to the platform's token endpoint and
// normalizes the response. Every failure mode, transport error, timeout,
// non-2xx status, or unusable body, surfaces as *domain.RefreshExchangeError.
func (e *Exchanger) Refresh(ctx context.Context, cfg domain.ProviderConfig, refreshToken string) (*domain.TokenSet, error) {
	params := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.TokenURL,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, &domain.RefreshExchangeError{
			Platform: cfg.Platform,
			Detail:   "create request: " + err.Error(),
		}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		// Covers timeouts and connection failures alike.
		return nil, &domain.RefreshExchangeError{
			Platform: cfg.Platform,
			Detail:   "request failed: " + err.Error(),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.RefreshExchangeError{
			Platform:   cfg.Platform,
			StatusCode: resp.StatusCode,
			Detail:     "read response: " + err.Error(),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := truncateBody(body)
		if parsed, perr := parseTokenResponse(body); perr == nil {
			if d := parsed.errorDetail(); d != "" {
				detail = d
			}
		}
		e.logger.Warn("token refresh rejected",
			"platform", cfg.Platform,
			"status", resp.StatusCode,
		)
		return nil, &domain.RefreshExchangeError{
			Platform:   cfg.Platform,
			StatusCode: resp.StatusCode,
			Detail:     detail,
		}
	}

	parsed, err := parseTokenResponse(body)
	if err != nil {
		return nil, &domain.RefreshExchangeError{
			Platform:   cfg.Platform,
			StatusCode: resp.StatusCode,
			Detail:     "unparseable success response: " + truncateBody(body),
		}
	}

	if parsed.AccessToken == "" {
		detail := parsed.errorDetail()
		if detail == "" {
			detail = "response missing access_token"
		}
		return nil, &domain.RefreshExchangeError{
			Platform:   cfg.Platform,
			StatusCode: resp.StatusCode,
			Detail:     detail,
		}
	}

	return parsed.toTokenSet(), nil
}
