package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

// tokenResponse is the superset of fields the supported platforms return
// from their token endpoints. Shapes differ per platform: expires_in is a
// number on most, a string on some Meta responses; the error field is a
// plain string on OAuth2-conformant providers but an object on the Graph
// API. Normalization flattens all of that into a domain.TokenSet.
type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	Scope        string      `json:"scope"`
	ExpiresIn    json.Number `json:"expires_in"`

	Error     json.RawMessage `json:"error"`
	ErrorDesc string          `json:"error_description"`
	Message   string          `json:"message"`
}

// graphError is the Facebook/Instagram Graph API error object.
type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// toTokenSet converts a successful response into the normalized form.
// A missing or zero expires_in stays zero; the caller decides the fallback.
func (r *tokenResponse) toTokenSet() *domain.TokenSet {
	expiresIn, _ := r.ExpiresIn.Int64()
	return &domain.TokenSet{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    expiresIn,
		TokenType:    r.TokenType,
		Scope:        r.Scope,
	}
}

// errorDetail extracts a human-readable error out of whichever error shape
// the provider used. Empty when the body carried no recognizable error.
func (r *tokenResponse) errorDetail() string {
	if len(r.Error) > 0 {
		// Graph-style object first, then the OAuth2 string form.
		var ge graphError
		if err := json.Unmarshal(r.Error, &ge); err == nil && ge.Message != "" {
			if ge.Code > 0 {
				return fmt.Sprintf("%s (code %d)", ge.Message, ge.Code)
			}
			return ge.Message
		}

		var code string
		if err := json.Unmarshal(r.Error, &code); err == nil && code != "" {
			if r.ErrorDesc != "" {
				return code + ": " + r.ErrorDesc
			}
			return code
		}
	}

	if r.ErrorDesc != "" {
		return r.ErrorDesc
	}
	return r.Message
}

// parseTokenResponse decodes a token endpoint body, tolerating the
// per-platform shape variance above.
func parseTokenResponse(body []byte) (*tokenResponse, error) {
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &resp, nil
}

// truncateBody bounds a raw response body for inclusion in diagnostics.
func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	const maxLen = 200
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
