package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

func testConfig(tokenURL string) domain.ProviderConfig {
	return domain.ProviderConfig{
		Platform:     domain.PlatformLinkedIn,
		TokenURL:     tokenURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
}

func TestExchanger_Refresh_Success(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Accept = %q", accept)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"grant_type":    r.PostForm.Get("grant_type"),
			"refresh_token": r.PostForm.Get("refresh_token"),
			"client_id":     r.PostForm.Get("client_id"),
			"client_secret": r.PostForm.Get("client_secret"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","expires_in":5184000,"token_type":"Bearer","scope":"w_member_social"}`))
	}))
	defer srv.Close()

	e := NewExchanger(nil)
	tokens, err := e.Refresh(context.Background(), testConfig(srv.URL), "old-refresh")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if gotForm["grant_type"] != "refresh_token" {
		t.Errorf("grant_type = %q", gotForm["grant_type"])
	}
	if gotForm["refresh_token"] != "old-refresh" {
		t.Errorf("refresh_token = %q", gotForm["refresh_token"])
	}
	if gotForm["client_id"] != "client-id" || gotForm["client_secret"] != "client-secret" {
		t.Errorf("client credentials = %q/%q", gotForm["client_id"], gotForm["client_secret"])
	}

	if tokens.AccessToken != "new-access" {
		t.Errorf("AccessToken = %q", tokens.AccessToken)
	}
	if tokens.RefreshToken != "new-refresh" {
		t.Errorf("RefreshToken = %q", tokens.RefreshToken)
	}
	if tokens.ExpiresIn != 5184000 {
		t.Errorf("ExpiresIn = %d", tokens.ExpiresIn)
	}
}

func TestExchanger_Refresh_NoRotatedRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"only-access","expires_in":3600}`))
	}))
	defer srv.Close()

	e := NewExchanger(nil)
	tokens, err := e.Refresh(context.Background(), testConfig(srv.URL), "refresh")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if tokens.RefreshToken != "" {
		t.Errorf("RefreshToken = %q, want empty", tokens.RefreshToken)
	}
}

func TestExchanger_Refresh_StringExpiresIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"meta-access","expires_in":"5184000"}`))
	}))
	defer srv.Close()

	e := NewExchanger(nil)
	tokens, err := e.Refresh(context.Background(), testConfig(srv.URL), "refresh")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if tokens.ExpiresIn != 5184000 {
		t.Errorf("ExpiresIn = %d, want 5184000", tokens.ExpiresIn)
	}
}

func TestExchanger_Refresh_MissingExpiresIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"long-lived"}`))
	}))
	defer srv.Close()

	e := NewExchanger(nil)
	tokens, err := e.Refresh(context.Background(), testConfig(srv.URL), "refresh")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if tokens.ExpiresIn != 0 {
		t.Errorf("ExpiresIn = %d, want 0", tokens.ExpiresIn)
	}
}

func TestExchanger_Refresh_OAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"refresh token revoked"}`))
	}))
	defer srv.Close()

	e := NewExchanger(nil)
	_, err := e.Refresh(context.Background(), testConfig(srv.URL), "revoked")
	if err == nil {
		t.Fatal("expected error")
	}

	var exchErr *domain.RefreshExchangeError
	if !errors.As(err, &exchErr) {
		t.Fatalf("error type = %T, want *domain.RefreshExchangeError", err)
	}
	if exchErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", exchErr.StatusCode)
	}
	if exchErr.Detail != "invalid_grant: refresh token revoked" {
		t.Errorf("Detail = %q", exchErr.Detail)
	}
	if exchErr.Platform != domain.PlatformLinkedIn {
		t.Errorf("Platform = %s", exchErr.Platform)
	}
}

func TestExchanger_Refresh_GraphStyleError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Error validating access token","type":"OAuthException","code":190}}`))
	}))
	defer srv.Close()

	e := NewExchanger(nil)
	_, err := e.Refresh(context.Background(), testConfig(srv.URL), "expired")

	var exchErr *domain.RefreshExchangeError
	if !errors.As(err, &exchErr) {
		t.Fatalf("error type = %T", err)
	}
	if exchErr.Detail != "Error validating access token (code 190)" {
		t.Errorf("Detail = %q", exchErr.Detail)
	}
}

func TestExchanger_Refresh_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream unavailable</html>"))
	}))
	defer srv.Close()

	e := NewExchanger(nil)
	_, err := e.Refresh(context.Background(), testConfig(srv.URL), "refresh")

	var exchErr *domain.RefreshExchangeError
	if !errors.As(err, &exchErr) {
		t.Fatalf("error type = %T", err)
	}
	if exchErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d", exchErr.StatusCode)
	}
	if exchErr.Detail == "" {
		t.Error("expected a non-empty detail")
	}
}

func TestExchanger_Refresh_SuccessWithoutAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	e := NewExchanger(nil)
	_, err := e.Refresh(context.Background(), testConfig(srv.URL), "refresh")

	var exchErr *domain.RefreshExchangeError
	if !errors.As(err, &exchErr) {
		t.Fatalf("error type = %T", err)
	}
	if exchErr.Detail != "response missing access_token" {
		t.Errorf("Detail = %q", exchErr.Detail)
	}
}

func TestExchanger_Refresh_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	e := NewExchanger(nil)
	_, err := e.Refresh(context.Background(), testConfig(srv.URL), "refresh")

	var exchErr *domain.RefreshExchangeError
	if !errors.As(err, &exchErr) {
		t.Fatalf("error type = %T", err)
	}
	if exchErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", exchErr.StatusCode)
	}
}

func TestExchanger_Refresh_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"x"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExchanger(nil)
	_, err := e.Refresh(ctx, testConfig(srv.URL), "refresh")

	var exchErr *domain.RefreshExchangeError
	if !errors.As(err, &exchErr) {
		t.Fatalf("error type = %T, want *domain.RefreshExchangeError", err)
	}
}
