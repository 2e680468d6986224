// Package google exchanges Google OAuth authorization codes for the signed-in
// person's identity.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"callrec-dashboard/internal/users"
)

var (
	authURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenURL    = "https://oauth2.googleapis.com/token"
	userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	ErrInvalidCode   = errors.New("oauth: invalid or expired code")
	ErrUnavailable   = errors.New("oauth: google unavailable")
	ErrUnverified    = errors.New("oauth: email not verified")
	ErrBadUserinfo   = errors.New("oauth: invalid userinfo response")
	errBadTokenReply = errors.New("oauth: invalid token response")
)

const retryBackoff = 500 * time.Millisecond

// Verifier talks to Google's token and userinfo endpoints.
type Verifier struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
	log          *slog.Logger
}

func NewVerifier(clientID, clientSecret, redirectURI string, log *slog.Logger) *Verifier {
	if log == nil {
		log = slog.Default()
	}
	return &Verifier{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		log:          log.With("adapter", "google_oauth"),
	}
}

// AuthCodeURL is where the browser is sent to start sign-in.
func (v *Verifier) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", v.clientID)
	q.Set("redirect_uri", v.redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	q.Set("prompt", "select_account")
	return authURL + "?" + q.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type userinfoResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Exchange turns an authorization code into a verified identity.
func (v *Verifier) Exchange(ctx context.Context, code string) (users.Identity, error) {
	if strings.TrimSpace(code) == "" {
		return users.Identity{}, ErrInvalidCode
	}
	accessToken, err := v.exchangeCode(ctx, code)
	if err != nil {
		return users.Identity{}, err
	}
	info, err := v.fetchUserinfo(ctx, accessToken)
	if err != nil {
		return users.Identity{}, err
	}
	if !info.VerifiedEmail {
		return users.Identity{}, ErrUnverified
	}
	v.log.DebugContext(ctx, "google oauth success", slog.String("email", info.Email))
	return users.Identity{
		Subject: info.ID,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

func (v *Verifier) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", v.clientID)
	form.Set("client_secret", v.clientSecret)
	form.Set("redirect_uri", v.redirectURI)
	encoded := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(encoded)), nil
	}

	resp, err := v.doWithRetry(ctx, req)
	if err != nil {
		v.log.ErrorContext(ctx, "google token exchange failed", slog.String("error", err.Error()))
		return "", ErrUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errBadTokenReply
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		_ = json.Unmarshal(body, &e)
		v.log.ErrorContext(ctx, "google token exchange failed",
			slog.Int("status", resp.StatusCode), slog.String("error", e.Error))
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return "", ErrInvalidCode
		}
		return "", ErrUnavailable
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.AccessToken == "" {
		return "", errBadTokenReply
	}
	return tr.AccessToken, nil
}

func (v *Verifier) fetchUserinfo(ctx context.Context, accessToken string) (userinfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return userinfoResponse{}, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.doWithRetry(ctx, req)
	if err != nil {
		v.log.ErrorContext(ctx, "google userinfo failed", slog.String("error", err.Error()))
		return userinfoResponse{}, ErrUnavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		v.log.ErrorContext(ctx, "google userinfo failed", slog.Int("status", resp.StatusCode))
		return userinfoResponse{}, ErrUnavailable
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return userinfoResponse{}, ErrBadUserinfo
	}
	if info.ID == "" || info.Email == "" {
		return userinfoResponse{}, ErrBadUserinfo
	}
	return info, nil
}

// doWithRetry retries once, after a short pause, on transport errors and 5xx.
func (v *Verifier) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := v.httpClient.Do(req)
	if err == nil && resp.StatusCode < 500 {
		return resp, nil
	}
	if resp != nil {
		resp.Body.Close()
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	return v.httpClient.Do(retry)
}
