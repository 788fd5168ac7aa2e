// Package platform talks to the chat platform that hosts the mini-app:
// resolving access tokens to user identities and receiving its webhooks.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "studentwallet/internal/errors"
)

// DefaultDisplayName is shown when the platform returns no usable name.
const DefaultDisplayName = "Sinh viên"

// Identity is the platform user behind an access token.
type Identity struct {
	ID     string
	Name   string
	Email  string
	Avatar string
}

// Provider resolves a platform access token to an Identity.
type Provider interface {
	Resolve(ctx context.Context, accessToken string) (*Identity, error)
}

// ZaloProvider resolves identities against the Zalo Graph API.
type ZaloProvider struct {
	httpClient *http.Client
	baseURL    string
}

// NewZaloProvider creates a provider for the given graph base URL.
func NewZaloProvider(baseURL string, timeout time.Duration) *ZaloProvider {
	return &ZaloProvider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type zaloProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	UserAlias   string `json:"user_alias"`
	Error       int    `json:"error"`
	Message     string `json:"message"`
}

// Resolve fetches the profile for accessToken.
func (p *ZaloProvider) Resolve(ctx context.Context, accessToken string) (*Identity, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, apperrors.ErrInvalidIdentity
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/me?fields=id,name", nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPlatformUnavailable, err)
	}
	req.Header.Set("access_token", accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPlatformUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.ErrInvalidIdentity
	case resp.StatusCode >= 500:
		return nil, apperrors.Wrap(apperrors.ErrPlatformUnavailable,
			fmt.Errorf("graph API returned status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.Wrap(apperrors.ErrInvalidIdentity,
			fmt.Errorf("graph API returned status %d", resp.StatusCode))
	}

	var profile zaloProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPlatformUnavailable, fmt.Errorf("decode profile: %w", err))
	}
	// the graph API reports token problems in the body with a 200 status
	if profile.Error != 0 || profile.ID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidIdentity,
			fmt.Errorf("graph API error %d: %s", profile.Error, profile.Message))
	}

	// the platform picture is not used; users get a generated avatar
	return &Identity{
		ID:    profile.ID,
		Name:  DisplayName(profile.DisplayName, profile.Name, profile.UserAlias),
		Email: DefaultEmail(profile.ID),
	}, nil
}

// DisplayName returns the first non-blank candidate, or DefaultDisplayName.
func DisplayName(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return DefaultDisplayName
}

// DefaultEmail is the placeholder address given to platform users, who
// never share a real one with the mini-app.
func DefaultEmail(userID string) string {
	return userID + "@zalo.vn"
}

// DevProvider accepts any token and returns a fixed identity. It backs
// development mode where no platform is reachable.
type DevProvider struct {
	identity Identity
}

// NewDevProvider creates a provider that always resolves to the given user.
func NewDevProvider(id, name, email string) *DevProvider {
	return &DevProvider{identity: Identity{ID: id, Name: name, Email: email}}
}

// Resolve returns a copy of the fixed identity.
func (p *DevProvider) Resolve(_ context.Context, _ string) (*Identity, error) {
	identity := p.identity
	return &identity, nil
}
