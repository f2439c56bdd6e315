// AngelaMos | 2026
// oauth.go

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/oauth2"

	"github.com/circlepicks/backend/internal/config"
)

type OAuthProvider struct {
	Name        string
	Config      *oauth2.Config
	UserInfoURL string
}

// NewOAuthProviders builds the providers that have a client id configured.
func NewOAuthProviders(cfgs map[string]config.OAuthProviderConfig) map[string]*OAuthProvider {
	providers := make(map[string]*OAuthProvider, len(cfgs))
	for name, c := range cfgs {
		if c.ClientID == "" {
			continue
		}
		providers[name] = &OAuthProvider{
			Name: name,
			Config: &oauth2.Config{
				ClientID:     c.ClientID,
				ClientSecret: c.ClientSecret,
				RedirectURL:  c.RedirectURL,
				Scopes:       c.Scopes,
				Endpoint: oauth2.Endpoint{
					AuthURL:  c.AuthURL,
					TokenURL: c.TokenURL,
				},
			},
			UserInfoURL: c.UserInfoURL,
		}
	}
	return providers
}

func ProviderNames(providers map[string]*OAuthProvider) []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FetchProfile exchanges the authorization code and reads the userinfo
// endpoint with the resulting token.
func (p *OAuthProvider) FetchProfile(
	ctx context.Context,
	code string,
) (*ProviderProfile, error) {
	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	var profile ProviderProfile
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	return &profile, nil
}

// SafeNext keeps post-login redirects on our own site.
func SafeNext(next string) string {
	if next == "" ||
		!strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") ||
		strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
