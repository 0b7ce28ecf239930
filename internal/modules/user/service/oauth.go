package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	ProviderGoogle = "google"
	ProviderGithub = "github"
)

// OAuthCredentials are the client settings of one identity provider.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type oauthUser struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

type oauthProvider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
	emailsURL   string
}

func newProviders(googleCreds, githubCreds OAuthCredentials) map[string]*oauthProvider {
	return map[string]*oauthProvider{
		ProviderGoogle: {
			name: ProviderGoogle,
			config: &oauth2.Config{
				ClientID:     googleCreds.ClientID,
				ClientSecret: googleCreds.ClientSecret,
				RedirectURL:  googleCreds.RedirectURL,
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
				Endpoint: google.Endpoint,
			},
			userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		ProviderGithub: {
			name: ProviderGithub,
			config: &oauth2.Config{
				ClientID:     githubCreds.ClientID,
				ClientSecret: githubCreds.ClientSecret,
				RedirectURL:  githubCreds.RedirectURL,
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
			userInfoURL: "https://api.github.com/user",
			emailsURL:   "https://api.github.com/user/emails",
		},
	}
}

func (p *oauthProvider) configured() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

func (p *oauthProvider) fetchUser(ctx context.Context, client *http.Client) (*oauthUser, error) {
	switch p.name {
	case ProviderGoogle:
		return p.fetchGoogleUser(ctx, client)
	case ProviderGithub:
		return p.fetchGithubUser(ctx, client)
	default:
		return nil, fmt.Errorf("unknown provider %q", p.name)
	}
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (p *oauthProvider) fetchGoogleUser(ctx context.Context, client *http.Client) (*oauthUser, error) {
	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := getJSON(ctx, client, p.userInfoURL, &googleUser); err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	return &oauthUser{
		ID:            googleUser.ID,
		Email:         googleUser.Email,
		EmailVerified: googleUser.VerifiedEmail,
		Name:          googleUser.Name,
		AvatarURL:     googleUser.Picture,
	}, nil
}

func (p *oauthProvider) fetchGithubUser(ctx context.Context, client *http.Client) (*oauthUser, error) {
	var githubUser struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, p.userInfoURL, &githubUser); err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	user := &oauthUser{
		ID:        strconv.FormatInt(githubUser.ID, 10),
		Email:     githubUser.Email,
		Name:      githubUser.Name,
		AvatarURL: githubUser.AvatarURL,
	}
	if user.Name == "" {
		user.Name = githubUser.Login
	}
	// GitHub only lets verified addresses be public.
	user.EmailVerified = user.Email != ""

	// Private emails are only listed by the emails endpoint.
	if user.Email == "" && p.emailsURL != "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, p.emailsURL, &emails); err != nil {
			return nil, fmt.Errorf("failed to get user emails: %w", err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				user.Email = e.Email
				user.EmailVerified = true
				break
			}
		}
	}

	return user, nil
}
