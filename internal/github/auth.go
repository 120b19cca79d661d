package github

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/golang-jwt/jwt/v4"
)

// appJWTLifetime is the maximum GitHub accepts for an App assertion
const appJWTLifetime = 10 * time.Minute

// AppAuth mints GitHub App assertions and exchanges them for installation tokens
type AppAuth struct {
	appID int64
	key   *rsa.PrivateKey
	opts  Options
	now   func() time.Time
}

// NewAppAuth parses the App's PEM-encoded RSA private key
func NewAppAuth(appID int64, privateKeyPEM []byte, opts Options) (*AppAuth, error) {
	if appID <= 0 {
		return nil, fmt.Errorf("GitHub App ID is required")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GitHub App private key: %w", err)
	}

	return &AppAuth{
		appID: appID,
		key:   key,
		opts:  opts.withDefaults(),
		now:   time.Now,
	}, nil
}

// JWT returns an RS256 assertion valid for ten minutes
func (a *AppAuth) JWT() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
		Issuer:    strconv.FormatInt(a.appID, 10),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign app JWT: %w", err)
	}
	return signed, nil
}

type installationToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InstallationToken exchanges a fresh assertion for an installation access token
func (a *AppAuth) InstallationToken(ctx context.Context, installationID int64) (string, error) {
	assertion, err := a.JWT()
	if err != nil {
		return "", err
	}

	// An explicit Authorization header takes precedence over go-gh's token scheme.
	rest, err := api.NewRESTClient(a.opts.clientOptions(assertion, map[string]string{
		"Authorization": "Bearer " + assertion,
		"Accept":        acceptJSON,
	}))
	if err != nil {
		return "", fmt.Errorf("failed to create app client: %w", err)
	}

	endpoint := fmt.Sprintf("app/installations/%d/access_tokens", installationID)

	var tok installationToken
	if err := rest.DoWithContext(ctx, http.MethodPost, endpoint, nil, &tok); err != nil {
		return "", fmt.Errorf("failed to get installation token: %w", err)
	}
	if tok.Token == "" {
		return "", fmt.Errorf("installation token response for %d was empty", installationID)
	}

	return tok.Token, nil
}

// ClientForInstallation returns a Client authenticated as the installation
func (a *AppAuth) ClientForInstallation(ctx context.Context, installationID int64) (*Client, error) {
	token, err := a.InstallationToken(ctx, installationID)
	if err != nil {
		return nil, err
	}
	return NewClientWithToken(token, a.opts)
}
