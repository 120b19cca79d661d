package steps

import (
	"fmt"

	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
)

// Authenticator exchanges the App credentials for an installation client
type Authenticator struct {
	auth core.Authenticator
}

// NewAuthenticator creates a new authentication step
func NewAuthenticator(auth core.Authenticator) *Authenticator {
	return &Authenticator{auth: auth}
}

func (s *Authenticator) Name() string {
	return "authenticate"
}

func (s *Authenticator) Run(ctx *core.Context) error {
	client, err := s.auth.ClientForInstallation(ctx.Ctx, ctx.Event.InstallationID())
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrAuthentication, err)
	}

	ctx.GitHub = client
	return nil
}
