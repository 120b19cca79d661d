package pipeline

import (
	"context"

	"github.com/Kavirubc/gh-scout/internal/github"
	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
)

// appAuthenticator adapts github.AppAuth to core.Authenticator
type appAuthenticator struct {
	app *github.AppAuth
}

// NewAppAuthenticator wraps the App credentials for use by the pipeline
func NewAppAuthenticator(app *github.AppAuth) core.Authenticator {
	return appAuthenticator{app: app}
}

func (a appAuthenticator) ClientForInstallation(ctx context.Context, installationID int64) (core.GitHubClient, error) {
	client, err := a.app.ClientForInstallation(ctx, installationID)
	if err != nil {
		return nil, err
	}
	return client, nil
}
