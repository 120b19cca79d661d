package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/pkg/models"
)

// ReadmeNotFound is the README text used when a repository has none
const ReadmeNotFound = "README not found."

// GetIssue fetches a single issue
func (c *Client) GetIssue(ctx context.Context, org, repo string, number int) (*models.Issue, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d", org, repo, number)

	var ai Issue
	if err := c.rest.DoWithContext(ctx, http.MethodGet, endpoint, nil, &ai); err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	return ai.ToModel(org, repo), nil
}

type apiRepository struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Owner    User   `json:"owner"`
}

type apiContent struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetRepository fetches the repository language and decoded README. A missing
// or unreadable README is not an error.
func (c *Client) GetRepository(ctx context.Context, org, repo string) (*models.Repository, error) {
	var ar apiRepository
	if err := c.rest.DoWithContext(ctx, http.MethodGet, fmt.Sprintf("repos/%s/%s", org, repo), nil, &ar); err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}

	readme, err := c.getReadme(ctx, org, repo)
	if err != nil {
		c.logger.Debug("readme unavailable", zap.String("repo", org+"/"+repo), zap.Error(err))
		readme = ReadmeNotFound
	}

	return &models.Repository{
		Org:      org,
		Name:     repo,
		Language: ar.Language,
		Readme:   readme,
	}, nil
}

func (c *Client) getReadme(ctx context.Context, org, repo string) (string, error) {
	var content apiContent
	if err := c.rest.DoWithContext(ctx, http.MethodGet, fmt.Sprintf("repos/%s/%s/readme", org, repo), nil, &content); err != nil {
		return "", err
	}

	if content.Encoding != "base64" {
		return content.Content, nil
	}

	// GitHub wraps base64 content at 60 columns.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode readme: %w", err)
	}
	return string(decoded), nil
}
