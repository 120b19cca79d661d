package github

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/logger"
	"github.com/Kavirubc/gh-scout/pkg/models"
)

const (
	defaultHost    = "github.com"
	defaultTimeout = 30 * time.Second

	acceptJSON = "application/vnd.github+json"
	acceptDiff = "application/vnd.github.v3.diff"
)

// ProfileLimits bounds how much history FetchUserProfile pulls
type ProfileLimits struct {
	MaxEvents    int
	MaxRepos     int
	MaxDiffs     int
	MaxDiffChars int
}

// DefaultProfileLimits mirrors the profile section defaults
var DefaultProfileLimits = ProfileLimits{
	MaxEvents:    30,
	MaxRepos:     10,
	MaxDiffs:     3,
	MaxDiffChars: 4000,
}

// Options configures GitHub API clients
type Options struct {
	Host      string
	Timeout   time.Duration
	Transport http.RoundTripper
	Limits    ProfileLimits
	Logger    *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = defaultHost
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Limits.MaxEvents <= 0 {
		o.Limits.MaxEvents = DefaultProfileLimits.MaxEvents
	}
	if o.Limits.MaxRepos <= 0 {
		o.Limits.MaxRepos = DefaultProfileLimits.MaxRepos
	}
	if o.Limits.MaxDiffs <= 0 {
		o.Limits.MaxDiffs = DefaultProfileLimits.MaxDiffs
	}
	if o.Limits.MaxDiffChars <= 0 {
		o.Limits.MaxDiffChars = DefaultProfileLimits.MaxDiffChars
	}
	o.Logger = logger.OrNop(o.Logger)
	return o
}

func (o Options) clientOptions(token string, headers map[string]string) api.ClientOptions {
	return api.ClientOptions{
		AuthToken: token,
		Host:      o.Host,
		Headers:   headers,
		Timeout:   o.Timeout,
		Transport: o.Transport,
	}
}

// Client wraps GitHub API operations for one installation token
type Client struct {
	rest    *api.RESTClient
	graphql *api.GraphQLClient
	diff    *api.RESTClient
	limits  ProfileLimits
	logger  *zap.Logger
}

// NewClientWithToken creates a client authenticated with an installation token
func NewClientWithToken(token string, opts Options) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	opts = opts.withDefaults()

	rest, err := api.NewRESTClient(opts.clientOptions(token, map[string]string{"Accept": acceptJSON}))
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	graphql, err := api.NewGraphQLClient(opts.clientOptions(token, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}

	diff, err := api.NewRESTClient(opts.clientOptions(token, map[string]string{"Accept": acceptDiff}))
	if err != nil {
		return nil, fmt.Errorf("failed to create diff client: %w", err)
	}

	return &Client{
		rest:    rest,
		graphql: graphql,
		diff:    diff,
		limits:  opts.Limits,
		logger:  opts.Logger,
	}, nil
}

// Issue represents a GitHub issue from the API
type Issue struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	Body    string  `json:"body"`
	HTMLURL string  `json:"html_url"`
	User    User    `json:"user"`
	Labels  []Label `json:"labels"`
}

// User represents a GitHub user
type User struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// Label represents a GitHub label
type Label struct {
	Name string `json:"name"`
}

// ToModel converts API Issue to models.Issue
func (i *Issue) ToModel(org, repo string) *models.Issue {
	labels := make([]string, len(i.Labels))
	for j, l := range i.Labels {
		labels[j] = l.Name
	}

	return &models.Issue{
		Org:    org,
		Repo:   repo,
		Number: i.Number,
		Title:  i.Title,
		Body:   i.Body,
		Labels: labels,
		Author: i.User.Login,
		URL:    i.HTMLURL,
	}
}
