package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/pkg/models"
)

const userProfileQuery = `query($login: String!, $repos: Int!) {
  user(login: $login) {
    bio
    repositories(first: $repos, ownerAffiliations: OWNER, orderBy: {field: UPDATED_AT, direction: DESC}) {
      nodes {
        primaryLanguage { name }
      }
    }
  }
}`

type userProfileResponse struct {
	User *struct {
		Bio          string `json:"bio"`
		Repositories struct {
			Nodes []struct {
				PrimaryLanguage *struct {
					Name string `json:"name"`
				} `json:"primaryLanguage"`
			} `json:"nodes"`
		} `json:"repositories"`
	} `json:"user"`
}

type publicEvent struct {
	Type string `json:"type"`
	Repo struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload struct {
		PullRequest *struct {
			Title string `json:"title"`
		} `json:"pull_request"`
	} `json:"payload"`
}

type searchResult struct {
	TotalCount int `json:"total_count"`
	Items      []struct {
		Number int `json:"number"`
	} `json:"items"`
}

// FetchUserProfile gathers the commenter's bio, recent public PRs, owned repo
// languages and merged work in org/repo. Failure to look up the user or their
// events is an error; the repo-specific search and diffs degrade to empty.
func (c *Client) FetchUserProfile(ctx context.Context, username, org, repo string) (*models.ProfileData, error) {
	log := c.logger.With(zap.String("user", username), zap.String("repo", org+"/"+repo))

	bio, languages, err := c.userBioAndLanguages(ctx, username)
	if err != nil {
		return nil, err
	}

	recentPRs, err := c.recentPullRequests(ctx, username)
	if err != nil {
		return nil, err
	}

	count, numbers, err := c.mergedPullRequests(ctx, username, org, repo)
	if err != nil {
		log.Warn("merged PR search failed, assuming none", zap.Error(err))
		count, numbers = 0, nil
	}

	diffs := make([]string, 0, len(numbers))
	for _, n := range numbers {
		diff, err := c.pullRequestDiff(ctx, org, repo, n)
		if err != nil {
			log.Warn("failed to fetch PR diff", zap.Int("pr", n), zap.Error(err))
			continue
		}
		diffs = append(diffs, diff)
	}

	log.Debug("fetched user profile",
		zap.Int("repo_contributions", count),
		zap.Int("diffs", len(diffs)),
		zap.Strings("languages", languages))

	return &models.ProfileData{
		Username:              username,
		Bio:                   bio,
		RecentPRs:             recentPRs,
		RepoContributionCount: count,
		RepoLanguages:         languages,
		PRDiffs:               diffs,
	}, nil
}

func (c *Client) userBioAndLanguages(ctx context.Context, username string) (string, []string, error) {
	var resp userProfileResponse
	vars := map[string]interface{}{
		"login": username,
		"repos": c.limits.MaxRepos,
	}
	if err := c.graphql.DoWithContext(ctx, userProfileQuery, vars, &resp); err != nil {
		return "", nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	if resp.User == nil {
		return "", nil, fmt.Errorf("user %s not found", username)
	}

	seen := make(map[string]bool)
	languages := []string{}
	for _, node := range resp.User.Repositories.Nodes {
		if node.PrimaryLanguage == nil || node.PrimaryLanguage.Name == "" {
			continue
		}
		if !seen[node.PrimaryLanguage.Name] {
			seen[node.PrimaryLanguage.Name] = true
			languages = append(languages, node.PrimaryLanguage.Name)
		}
	}

	return resp.User.Bio, languages, nil
}

// recentPullRequests renders PR events from the user's latest public activity,
// one "PR to <repo>: <title>" per line.
func (c *Client) recentPullRequests(ctx context.Context, username string) (string, error) {
	endpoint := fmt.Sprintf("users/%s/events/public?per_page=%d", url.PathEscape(username), c.limits.MaxEvents)

	var events []publicEvent
	if err := c.rest.DoWithContext(ctx, http.MethodGet, endpoint, nil, &events); err != nil {
		return "", fmt.Errorf("failed to list public events: %w", err)
	}

	if len(events) > c.limits.MaxEvents {
		events = events[:c.limits.MaxEvents]
	}

	var lines []string
	for _, e := range events {
		if e.Type != "PullRequestEvent" || e.Payload.PullRequest == nil || e.Payload.PullRequest.Title == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("PR to %s: %s", e.Repo.Name, e.Payload.PullRequest.Title))
	}

	return strings.Join(lines, "\n"), nil
}

// mergedPullRequests returns the user's merged PR count in org/repo and the
// numbers of the most recent ones, up to the diff limit.
func (c *Client) mergedPullRequests(ctx context.Context, username, org, repo string) (int, []int, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("is:pr is:merged author:%s repo:%s/%s", username, org, repo))
	params.Set("per_page", strconv.Itoa(c.limits.MaxDiffs))

	var result searchResult
	if err := c.rest.DoWithContext(ctx, http.MethodGet, "search/issues?"+params.Encode(), nil, &result); err != nil {
		return 0, nil, fmt.Errorf("failed to search merged PRs: %w", err)
	}

	numbers := make([]int, 0, len(result.Items))
	for _, item := range result.Items {
		if len(numbers) == c.limits.MaxDiffs {
			break
		}
		numbers = append(numbers, item.Number)
	}

	return result.TotalCount, numbers, nil
}

func (c *Client) pullRequestDiff(ctx context.Context, org, repo string, number int) (string, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/pulls/%d", org, repo, number)

	resp, err := c.diff.RequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// MaxDiffChars counts characters; a character is at most UTFMax bytes.
	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(c.limits.MaxDiffChars)*utf8.UTFMax))
	if err != nil {
		return "", fmt.Errorf("failed to read diff: %w", err)
	}

	return truncateRunes(string(data), c.limits.MaxDiffChars), nil
}

// truncateRunes keeps at most limit characters of s
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
