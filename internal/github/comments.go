package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// PostComment adds a comment to an issue
func (c *Client) PostComment(ctx context.Context, org, repo string, number int, body string) error {
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d/comments", org, repo, number)

	payload := map[string]string{"body": body}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := c.rest.DoWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody), nil); err != nil {
		return fmt.Errorf("failed to post comment: %w", err)
	}

	return nil
}
