package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Kavirubc/gh-scout/pkg/models"
)

// Webhook event names and header keys
const (
	EventIssueComment = "issue_comment"
	ActionCreated     = "created"

	HeaderEvent     = "X-GitHub-Event"
	HeaderSignature = "X-Hub-Signature-256"
	HeaderDelivery  = "X-GitHub-Delivery"

	userTypeBot = "Bot"
)

// Ignore reasons returned to the webhook sender
const (
	IgnoredEvent = "Webhook processed"
	IgnoredBot   = "Ignoring bot comment"
)

// ErrIncompleteEvent marks a processable event that lacks required fields
var ErrIncompleteEvent = errors.New("incomplete event data")

// Event represents a GitHub issue_comment webhook event
type Event struct {
	// Type comes from the X-GitHub-Event header, not the payload.
	Type         string             `json:"-"`
	Action       string             `json:"action"`
	Comment      *EventComment      `json:"comment"`
	Issue        *EventIssue        `json:"issue"`
	Repo         *EventRepo         `json:"repository"`
	Installation *EventInstallation `json:"installation"`
	Sender       *EventSender       `json:"sender"`
}

// EventComment represents comment data in an event
type EventComment struct {
	ID      int64        `json:"id"`
	Body    string       `json:"body"`
	HTMLURL string       `json:"html_url"`
	User    *EventSender `json:"user"`
}

// EventIssue represents issue data in an event
type EventIssue struct {
	Number  int          `json:"number"`
	Title   string       `json:"title"`
	Body    string       `json:"body"`
	HTMLURL string       `json:"html_url"`
	User    *EventSender `json:"user"`
	Labels  []Label      `json:"labels"`
}

// EventRepo represents repository data in an event
type EventRepo struct {
	FullName string `json:"full_name"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
	Name string `json:"name"`
}

// EventInstallation identifies the App installation that received the event
type EventInstallation struct {
	ID int64 `json:"id"`
}

// EventSender represents a GitHub account in an event
type EventSender struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// ParseEvent decodes a webhook payload
func ParseEvent(eventType string, data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event JSON: %w", err)
	}
	event.Type = eventType
	return &event, nil
}

// ParseEventFile reads and parses a stored issue_comment payload
func ParseEventFile(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}

	return ParseEvent(EventIssueComment, data)
}

// IgnoreReason returns a non-empty status when the event must not be processed
func (e *Event) IgnoreReason() string {
	if e.Type != EventIssueComment || e.Action != ActionCreated {
		return IgnoredEvent
	}
	if e.Comment != nil && e.Comment.User != nil && e.Comment.User.Type == userTypeBot {
		return IgnoredBot
	}
	return ""
}

// Validate checks that a processable event carries everything the pipeline needs
func (e *Event) Validate() error {
	var missing []string

	if e.Repo == nil || e.Repo.FullName == "" {
		missing = append(missing, "repository")
	}
	if e.Issue == nil || e.Issue.Number == 0 {
		missing = append(missing, "issue")
	}
	if e.Commenter() == "" {
		missing = append(missing, "commenter")
	}
	if e.InstallationID() == 0 {
		missing = append(missing, "installation")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteEvent, strings.Join(missing, ", "))
	}
	return nil
}

// Commenter returns the login of the comment author
func (e *Event) Commenter() string {
	if e.Comment == nil || e.Comment.User == nil {
		return ""
	}
	return e.Comment.User.Login
}

// CommentBody returns the comment text
func (e *Event) CommentBody() string {
	if e.Comment == nil {
		return ""
	}
	return e.Comment.Body
}

// InstallationID returns the App installation ID, or 0 when absent
func (e *Event) InstallationID() int64 {
	if e.Installation == nil {
		return 0
	}
	return e.Installation.ID
}

// RepoParts returns the owner and name of the event repository
func (e *Event) RepoParts() (string, string, error) {
	if e.Repo == nil {
		return "", "", fmt.Errorf("%w: missing repository", ErrIncompleteEvent)
	}
	if e.Repo.Owner.Login != "" && e.Repo.Name != "" {
		return e.Repo.Owner.Login, e.Repo.Name, nil
	}
	return models.SplitRepo(e.Repo.FullName)
}

// IssueNumber returns the issue number, or 0 when absent
func (e *Event) IssueNumber() int {
	if e.Issue == nil {
		return 0
	}
	return e.Issue.Number
}
