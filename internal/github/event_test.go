package github

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const commentPayload = `{
  "action": "created",
  "comment": {"id": 11, "body": "I'd like to fix this by debouncing the handler.", "user": {"login": "alice", "type": "User"}},
  "issue": {"number": 7, "title": "Login button broken", "labels": [{"name": "frontend"}]},
  "repository": {"full_name": "octo/hello", "name": "hello", "owner": {"login": "octo"}},
  "installation": {"id": 99},
  "sender": {"login": "alice", "type": "User"}
}`

func TestParseEvent(t *testing.T) {
	e, err := ParseEvent(EventIssueComment, []byte(commentPayload))
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}

	if e.Commenter() != "alice" {
		t.Errorf("Commenter() = %q, want alice", e.Commenter())
	}
	if e.InstallationID() != 99 {
		t.Errorf("InstallationID() = %d, want 99", e.InstallationID())
	}
	if e.IssueNumber() != 7 {
		t.Errorf("IssueNumber() = %d, want 7", e.IssueNumber())
	}
	org, repo, err := e.RepoParts()
	if err != nil || org != "octo" || repo != "hello" {
		t.Errorf("RepoParts() = %q, %q, %v", org, repo, err)
	}
	if e.IgnoreReason() != "" {
		t.Errorf("IgnoreReason() = %q, want empty", e.IgnoreReason())
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParseEvent_InvalidJSON(t *testing.T) {
	if _, err := ParseEvent(EventIssueComment, []byte("{")); err == nil {
		t.Error("ParseEvent() should fail on invalid JSON")
	}
}

func TestIgnoreReason(t *testing.T) {
	bot := &EventSender{Login: "dependabot[bot]", Type: "Bot"}
	human := &EventSender{Login: "alice", Type: "User"}

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"created comment", Event{Type: EventIssueComment, Action: ActionCreated, Comment: &EventComment{User: human}}, ""},
		{"edited comment", Event{Type: EventIssueComment, Action: "edited", Comment: &EventComment{User: human}}, IgnoredEvent},
		{"issues event", Event{Type: "issues", Action: ActionCreated}, IgnoredEvent},
		{"bot comment", Event{Type: EventIssueComment, Action: ActionCreated, Comment: &EventComment{User: bot}}, IgnoredBot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.IgnoreReason(); got != tt.want {
				t.Errorf("IgnoreReason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate_Incomplete(t *testing.T) {
	e, err := ParseEvent(EventIssueComment, []byte(`{"action": "created", "comment": {"body": "hi", "user": {"login": "alice"}}}`))
	if err != nil {
		t.Fatal(err)
	}

	err = e.Validate()
	if !errors.Is(err, ErrIncompleteEvent) {
		t.Fatalf("Validate() = %v, want ErrIncompleteEvent", err)
	}
	if want := "incomplete event data: missing repository, issue, installation"; err.Error() != want {
		t.Errorf("Validate() = %q, want %q", err.Error(), want)
	}
}

func TestRepoParts_FullNameFallback(t *testing.T) {
	e := &Event{Repo: &EventRepo{FullName: "octo/hello"}}

	org, repo, err := e.RepoParts()
	if err != nil || org != "octo" || repo != "hello" {
		t.Errorf("RepoParts() = %q, %q, %v", org, repo, err)
	}
}

func TestParseEventFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(commentPayload), 0644); err != nil {
		t.Fatal(err)
	}

	e, err := ParseEventFile(path)
	if err != nil {
		t.Fatalf("ParseEventFile() error = %v", err)
	}
	if e.Type != EventIssueComment {
		t.Errorf("Type = %q, want %q", e.Type, EventIssueComment)
	}
	if e.CommentBody() == "" {
		t.Error("CommentBody() is empty")
	}
}
