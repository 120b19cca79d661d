package models

import (
	"fmt"
	"strings"
)

// Issue represents a GitHub issue with the metadata needed for analysis
type Issue struct {
	Org    string   `json:"org"`
	Repo   string   `json:"repo"`
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
	Author string   `json:"author,omitempty"`
	URL    string   `json:"url,omitempty"`
}

// FullRepo returns the full repository name (org/repo)
func (i *Issue) FullRepo() string {
	return fmt.Sprintf("%s/%s", i.Org, i.Repo)
}

// Repository holds the repository context handed to the tech-stack classifier
type Repository struct {
	Org      string `json:"org"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Readme   string `json:"readme"`
}

// FullName returns org/name
func (r *Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Org, r.Name)
}

// SplitRepo splits "owner/repo" into owner and repo
func SplitRepo(fullRepo string) (string, string, error) {
	parts := strings.Split(fullRepo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format: %s (expected owner/repo)", fullRepo)
	}
	return parts[0], parts[1], nil
}
