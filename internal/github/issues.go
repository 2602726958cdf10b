package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/triagelab/ai-triage/internal/issuefile"
	"github.com/triagelab/ai-triage/pkg/models"
)

// Issue is the GitHub API representation of an issue.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"`
	HTMLURL   string    `json:"html_url"`
	Labels    []Label   `json:"labels"`
	CreatedAt time.Time `json:"created_at"`

	// Present only when the record is a pull request surfaced through
	// the issues endpoint.
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request,omitempty"`
}

// Label represents a GitHub label
type Label struct {
	Name string `json:"name"`
}

func (i *Issue) isPullRequest() bool {
	return i.PullRequest != nil
}

// ToReference converts an API issue into the reference shape the rest of
// the system consumes, applying the same defaults as the file loader so
// fetched and loaded corpora behave identically.
func (i *Issue) ToReference() *models.IssueReference {
	labels := make([]string, len(i.Labels))
	for j, l := range i.Labels {
		labels[j] = l.Name
	}

	description := i.Body
	if description == "" {
		description = issuefile.DefaultDescription
	}

	created := ""
	if !i.CreatedAt.IsZero() {
		created = i.CreatedAt.Format(time.RFC3339)
	}

	return &models.IssueReference{
		IssueID:     strconv.Itoa(i.Number),
		Title:       i.Title,
		Description: description,
		Status:      strings.ToLower(i.State),
		CreatedDate: created,
		URL:         i.HTMLURL,
		Labels:      labels,
	}
}

// ListOptions configures issue listing
type ListOptions struct {
	State   string // "open", "closed", "all"
	PerPage int
	Page    int
	Since   time.Time
}

// listPage fetches one raw page from the issues endpoint. Pull requests
// are included; callers filter them so pagination can still count the
// full page.
func (c *Client) listPage(org, repo string, opts ListOptions) ([]Issue, error) {
	if opts.PerPage == 0 {
		opts.PerPage = 100
	}
	if opts.State == "" {
		opts.State = "all"
	}
	if opts.Page == 0 {
		opts.Page = 1
	}

	params := url.Values{}
	params.Set("state", opts.State)
	params.Set("per_page", strconv.Itoa(opts.PerPage))
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("sort", "updated")
	params.Set("direction", "desc")
	if !opts.Since.IsZero() {
		params.Set("since", opts.Since.Format(time.RFC3339))
	}

	endpoint := fmt.Sprintf("repos/%s/%s/issues?%s", org, repo, params.Encode())

	var apiIssues []Issue
	if err := c.rest.Get(endpoint, &apiIssues); err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return apiIssues, nil
}

func toReferences(raw []Issue) []*models.IssueReference {
	issues := make([]*models.IssueReference, 0, len(raw))
	for i := range raw {
		if raw[i].isPullRequest() {
			continue
		}
		issues = append(issues, raw[i].ToReference())
	}
	return issues
}

// ListIssues fetches one page of issues from a repository, with pull
// requests filtered out.
func (c *Client) ListIssues(ctx context.Context, org, repo string, opts ListOptions) ([]*models.IssueReference, error) {
	raw, err := c.listPage(org, repo, opts)
	if err != nil {
		return nil, err
	}
	return toReferences(raw), nil
}

// ListAllIssues fetches all issues matching state using pagination.
func (c *Client) ListAllIssues(ctx context.Context, org, repo, state string, since time.Time) ([]*models.IssueReference, error) {
	var all []*models.IssueReference
	page := 1
	const perPage = 100

	for {
		raw, err := c.listPage(org, repo, ListOptions{
			State:   state,
			PerPage: perPage,
			Page:    page,
			Since:   since,
		})
		if err != nil {
			return nil, err
		}

		all = append(all, toReferences(raw)...)

		// Pagination counts the raw page: a page thinned by the pull
		// request filter is not the last page.
		if len(raw) < perPage {
			break
		}
		page++
	}

	return all, nil
}
