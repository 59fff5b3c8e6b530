// Package pr reads and creates pull requests through the gh CLI.
// Lookups return nil (not an error) when a branch has no pull request.
package pr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"ticketdash/internal/jsonutil"
)

// State of a pull request as reported by gh.
const (
	StateOpen   = "OPEN"
	StateMerged = "MERGED"
	StateClosed = "CLOSED"
)

// Check buckets as reported by `gh pr checks --json bucket`.
const (
	BucketPass     = "pass"
	BucketFail     = "fail"
	BucketPending  = "pending"
	BucketSkipping = "skipping"
	BucketCancel   = "cancel"
)

// PullRequest is the PR opened from a worktree branch.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Draft  bool   `json:"isDraft"`
	URL    string `json:"url"`
}

// Check is one CI check on a pull request.
type Check struct {
	Name        string `json:"name"`
	Bucket      string `json:"bucket"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Review is one submitted review.
type Review struct {
	Author string
	State  string // APPROVED, CHANGES_REQUESTED, COMMENTED, ...
	Body   string
}

// runFunc executes a command in dir, returning stdout and stderr.
type runFunc func(ctx context.Context, dir string, name string, args ...string) (stdout, stderr []byte, err error)

func execRun(ctx context.Context, dir string, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Client talks to gh from the repository root.
type Client struct {
	repoRoot string
	timeout  time.Duration
	run      runFunc
	cache    *infoCache
}

// NewClient returns a client for the repository at repoRoot.
func NewClient(repoRoot string) *Client {
	return &Client{
		repoRoot: repoRoot,
		timeout:  20 * time.Second,
		run:      execRun,
		cache:    newInfoCache(cacheTTL),
	}
}

func (c *Client) gh(ctx context.Context, args ...string) ([]byte, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.run(ctx, c.repoRoot, "gh", args...)
}

func ghError(verb string, err error, stderr []byte) error {
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return fmt.Errorf("gh %s: %w: %s", verb, err, msg)
	}
	return fmt.Errorf("gh %s: %w", verb, err)
}

// ClearCache drops cached PR lookups; called on manual refresh.
func (c *Client) ClearCache() {
	c.cache.clear()
}

// Info returns the pull request whose head is branch, preferring an open
// one over closed or merged history. Returns nil, nil when there is none.
func (c *Client) Info(ctx context.Context, branch string) (*PullRequest, error) {
	if pr, ok := c.cache.get(branch); ok {
		return pr, nil
	}
	stdout, stderr, err := c.gh(ctx, "pr", "list",
		"--head", branch,
		"--state", "all",
		"--limit", "5",
		"--json", "number,title,state,isDraft,url",
	)
	if err != nil {
		return nil, ghError("pr list", err, stderr)
	}
	prs, err := jsonutil.DecodeSlice[PullRequest](stdout, "gh pr list")
	if err != nil {
		return nil, err
	}
	var found *PullRequest
	for i := range prs {
		if prs[i].State == StateOpen {
			found = &prs[i]
			break
		}
	}
	if found == nil && len(prs) > 0 {
		found = &prs[0]
	}
	c.cache.put(branch, found)
	return found, nil
}

// Checks returns the checks on PR number. An empty, non-nil slice means
// the PR has no checks.
func (c *Client) Checks(ctx context.Context, number int) ([]Check, error) {
	stdout, stderr, err := c.gh(ctx, "pr", "checks", strconv.Itoa(number),
		"--json", "name,bucket,description,link")
	if len(bytes.TrimSpace(stdout)) > 0 {
		// gh exits non-zero while checks are failing or pending but still
		// prints the list.
		return jsonutil.DecodeSlice[Check](stdout, "gh pr checks")
	}
	if err != nil {
		if strings.Contains(string(stderr), "no checks reported") {
			return []Check{}, nil
		}
		return nil, ghError("pr checks", err, stderr)
	}
	return []Check{}, nil
}

type reviewsPayload struct {
	Reviews []struct {
		Author struct {
			Login string `json:"login"`
		} `json:"author"`
		State string `json:"state"`
		Body  string `json:"body"`
	} `json:"reviews"`
}

// Reviews returns submitted reviews on PR number, oldest first.
func (c *Client) Reviews(ctx context.Context, number int) ([]Review, error) {
	stdout, stderr, err := c.gh(ctx, "pr", "view", strconv.Itoa(number), "--json", "reviews")
	if err != nil {
		return nil, ghError("pr view", err, stderr)
	}
	var payload reviewsPayload
	if err := jsonutil.UnmarshalWithContext(stdout, &payload, "gh pr view --json reviews"); err != nil {
		return nil, err
	}
	reviews := make([]Review, 0, len(payload.Reviews))
	for _, r := range payload.Reviews {
		reviews = append(reviews, Review{Author: r.Author.Login, State: r.State, Body: r.Body})
	}
	return reviews, nil
}

// CreateOptions describes a pull request to open.
type CreateOptions struct {
	Branch string
	Base   string // may be a remote-tracking ref like origin/main
	Title  string
	Body   string
	// Web opens the host's creation form in a browser instead of creating
	// the PR directly.
	Web bool
}

// Create opens a pull request for opts.Branch. In non-web mode it returns
// the new PR's URL.
func (c *Client) Create(ctx context.Context, opts CreateOptions) (string, error) {
	args := []string{"pr", "create", "--head", opts.Branch}
	if base := baseName(opts.Base); base != "" {
		args = append(args, "--base", base)
	}
	if opts.Web {
		args = append(args, "--web")
	} else {
		args = append(args, "--title", opts.Title, "--body", opts.Body)
	}
	stdout, stderr, err := c.gh(ctx, args...)
	if err != nil {
		return "", ghError("pr create", err, stderr)
	}
	c.cache.drop(opts.Branch)
	return lastLine(string(stdout)), nil
}

// baseName strips a remote prefix: origin/main -> main.
func baseName(ref string) string {
	if _, rest, ok := strings.Cut(ref, "/"); ok && strings.HasPrefix(ref, "origin/") {
		return rest
	}
	return ref
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
