package ticket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"ticketdash/internal/jsonutil"
)

// DefaultEndpoint is Linear's public GraphQL endpoint.
const DefaultEndpoint = "https://api.linear.app/graphql"

// ErrNoAPIKey is returned when no Linear API key is configured.
var ErrNoAPIKey = errors.New("linear: no API key configured (set LINEAR_API_KEY or linear.api_key)")

// closedStateTypes are excluded from the assigned-issue query.
var closedStateTypes = []string{"completed", "canceled"}

const assignedIssuesQuery = `query AssignedIssues($filter: IssueFilter) {
  viewer {
    assignedIssues(filter: $filter, first: 100, orderBy: updatedAt) {
      nodes {
        identifier
        title
        description
        url
        priority
        priorityLabel
        state { name type }
        labels { nodes { name } }
        project { id name }
      }
    }
  }
}`

// ClientOptions configures a Linear client.
type ClientOptions struct {
	Endpoint string
	APIKey   string
	// Team restricts results to one team key (e.g. "ENG"). Empty means all.
	Team     string
	RetryMax int
	Timeout  time.Duration
}

// Client fetches tickets assigned to the API key's user.
type Client struct {
	endpoint string
	apiKey   string
	team     string
	http     *retryablehttp.Client
}

// NewClient builds a client with retrying HTTP transport.
func NewClient(opts ClientOptions) *Client {
	hc := retryablehttp.NewClient()
	hc.RetryMax = 3
	if opts.RetryMax > 0 {
		hc.RetryMax = opts.RetryMax
	}
	hc.RetryWaitMin = 200 * time.Millisecond
	hc.RetryWaitMax = 2 * time.Second
	hc.HTTPClient.Timeout = 15 * time.Second
	if opts.Timeout > 0 {
		hc.HTTPClient.Timeout = opts.Timeout
	}
	hc.Logger = slog.Default()

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(opts.APIKey),
		team:     strings.TrimSpace(opts.Team),
		http:     hc,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type issueNode struct {
	Identifier    string  `json:"identifier"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	URL           string  `json:"url"`
	Priority      float64 `json:"priority"`
	PriorityLabel string  `json:"priorityLabel"`
	State         struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"state"`
	Labels struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"labels"`
	Project *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"project"`
}

type assignedIssuesResponse struct {
	Data struct {
		Viewer struct {
			AssignedIssues struct {
				Nodes []issueNode `json:"nodes"`
			} `json:"assignedIssues"`
		} `json:"viewer"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

func (c *Client) filter() map[string]any {
	f := map[string]any{
		"state": map[string]any{
			"type": map[string]any{"nin": closedStateTypes},
		},
	}
	if c.team != "" {
		f["team"] = map[string]any{
			"key": map[string]any{"eq": c.team},
		}
	}
	return f
}

// FetchAssigned returns open tickets assigned to the current user, in the
// order the tracker returns them.
func (c *Client) FetchAssigned(ctx context.Context) ([]Ticket, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	body, err := jsonutil.Encode(graphQLRequest{
		Query:     assignedIssuesQuery,
		Variables: map[string]any{"filter": c.filter()},
	}, "linear: encode query")
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("linear: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linear: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("linear: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linear: %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var parsed assignedIssuesResponse
	if err := jsonutil.UnmarshalWithContext(data, &parsed, "linear: decode response"); err != nil {
		return nil, err
	}
	if len(parsed.Errors) > 0 {
		msgs := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("linear: %s", strings.Join(msgs, "; "))
	}

	nodes := parsed.Data.Viewer.AssignedIssues.Nodes
	tickets := make([]Ticket, 0, len(nodes))
	for _, n := range nodes {
		tickets = append(tickets, n.toTicket())
	}
	return tickets, nil
}

func (n issueNode) toTicket() Ticket {
	t := Ticket{
		ID:            n.Identifier,
		Title:         n.Title,
		URL:           n.URL,
		Priority:      int(n.Priority),
		PriorityLabel: n.PriorityLabel,
		State: State{
			Name: n.State.Name,
			Type: NormalizeStateType(n.State.Type),
		},
	}
	if n.Description != nil {
		t.Description = *n.Description
	}
	for _, l := range n.Labels.Nodes {
		t.Labels = append(t.Labels, l.Name)
	}
	if n.Project != nil {
		t.ProjectID = n.Project.ID
		t.ProjectName = n.Project.Name
	}
	return t
}
