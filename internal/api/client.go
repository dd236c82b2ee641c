package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

const requestTimeout = 10 * time.Second

// commentsQuery asks for every comment in one shot. The indexer has no
// pagination on this query; the full flat set comes back in items.
const commentsQuery = `query {
  comments {
    items {
      id
      app
      author
      channelId
      commentType
      content
      createdAt
      parentId
    }
  }
}`

// Client talks to the comments indexer.
type Client struct {
	http     *http.Client
	endpoint string
}

// NewClient creates a client for the given indexer endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

// Endpoint returns the indexer URL this client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryError struct {
	Message string `json:"message"`
}

type commentsResponse struct {
	Errors []queryError `json:"errors"`
	Data   struct {
		Comments struct {
			Items []Comment `json:"items"`
		} `json:"comments"`
	} `json:"data"`
}

// FetchComments issues a single POST for the full comment set. It returns
// the flat records in response order, a *TransportError if the call fails
// or the response is unusable, or a *QueryError if the indexer reports
// query-level errors. Zero comments is a success, not an error.
func (c *Client) FetchComments(ctx context.Context) ([]Comment, error) {
	body, err := json.Marshal(queryRequest{Query: commentsQuery})
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("encoding query: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "quibble/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", bytes.TrimSpace(snippet)),
		}
	}

	var decoded commentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	if len(decoded.Errors) > 0 {
		msgs := make([]string, len(decoded.Errors))
		for i, e := range decoded.Errors {
			msgs[i] = e.Message
		}
		return nil, &QueryError{Messages: msgs}
	}

	return decoded.Data.Comments.Items, nil
}
