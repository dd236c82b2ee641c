package api

import (
	"fmt"
	"strings"
)

// TransportError means the request never produced a usable response: the
// network call failed, the server returned a non-success status, or the
// body could not be decoded.
type TransportError struct {
	StatusCode int // 0 when the request did not complete
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("indexer returned HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("indexer unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// QueryError means the indexer answered but reported errors in the query
// layer instead of data.
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	return "query failed: " + strings.Join(e.Messages, "; ")
}
