package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCommentsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Contains(t, req["query"], "comments")
		assert.Contains(t, req["query"], "parentId")

		io.WriteString(w, `{"data":{"comments":{"items":[
			{"id":"c1","app":"0xapp","author":"0xauthor","channelId":"0","commentType":"0","content":"hi","createdAt":"1700000000000","parentId":""},
			{"id":"c2","parentId":"c1","createdAt":"1700000001000","content":"reply"}
		]}}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	records, err := client.FetchComments(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c1", records[0].ID)
	assert.Equal(t, "0xauthor", records[0].Author)
	assert.Equal(t, "c1", records[1].ParentID)
	assert.Equal(t, int64(1700000001000), records[1].CreatedAtMillis())
}

// Zero comments is a success, distinct from any failure.
func TestFetchCommentsEmpty(t *testing.T) {
	for _, body := range []string{
		`{"data":{"comments":{"items":[]}}}`,
		`{"data":{"comments":{}}}`,
		`{"data":{}}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		}))
		client := NewClient(srv.URL, time.Second)
		records, err := client.FetchComments(context.Background())
		srv.Close()

		require.NoError(t, err, "body %s", body)
		assert.Empty(t, records)
	}
}

func TestFetchCommentsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.FetchComments(context.Background())
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusBadGateway, terr.StatusCode)
	assert.Contains(t, terr.Error(), "502")
}

func TestFetchCommentsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Refuse connections.

	client := NewClient(srv.URL, time.Second)
	_, err := client.FetchComments(context.Background())
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Zero(t, terr.StatusCode)
}

func TestFetchCommentsQueryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"errors":[{"message":"field gone"},{"message":"try later"}]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.FetchComments(context.Background())
	require.Error(t, err)

	var qerr *QueryError
	require.True(t, errors.As(err, &qerr))
	assert.Equal(t, []string{"field gone", "try later"}, qerr.Messages)
	assert.Contains(t, qerr.Error(), "field gone; try later")
}

func TestFetchCommentsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": not json`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.FetchComments(context.Background())
	require.Error(t, err)

	var terr *TransportError
	assert.True(t, errors.As(err, &terr))
}

func TestCreatedAtParsing(t *testing.T) {
	c := Comment{CreatedAt: "1700000000000"}
	assert.Equal(t, int64(1700000000000), c.CreatedAtMillis())
	assert.Equal(t, time.UnixMilli(1700000000000), c.CreatedTime())

	bad := Comment{CreatedAt: "yesterday"}
	assert.Zero(t, bad.CreatedAtMillis())
	assert.True(t, bad.CreatedTime().IsZero())

	empty := Comment{}
	assert.Zero(t, empty.CreatedAtMillis())
	assert.False(t, empty.IsReply())
	assert.True(t, Comment{ParentID: "x"}.IsReply())
}
