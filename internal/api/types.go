package api

import (
	"strconv"
	"time"
)

// Comment is one flat record as returned by the indexer. Fields are opaque
// strings; the tree builder only interprets ID, ParentID and CreatedAt.
type Comment struct {
	ID          string `json:"id"`
	App         string `json:"app"`
	Author      string `json:"author"`
	ChannelID   string `json:"channelId"`
	CommentType string `json:"commentType"`
	Content     string `json:"content"`
	ParentID    string `json:"parentId"`

	// CreatedAt is a decimal string of Unix milliseconds. It must be
	// compared numerically, never lexicographically.
	CreatedAt string `json:"createdAt"`
}

// CreatedAtMillis returns the parsed timestamp, or 0 if CreatedAt is not a
// valid integer.
func (c Comment) CreatedAtMillis() int64 {
	ms, err := strconv.ParseInt(c.CreatedAt, 10, 64)
	if err != nil {
		return 0
	}
	return ms
}

// CreatedTime returns the creation time in the local zone. The zero time is
// returned for an unparsable CreatedAt.
func (c Comment) CreatedTime() time.Time {
	ms := c.CreatedAtMillis()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// IsReply reports whether the record references a parent comment.
func (c Comment) IsReply() bool {
	return c.ParentID != ""
}
