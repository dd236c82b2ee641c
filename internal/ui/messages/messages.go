package messages

import (
	"time"

	"github.com/fragmede/quibble/internal/api"
)

// Data messages.
type (
	// CommentsLoadedMsg carries the result of one fetch flow. FromCache
	// marks the startup snapshot paint, which a live result always
	// supersedes.
	CommentsLoadedMsg struct {
		Records   []api.Comment
		FetchedAt time.Time
		FromCache bool
		Err       error
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
