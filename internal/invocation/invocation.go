// Package invocation carries the identity of one command run.
package invocation

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Kind is how the report was triggered.
type Kind string

const (
	// KindCommand is a custom search command run.
	KindCommand Kind = "command"
	// KindAction is an alert action run.
	KindAction Kind = "action"
)

// Invocation identifies a single run. It is created once in main and passed
// down explicitly.
type Invocation struct {
	ID    string
	Kind  Kind
	Start time.Time
	Log   *slog.Logger
}

// New creates an invocation started at now. Its ID is the Unix start
// time plus a random UUID; log entries carry the ID and kind.
func New(kind Kind, now time.Time, logger *slog.Logger) *Invocation {
	id := fmt.Sprintf("%d.%06d:%s", now.Unix(), now.Nanosecond()/int(time.Microsecond), uuid.NewString())
	return &Invocation{
		ID:    id,
		Kind:  kind,
		Start: now,
		Log:   logger.With("invocation_id", id, "invocation_type", string(kind)),
	}
}
