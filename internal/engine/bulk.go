package engine

import (
	"errors"
	"strings"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/logger"
)

// Kind is an artifact family.
type Kind int

const (
	// KindSkills is the skills collection.
	KindSkills Kind = iota
	// KindMcp is the MCP server collection.
	KindMcp
)

func (k Kind) String() string {
	if k == KindMcp {
		return "mcp"
	}
	return "skills"
}

// BulkState is a state of the bulk sync dialog.
type BulkState int

const (
	BulkClosed BulkState = iota
	BulkChoosing
	BulkRunning
	BulkDone
)

func (s BulkState) String() string {
	switch s {
	case BulkChoosing:
		return "Choosing"
	case BulkRunning:
		return "Running"
	case BulkDone:
		return "Done"
	default:
		return "Closed"
	}
}

// SyncRequest is a validated bulk copy between two agents.
type SyncRequest struct {
	Kind     Kind
	SourceID string
	TargetID string
}

var errSyncNotOpen = errors.New("sync dialog is not open")

// BulkFlow tracks one bulk sync dialog for a single artifact kind.
type BulkFlow struct {
	kind   Kind
	state  BulkState
	req    SyncRequest
	result core.SyncResult
	err    error
}

// NewBulkFlow returns a closed flow for kind.
func NewBulkFlow(kind Kind) *BulkFlow {
	return &BulkFlow{kind: kind}
}

func (f *BulkFlow) Kind() Kind              { return f.kind }
func (f *BulkFlow) State() BulkState        { return f.state }
func (f *BulkFlow) Request() SyncRequest    { return f.req }
func (f *BulkFlow) Result() core.SyncResult { return f.result }
func (f *BulkFlow) Err() error              { return f.err }
func (f *BulkFlow) Running() bool           { return f.state == BulkRunning }

// Open shows the dialog. sources is the number of agent sources of the
// flow's kind.
func (f *BulkFlow) Open(sources int) error {
	if f.state == BulkRunning {
		return ErrBusy
	}
	if sources < 2 {
		return ErrSyncUnavailable
	}
	f.err = nil
	f.transition(BulkChoosing)
	return nil
}

// Begin validates the chosen pair and marks the sync as running.
func (f *BulkFlow) Begin(sourceID, targetID string) (SyncRequest, error) {
	switch f.state {
	case BulkRunning:
		return SyncRequest{}, ErrBusy
	case BulkChoosing:
	default:
		return SyncRequest{}, errSyncNotOpen
	}
	sourceID = strings.TrimSpace(sourceID)
	targetID = strings.TrimSpace(targetID)
	if sourceID == "" || targetID == "" {
		return SyncRequest{}, errors.New("choose both a source and a target agent")
	}
	if sourceID == targetID {
		return SyncRequest{}, newValidationError(SameSourceAndTarget, "")
	}
	f.req = SyncRequest{Kind: f.kind, SourceID: sourceID, TargetID: targetID}
	f.err = nil
	f.transition(BulkRunning)
	return f.req, nil
}

// Resolve records the outcome of the running sync. Failure returns the
// dialog to Choosing so the user can retry or pick another pair.
func (f *BulkFlow) Resolve(result core.SyncResult, err error) BulkState {
	if f.state != BulkRunning {
		return f.state
	}
	if err != nil {
		f.err = err
		f.transition(BulkChoosing)
		return f.state
	}
	f.result = result
	f.transition(BulkDone)
	return f.state
}

// Close dismisses the dialog. A running sync cannot be dismissed.
func (f *BulkFlow) Close() bool {
	if f.state == BulkRunning {
		return false
	}
	f.err = nil
	f.transition(BulkClosed)
	return true
}

func (f *BulkFlow) transition(to BulkState) {
	if f.state == to {
		return
	}
	logger.Debugw("bulk sync transition", "kind", f.kind.String(), "from", f.state.String(), "to", to.String())
	f.state = to
}
