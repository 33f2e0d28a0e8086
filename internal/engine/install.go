package engine

import (
	"errors"
	"regexp"
	"strings"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/logger"
)

// InstallState is a state of the install/sync-latest flow.
type InstallState int

const (
	// InstallIdle means no attempt has been made.
	InstallIdle InstallState = iota
	// InstallUnauthenticated means an attempt without a token is in flight.
	InstallUnauthenticated
	// InstallAwaitingToken means an anonymous attempt failed for auth
	// reasons and the user is being asked for a credential.
	InstallAwaitingToken
	// InstallAuthenticated means a token-bearing attempt is in flight.
	InstallAuthenticated
	// InstallDone means the last attempt succeeded.
	InstallDone
	// InstallFailed means the last attempt failed and will not be retried.
	InstallFailed
	// InstallAborted means the credential prompt was dismissed.
	InstallAborted
)

func (s InstallState) String() string {
	switch s {
	case InstallIdle:
		return "Idle"
	case InstallUnauthenticated:
		return "Unauthenticated"
	case InstallAwaitingToken:
		return "AwaitingToken"
	case InstallAuthenticated:
		return "Authenticated"
	case InstallDone:
		return "Done"
	case InstallFailed:
		return "Failed"
	case InstallAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// InstallOp selects which backend operation an attempt runs.
type InstallOp int

const (
	// OpInstall installs a new skill from a URL.
	OpInstall InstallOp = iota
	// OpSyncLatest re-fetches an installed skill from its source URL.
	OpSyncLatest
)

func (o InstallOp) String() string {
	if o == OpSyncLatest {
		return "sync-latest"
	}
	return "install"
}

// InstallRequest describes what to fetch and where to put it.
type InstallRequest struct {
	Op       InstallOp
	SourceID string
	SkillID  string // OpSyncLatest only
	URL      string
}

// NewInstallRequest builds a request to install url into sourceID.
func NewInstallRequest(sourceID, url string) (InstallRequest, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return InstallRequest{}, newValidationError(EmptyURL, "")
	}
	return InstallRequest{Op: OpInstall, SourceID: sourceID, URL: url}, nil
}

// NewSyncLatestRequest builds a request to refresh skill from its origin.
func NewSyncLatestRequest(skill core.Skill) (InstallRequest, error) {
	if !skill.Syncable() {
		return InstallRequest{}, newValidationError(NotSyncable, skill.ID)
	}
	url := strings.TrimSpace(skill.SourceURL)
	if url == "" {
		return InstallRequest{}, newValidationError(EmptyURL, "")
	}
	return InstallRequest{Op: OpSyncLatest, SourceID: skill.SourceID, SkillID: skill.ID, URL: url}, nil
}

// Attempt is one backend call. The token lives only here.
type Attempt struct {
	Request InstallRequest
	Token   string
}

// Authenticated reports whether the attempt carries a token.
func (a Attempt) Authenticated() bool { return a.Token != "" }

// InstallFlow drives an install or sync-latest through at most one anonymous
// attempt and one credentialed retry.
type InstallFlow struct {
	state  InstallState
	req    InstallRequest
	err    error
	result core.Skill
}

// State returns the current state.
func (f *InstallFlow) State() InstallState { return f.state }

// Request returns the request of the current or last attempt.
func (f *InstallFlow) Request() InstallRequest { return f.req }

// Err returns the error of the last failed attempt.
func (f *InstallFlow) Err() error { return f.err }

// Result returns the skill produced by a successful attempt.
func (f *InstallFlow) Result() core.Skill { return f.result }

// InFlight reports whether an attempt is running.
func (f *InstallFlow) InFlight() bool {
	return f.state == InstallUnauthenticated || f.state == InstallAuthenticated
}

// Prompting reports whether the flow waits for a credential.
func (f *InstallFlow) Prompting() bool { return f.state == InstallAwaitingToken }

// Start begins a new flow. An empty token makes the first attempt
// anonymous; a token supplied up front makes it the only attempt.
func (f *InstallFlow) Start(req InstallRequest, token string) (Attempt, error) {
	if f.InFlight() {
		return Attempt{}, ErrBusy
	}
	if strings.TrimSpace(req.URL) == "" {
		return Attempt{}, newValidationError(EmptyURL, "")
	}
	f.req = req
	f.err = nil
	f.result = core.Skill{}
	token = strings.TrimSpace(token)
	if token == "" {
		f.transition(InstallUnauthenticated)
	} else {
		f.transition(InstallAuthenticated)
	}
	return Attempt{Request: req, Token: token}, nil
}

// SubmitToken retries the pending request with token.
func (f *InstallFlow) SubmitToken(token string) (Attempt, error) {
	if f.state != InstallAwaitingToken {
		return Attempt{}, errors.New("no credential requested")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Attempt{}, newValidationError(EmptyToken, "")
	}
	f.transition(InstallAuthenticated)
	return Attempt{Request: f.req, Token: token}, nil
}

// Cancel dismisses the credential prompt. It reports whether the flow
// was waiting for one; in-flight attempts are not affected.
func (f *InstallFlow) Cancel() bool {
	if f.state != InstallAwaitingToken {
		return false
	}
	f.transition(InstallAborted)
	return true
}

// Resolve records the outcome of attempt a and returns the new state.
// Outcomes arriving when no attempt is in flight are ignored.
func (f *InstallFlow) Resolve(a Attempt, skill core.Skill, err error) InstallState {
	if !f.InFlight() {
		return f.state
	}
	switch {
	case err == nil:
		f.result = skill
		f.err = nil
		f.transition(InstallDone)
	case !a.Authenticated() && IsAuthFailure(err):
		f.err = err
		f.transition(InstallAwaitingToken)
	default:
		f.err = err
		f.transition(InstallFailed)
	}
	return f.state
}

// Reset returns the flow to Idle unless an attempt is running.
func (f *InstallFlow) Reset() {
	if f.InFlight() {
		return
	}
	*f = InstallFlow{}
}

func (f *InstallFlow) transition(to InstallState) {
	logger.Debugw("install flow transition", "op", f.req.Op.String(), "from", f.state.String(), "to", to.String())
	f.state = to
}

var authPattern = regexp.MustCompile(`\b(401|403|404)\b|Not Found`)

// IsAuthFailure reports whether err looks like a failure a credential
// could fix. Structured fetch errors are classified by kind; other errors
// are matched against HTTP status codes in their text.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	if fe, ok := core.IsFetchError(err); ok {
		return fe.AuthRelated()
	}
	if _, ok := IsValidationError(err); ok {
		return false
	}
	if errors.Is(err, core.ErrSkillNotFound) {
		return false
	}
	return authPattern.MatchString(err.Error())
}

// AuthHints returns suggestions to show next to the credential prompt.
func AuthHints(err error) []string {
	if fe, ok := core.IsFetchError(err); ok && len(fe.Hints) > 0 {
		return fe.Hints
	}
	return []string{"The repository may be private: provide a GitHub token with read access"}
}
