package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FetchErrorKind classifies why fetching a remote skill failed.
type FetchErrorKind int

const (
	// FetchErrOther is an unclassified failure.
	FetchErrOther FetchErrorKind = iota
	// FetchErrAuthRequired means the host refused the request without valid credentials.
	FetchErrAuthRequired
	// FetchErrNotFound means the resource is missing, or private and hidden from us.
	FetchErrNotFound
	// FetchErrRateLimited means the anonymous or token quota is exhausted.
	FetchErrRateLimited
	// FetchErrNetwork means the host could not be reached.
	FetchErrNetwork
)

// String returns a human-readable label for the error kind.
func (k FetchErrorKind) String() string {
	switch k {
	case FetchErrAuthRequired:
		return "Authentication Required"
	case FetchErrNotFound:
		return "Not Found"
	case FetchErrRateLimited:
		return "Rate Limited"
	case FetchErrNetwork:
		return "Network Error"
	default:
		return "Fetch Error"
	}
}

// FetchError is a structured error returned when a remote fetch fails.
// Hosts answer 404 for private repositories, so NotFound is treated as
// possibly auth-related by callers.
type FetchError struct {
	Kind    FetchErrorKind
	URL     string
	Status  int    // HTTP status, 0 when no response was received
	Message string // server message or transport error
	Hints   []string
	Err     error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString("fetch ")
	b.WriteString(e.URL)
	b.WriteString(" failed")
	if e.Status != 0 {
		fmt.Fprintf(&b, ": %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *FetchError) Unwrap() error { return e.Err }

// AuthRelated reports whether supplying a credential might fix the failure.
func (e *FetchError) AuthRelated() bool {
	return e.Kind == FetchErrAuthRequired || e.Kind == FetchErrNotFound
}

// IsFetchError checks whether an error is a *FetchError and returns it.
func IsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// newStatusError classifies a non-2xx response.
func newStatusError(url string, resp *http.Response, message string) *FetchError {
	kind := FetchErrOther
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = FetchErrAuthRequired
	case http.StatusForbidden:
		kind = FetchErrAuthRequired
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			kind = FetchErrRateLimited
		}
	case http.StatusTooManyRequests:
		kind = FetchErrRateLimited
	case http.StatusNotFound:
		kind = FetchErrNotFound
	}
	return &FetchError{
		Kind:    kind,
		URL:     url,
		Status:  resp.StatusCode,
		Message: message,
		Hints:   hintsForFetchError(kind),
	}
}

func newNetworkError(url string, err error) *FetchError {
	return &FetchError{
		Kind:    FetchErrNetwork,
		URL:     url,
		Message: err.Error(),
		Hints:   hintsForFetchError(FetchErrNetwork),
		Err:     err,
	}
}

// hintsForFetchError returns actionable suggestions for the error kind.
func hintsForFetchError(kind FetchErrorKind) []string {
	switch kind {
	case FetchErrAuthRequired:
		return []string{
			"Provide a GitHub personal access token with read access to the repository",
			"Or export SKILL_GITHUB_TOKEN, GITHUB_TOKEN or GH_TOKEN",
		}
	case FetchErrNotFound:
		return []string{
			"Verify the URL, branch and path are correct",
			"Private repositories answer 404 to anonymous requests: provide a token",
		}
	case FetchErrRateLimited:
		return []string{
			"The GitHub API quota is exhausted; wait for it to reset",
			"Authenticated requests get a much higher quota: provide a token",
		}
	case FetchErrNetwork:
		return []string{
			"Check your internet connection",
			"If behind a proxy, set HTTPS_PROXY",
		}
	default:
		return []string{"Verify the URL is correct and accessible"}
	}
}
