// Package env abstracts environment variable access so that token lookup,
// path resolution and logger setup can be tested without touching the
// process environment.
package env

//go:generate mockgen -source=env.go -destination=mocks/mock_reader.go -package=mocks Reader

import (
	"os"
	"strings"
)

// Reader defines an interface for environment variable access.
type Reader interface {
	Getenv(key string) string
}

// OSReader implements Reader using the os package.
type OSReader struct{}

// Getenv returns the value of the environment variable named by key.
func (*OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// MapReader is a Reader backed by a fixed map. Missing keys read as "".
type MapReader map[string]string

// Getenv returns the mapped value for key.
func (m MapReader) Getenv(key string) string {
	return m[key]
}

// FirstNonEmpty returns the first variable in keys with a non-blank value,
// along with the key it came from.
func FirstNonEmpty(r Reader, keys ...string) (value, key string) {
	for _, k := range keys {
		if v := r.Getenv(k); strings.TrimSpace(v) != "" {
			return v, k
		}
	}
	return "", ""
}
