package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOSReader(t *testing.T) {
	t.Setenv("ANANKE_ENV_TEST", "value")

	r := &OSReader{}
	assert.Equal(t, "value", r.Getenv("ANANKE_ENV_TEST"))
	assert.Empty(t, r.Getenv("ANANKE_ENV_TEST_MISSING"))
}

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		env       MapReader
		wantValue string
		wantKey   string
	}{
		{"none set", MapReader{}, "", ""},
		{"first wins", MapReader{"A": "1", "B": "2"}, "1", "A"},
		{"blank skipped", MapReader{"A": "  ", "B": "2"}, "2", "B"},
		{"last only", MapReader{"C": "3"}, "3", "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, k := FirstNonEmpty(tt.env, "A", "B", "C")
			assert.Equal(t, tt.wantValue, v)
			assert.Equal(t, tt.wantKey, k)
		})
	}
}
