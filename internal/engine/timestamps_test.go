package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimestamp(t *testing.T) {
	t.Parallel()

	secs := NormalizeTimestamp(1700000000)
	millis := NormalizeTimestamp(1700000000000)
	assert.True(t, secs.Equal(millis))
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), secs.UTC())

	assert.Equal(t, int64(999_999_999_999), NormalizeTimestamp(999_999_999_999).Unix())
	assert.Equal(t, int64(1_000_000_000), NormalizeTimestamp(1_000_000_000_000).Unix())
}

func TestFormatLastModified(t *testing.T) {
	t.Parallel()

	secs, millis := int64(1700000000), int64(1700000000000)
	assert.Equal(t, FormatLastModified(&secs), FormatLastModified(&millis))
	assert.NotEmpty(t, FormatLastModified(&secs))

	zero := int64(0)
	assert.Empty(t, FormatLastModified(nil))
	assert.Empty(t, FormatLastModified(&zero))
}
