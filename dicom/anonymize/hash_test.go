package anonymize

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexPattern = regexp.MustCompile("^[0-9a-f]+$")

func TestHashStringDeterministic(t *testing.T) {
	a := hashString([]byte("ABC123"), 16)
	b := hashString([]byte("ABC123"), 16)
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
	assert.True(t, hexPattern.MatchString(a))
}

func TestHashStringDiffersOnInput(t *testing.T) {
	a := hashString([]byte("ABC123"), 16)
	b := hashString([]byte("XYZ789"), 16)
	assert.NotEqual(t, a, b)
}

func TestHashStringLengthBound(t *testing.T) {
	// Invariant 4: output length is exactly min(L, 64).
	digest := hashString([]byte("ABC123"), 64)
	assert.Len(t, digest, 64)

	digest = hashString([]byte("ABC123"), 0)
	assert.Len(t, digest, defaultHashLength)
}

func TestDigestDaysWithinBound(t *testing.T) {
	shift := digestDays([]byte("ABC123"))
	assert.GreaterOrEqual(t, shift, -maxShift)
	assert.LessOrEqual(t, shift, maxShift)
}

func TestDigestDaysDeterministic(t *testing.T) {
	a := digestDays([]byte("ABC123"))
	b := digestDays([]byte("ABC123"))
	assert.Equal(t, a, b)
}

func TestValidateHashLengthBounds(t *testing.T) {
	tooShort, tooLong, ok := 4, 128, 32
	assert.Error(t, validateHashLength(&tooShort))
	assert.Error(t, validateHashLength(&tooLong))
	assert.NoError(t, validateHashLength(&ok))
	assert.NoError(t, validateHashLength(nil))
}
