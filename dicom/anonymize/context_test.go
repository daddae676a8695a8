package anonymize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextPatientShiftDaysMemoised(t *testing.T) {
	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)
	ctx := NewContext(conf, []byte("ABC123"))

	first, err := ctx.PatientShiftDays()
	require.NoError(t, err)
	second, err := ctx.PatientShiftDays()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, digestDays([]byte("ABC123")), first)
}

func TestContextPatientShiftDaysMissing(t *testing.T) {
	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)
	ctx := NewContext(conf, nil)

	_, err = ctx.PatientShiftDays()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingReferenceTag)
}

func TestContextUIDRoot(t *testing.T) {
	conf, err := NewConfigBuilder().WithUIDRoot("1.2.840").Build()
	require.NoError(t, err)
	ctx := NewContext(conf, nil)
	assert.Equal(t, "1.2.840", ctx.UIDRoot())
}
