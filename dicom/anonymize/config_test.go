package anonymize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/vr"
)

func TestConfigBuilderDefaults(t *testing.T) {
	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, defaultUIDRoot, conf.UIDRoot)
	assert.True(t, conf.RemovePrivateTags)
	assert.True(t, conf.RemoveCurves)
	assert.True(t, conf.RemoveOverlays)
	assert.Empty(t, conf.TagActions)
}

func TestConfigBuilderRejectsInvalidUIDRoot(t *testing.T) {
	_, err := NewConfigBuilder().WithUIDRoot("01.2").Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestConfigBuilderRejectsInvalidHashLength(t *testing.T) {
	tooShort := 4
	_, err := NewConfigBuilder().WithTagAction(tag.PatientID, Hash(&tooShort)).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestValidateUIDRoot(t *testing.T) {
	cases := []struct {
		root  string
		valid bool
	}{
		{"9999", true},
		{"1.2.840.9999", true},
		{"0", true},
		{"1.0.2", true},
		{"", false},
		{"01.2", false},
		{"1..2", false},
		{"1.2a", false},
		{"123456789012345678901234567890", false},
	}
	for _, c := range cases {
		err := ValidateUIDRoot(c.root)
		if c.valid {
			assert.NoErrorf(t, err, "root %q", c.root)
		} else {
			assert.Errorf(t, err, "root %q", c.root)
		}
	}
}

func TestResolvePrecedenceExplicitOverridesPrivate(t *testing.T) {
	// S2: explicit Keep beats remove_private_tags.
	privateTag := tag.New(0x0033, 0x1010)
	other := tag.New(0x0033, 0x1020)

	conf, err := NewConfigBuilder().
		WithRemovePrivateTags(true).
		WithKeep(privateTag).
		Build()
	require.NoError(t, err)

	assert.Equal(t, Keep(), conf.Resolve(privateTag, vr.ShortString))
	assert.Equal(t, Remove(), conf.Resolve(other, vr.ShortString))
}

func TestResolveGroupLengthAlwaysRemoved(t *testing.T) {
	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)
	groupLength := tag.New(0x0008, 0x0000)
	assert.Equal(t, Remove(), conf.Resolve(groupLength, vr.UnsignedLong))
}

func TestResolveCurveAndOverlayBulkPolicies(t *testing.T) {
	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)
	curveTag := tag.New(0x5000, 0x0010)
	overlayTag := tag.New(0x6000, 0x0010)
	assert.Equal(t, Remove(), conf.Resolve(curveTag, vr.OtherWord))
	assert.Equal(t, Remove(), conf.Resolve(overlayTag, vr.OtherWord))

	conf2, err := NewConfigBuilder().
		WithRemoveCurves(false).
		WithRemoveOverlays(false).
		Build()
	require.NoError(t, err)
	assert.Equal(t, Keep(), conf2.Resolve(curveTag, vr.OtherWord))
	assert.Equal(t, Keep(), conf2.Resolve(overlayTag, vr.OtherWord))
}

func TestResolveDefaultProfileFallsThroughToKeep(t *testing.T) {
	conf, err := NewConfigBuilder().
		WithRemovePrivateTags(false).
		WithRemoveCurves(false).
		WithRemoveOverlays(false).
		Build()
	require.NoError(t, err)

	// PatientName has a default-profile entry (Empty).
	assert.Equal(t, Empty(), conf.Resolve(tag.PatientName, vr.PersonName))

	// A tag with no default-profile entry and no bulk match falls to Keep.
	unrelated := tag.New(0x0018, 0x0050)
	assert.Equal(t, Keep(), conf.Resolve(unrelated, vr.DecimalString))
}

func TestEffectiveTagActionsMergesOverrides(t *testing.T) {
	conf, err := NewConfigBuilder().
		WithTagAction(tag.PatientName, Remove()).
		Build()
	require.NoError(t, err)

	effective := conf.EffectiveTagActions()
	assert.Equal(t, Remove(), effective[tag.PatientName])
	// Other default-profile entries survive untouched.
	assert.Equal(t, Empty(), effective[tag.StudyDescription])
}
