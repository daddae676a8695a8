package anonymize

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/go-radx/dicom/tag"
)

func TestActionMarshalBareString(t *testing.T) {
	for _, a := range []Action{Remove(), Keep(), None(), Empty(), HashDate(), HashUID()} {
		data, err := json.Marshal(a)
		require.NoError(t, err)
		var s string
		require.NoError(t, json.Unmarshal(data, &s))
		assert.Equal(t, actionKindNames[a.Kind], s)
	}
}

func TestActionMarshalReplaceObject(t *testing.T) {
	data, err := json.Marshal(Replace("X"))
	require.NoError(t, err)
	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Equal(t, "replace", obj["action"])
	assert.Equal(t, "X", obj["value"])
}

func TestActionMarshalHashObject(t *testing.T) {
	length := 24
	data, err := json.Marshal(Hash(&length))
	require.NoError(t, err)
	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Equal(t, "hash", obj["action"])
	assert.Equal(t, float64(24), obj["length"])
}

func TestActionUnmarshalBareString(t *testing.T) {
	var a Action
	require.NoError(t, json.Unmarshal([]byte(`"keep"`), &a))
	assert.Equal(t, Keep(), a)

	require.NoError(t, json.Unmarshal([]byte(`"hash_date"`), &a))
	assert.Equal(t, HashDate(), a)
}

func TestActionUnmarshalBareReplaceRejected(t *testing.T) {
	var a Action
	err := json.Unmarshal([]byte(`"replace"`), &a)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestActionUnmarshalObjectForm(t *testing.T) {
	var a Action
	require.NoError(t, json.Unmarshal([]byte(`{"action":"replace","value":"X"}`), &a))
	assert.Equal(t, Replace("X"), a)

	require.NoError(t, json.Unmarshal([]byte(`{"action":"hash","length":32}`), &a))
	assert.Equal(t, 32, *a.HashLength)

	// Object form is accepted for no-payload kinds too.
	require.NoError(t, json.Unmarshal([]byte(`{"action":"keep"}`), &a))
	assert.Equal(t, Keep(), a)
}

func TestActionUnmarshalUnknownKind(t *testing.T) {
	var a Action
	err := json.Unmarshal([]byte(`"bogus"`), &a)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestActionRoundTripAllKinds(t *testing.T) {
	length := 20
	actions := []Action{
		Empty(), Remove(), Keep(), None(),
		Replace("DEIDENTIFIED"), Hash(nil), Hash(&length), HashDate(), HashUID(),
	}
	for _, a := range actions {
		data, err := json.Marshal(a)
		require.NoError(t, err)
		var out Action
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, a, out)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	// Round-trip law: parse(serialize(config)) == config.
	conf, err := NewConfigBuilder().
		WithUIDRoot("1.2.840.99999").
		WithRemovePrivateTags(false).
		WithTagAction(tag.PatientName, Remove()).
		WithTagAction(tag.AccessionNumber, Replace("ANON")).
		Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveConfig(&buf, conf, true))

	parsed, err := LoadConfig(&buf)
	require.NoError(t, err)

	assert.Equal(t, conf.UIDRoot, parsed.UIDRoot)
	assert.Equal(t, conf.RemovePrivateTags, parsed.RemovePrivateTags)
	assert.Equal(t, conf.RemoveCurves, parsed.RemoveCurves)
	assert.Equal(t, conf.RemoveOverlays, parsed.RemoveOverlays)
	assert.Equal(t, conf.TagActions, parsed.TagActions)
}

func TestSaveConfigEffectiveIncludesDefaultProfile(t *testing.T) {
	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveConfig(&buf, conf, false))

	parsed, err := LoadConfig(&buf)
	require.NoError(t, err)
	// Non-diff-only output embeds the default profile as explicit
	// overrides, so PatientName's Empty() entry round-trips too.
	assert.Equal(t, Empty(), parsed.TagActions[tag.PatientName])
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	r := bytes.NewReader([]byte(`{"uid_root":"9999","bogus_field":true}`))
	_, err := LoadConfig(r)
	require.Error(t, err)
}

func TestLoadConfigRejectsInvalidUIDRoot(t *testing.T) {
	r := bytes.NewReader([]byte(`{"uid_root":"01.2"}`))
	_, err := LoadConfig(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestLoadConfigDefaultsWhenFieldsAbsent(t *testing.T) {
	r := bytes.NewReader([]byte(`{}`))
	conf, err := LoadConfig(r)
	require.NoError(t, err)
	assert.Equal(t, defaultUIDRoot, conf.UIDRoot)
	assert.True(t, conf.RemovePrivateTags)
	assert.True(t, conf.RemoveCurves)
	assert.True(t, conf.RemoveOverlays)
}
