package anonymize

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// buildMinimalFile writes a Part 10 stream with just enough elements for
// the writer's required-element check, mirroring the fixtures the dicom
// package's own writer tests build.
func buildMinimalFile(t *testing.T) []byte {
	t.Helper()
	ds := dicom.NewDataSet()
	addString(t, ds, tag.SOPClassUID, vr.UniqueIdentifier, "1.2.840.10008.5.1.4.1.1.7")
	addString(t, ds, tag.SOPInstanceUID, vr.UniqueIdentifier, "1.2.3.4.5")
	addString(t, ds, tag.PatientName, vr.PersonName, "DOE^JOHN")
	addString(t, ds, tag.PatientID, vr.LongString, "ABC123")
	addString(t, ds, tag.StudyDate, vr.Date, "20200115")

	var buf bytes.Buffer
	require.NoError(t, dicom.WriteWriter(&buf, &dicom.File{Dataset: ds}, dicom.WriteOptions{}))
	return buf.Bytes()
}

func TestAnonymizerAnonymizeRoundTrip(t *testing.T) {
	raw := buildMinimalFile(t)

	conf, err := NewConfigBuilder().WithUIDRoot("9999").Build()
	require.NoError(t, err)
	anonymizer, err := New(conf)
	require.NoError(t, err)

	artifact, err := anonymizer.Anonymize(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "", getString(t, artifact.Dataset(), tag.PatientName))
	assert.Len(t, getString(t, artifact.Dataset(), tag.PatientID), defaultHashLength)

	var out bytes.Buffer
	require.NoError(t, artifact.Write(&out))
	assert.NotEmpty(t, out.Bytes())

	reparsed, err := dicom.ParseReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "", getString(t, reparsed.Dataset, tag.PatientName))
}

func TestAnonymizerIdempotent(t *testing.T) {
	// Invariant 8: running anonymize twice on the same input with the same
	// config yields the same bytes as one run.
	raw := buildMinimalFile(t)
	conf, err := NewConfigBuilder().WithUIDRoot("9999").Build()
	require.NoError(t, err)

	anonymizer, err := New(conf)
	require.NoError(t, err)

	first, err := anonymizer.Anonymize(bytes.NewReader(raw))
	require.NoError(t, err)
	var firstBytes bytes.Buffer
	require.NoError(t, first.Write(&firstBytes))

	second, err := anonymizer.Anonymize(bytes.NewReader(raw))
	require.NoError(t, err)
	var secondBytes bytes.Buffer
	require.NoError(t, second.Write(&secondBytes))

	assert.Equal(t, firstBytes.Bytes(), secondBytes.Bytes())
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestDefaultAnonymizerUsesBuiltInPolicy(t *testing.T) {
	anonymizer := Default()
	raw := buildMinimalFile(t)

	artifact, err := anonymizer.Anonymize(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "", getString(t, artifact.Dataset(), tag.PatientName))
}

func TestAnonymizeReadError(t *testing.T) {
	anonymizer := Default()
	_, err := anonymizer.Anonymize(bytes.NewReader([]byte("not a dicom file")))
	require.Error(t, err)
}
