package anonymize

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

func addString(t *testing.T, ds *dicom.DataSet, tg tag.Tag, v vr.VR, s string) {
	t.Helper()
	val, err := value.NewStringValue(v, []string{s})
	require.NoError(t, err)
	elem, err := element.NewElement(tg, v, val)
	require.NoError(t, err)
	require.NoError(t, ds.Add(elem))
}

func getString(t *testing.T, ds *dicom.DataSet, tg tag.Tag) string {
	t.Helper()
	elem, err := ds.Get(tg)
	require.NoError(t, err)
	return elem.Value().String()
}

// TestWalkS1DefaultAnonymization covers scenario S1.
func TestWalkS1DefaultAnonymization(t *testing.T) {
	ds := dicom.NewDataSet()
	addString(t, ds, tag.PatientName, vr.PersonName, "DOE^JOHN")
	addString(t, ds, tag.PatientID, vr.LongString, "ABC123")
	addString(t, ds, tag.SOPInstanceUID, vr.UniqueIdentifier, "1.2.3.4.5")
	addString(t, ds, tag.StudyDate, vr.Date, "20200115")

	file := &dicom.File{Dataset: ds}
	conf, err := NewConfigBuilder().WithUIDRoot("9999").Build()
	require.NoError(t, err)

	require.NoError(t, Walk(file, conf))

	assert.Equal(t, "", getString(t, ds, tag.PatientName))
	assert.Len(t, getString(t, ds, tag.PatientID), defaultHashLength)
	assert.Regexp(t, regexp.MustCompile(`^9999\.`), getString(t, ds, tag.SOPInstanceUID))

	shift := digestDays([]byte("ABC123"))
	wantDate := mustShiftedDate(t, "20200115", shift)
	assert.Equal(t, wantDate, getString(t, ds, tag.StudyDate))
}

// TestWalkS2ExplicitKeepOverridesPrivateRemoval covers scenario S2.
func TestWalkS2ExplicitKeepOverridesPrivateRemoval(t *testing.T) {
	kept := tag.New(0x0033, 0x1010)
	removed := tag.New(0x0033, 0x1020)

	ds := dicom.NewDataSet()
	addString(t, ds, kept, vr.ShortString, "X")
	addString(t, ds, removed, vr.ShortString, "Y")
	addString(t, ds, tag.PatientID, vr.LongString, "ABC123")

	file := &dicom.File{Dataset: ds}
	conf, err := NewConfigBuilder().
		WithRemovePrivateTags(true).
		WithKeep(kept).
		Build()
	require.NoError(t, err)

	require.NoError(t, Walk(file, conf))

	assert.True(t, ds.Contains(kept))
	assert.Equal(t, "X", getString(t, ds, kept))
	assert.False(t, ds.Contains(removed))
}

// TestWalkS3HashDateWithoutPatientIDFails covers scenario S3.
func TestWalkS3HashDateWithoutPatientIDFails(t *testing.T) {
	ds := dicom.NewDataSet()
	addString(t, ds, tag.StudyDate, vr.Date, "20200115")

	file := &dicom.File{Dataset: ds}
	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)

	err = Walk(file, conf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingReferenceTag)
}

// TestWalkS4ReplaceOnIncompatibleVRFails covers scenario S4.
func TestWalkS4ReplaceOnIncompatibleVRFails(t *testing.T) {
	ds := dicom.NewDataSet()
	val, err := value.NewBytesValue(vr.OtherByte, []byte{0x01, 0x02})
	require.NoError(t, err)
	elem, err := element.NewElement(tag.PixelData, vr.OtherByte, val)
	require.NoError(t, err)
	require.NoError(t, ds.Add(elem))

	file := &dicom.File{Dataset: ds}
	conf, err := NewConfigBuilder().
		WithTagAction(tag.PixelData, Replace("X")).
		Build()
	require.NoError(t, err)

	err = Walk(file, conf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompatibleVR)
}

// TestWalkS5SequenceRecursion covers scenario S5: the default profile's
// rule for PatientName applies at any nesting depth.
func TestWalkS5SequenceRecursion(t *testing.T) {
	item := dicom.NewDataSet()
	addString(t, item, tag.PatientName, vr.PersonName, "NESTED")

	seqVal := dicom.NewSequenceValue([]*dicom.DataSet{item}, false)
	seqTag := tag.New(0x0040, 0x0275)
	seqElem, err := element.NewElement(seqTag, vr.SequenceOfItems, seqVal)
	require.NoError(t, err)

	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(seqElem))
	addString(t, ds, tag.PatientID, vr.LongString, "ABC123")

	file := &dicom.File{Dataset: ds}
	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)

	require.NoError(t, Walk(file, conf))

	gotElem, err := ds.Get(seqTag)
	require.NoError(t, err)
	seq, ok := gotElem.Value().(*dicom.SequenceValue)
	require.True(t, ok)
	require.Len(t, seq.Items(), 1)
	assert.Equal(t, "", getString(t, seq.Items()[0], tag.PatientName))
}

// TestWalkS6MetaReconciliation covers scenario S6: Media Storage SOP
// Instance UID tracks the re-minted SOP Instance UID.
func TestWalkS6MetaReconciliation(t *testing.T) {
	meta := dicom.NewDataSet()
	addString(t, meta, tag.MediaStorageSOPInstanceUID, vr.UniqueIdentifier, "1.2.3")

	ds := dicom.NewDataSet()
	addString(t, ds, tag.SOPInstanceUID, vr.UniqueIdentifier, "1.2.3")
	addString(t, ds, tag.PatientID, vr.LongString, "ABC123")

	file := &dicom.File{Meta: meta, Dataset: ds}
	conf, err := NewConfigBuilder().WithUIDRoot("9999").Build()
	require.NoError(t, err)

	require.NoError(t, Walk(file, conf))

	newSOPUID := getString(t, ds, tag.SOPInstanceUID)
	newMetaUID := getString(t, meta, tag.MediaStorageSOPInstanceUID)
	assert.Regexp(t, regexp.MustCompile(`^9999\.`), newSOPUID)
	assert.Equal(t, newSOPUID, newMetaUID)
}

func TestWalkGroupLengthRemoved(t *testing.T) {
	ds := dicom.NewDataSet()
	val, err := value.NewIntValue(vr.UnsignedLong, []int64{100})
	require.NoError(t, err)
	groupLength := tag.New(0x0008, 0x0000)
	elem, err := element.NewElement(groupLength, vr.UnsignedLong, val)
	require.NoError(t, err)
	require.NoError(t, ds.Add(elem))
	addString(t, ds, tag.PatientID, vr.LongString, "ABC123")

	file := &dicom.File{Dataset: ds}
	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)

	require.NoError(t, Walk(file, conf))
	assert.False(t, ds.Contains(groupLength))
}

func TestWalkDeterministic(t *testing.T) {
	// Invariant 1: repeated runs over the same input/config produce the
	// same output.
	build := func() *dicom.DataSet {
		ds := dicom.NewDataSet()
		addString(t, ds, tag.PatientName, vr.PersonName, "DOE^JOHN")
		addString(t, ds, tag.PatientID, vr.LongString, "ABC123")
		addString(t, ds, tag.StudyDate, vr.Date, "20200115")
		addString(t, ds, tag.SOPInstanceUID, vr.UniqueIdentifier, "1.2.3.4.5")
		return ds
	}

	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)

	dsA := build()
	require.NoError(t, Walk(&dicom.File{Dataset: dsA}, conf))
	dsB := build()
	require.NoError(t, Walk(&dicom.File{Dataset: dsB}, conf))

	assert.Equal(t, getString(t, dsA, tag.PatientID), getString(t, dsB, tag.PatientID))
	assert.Equal(t, getString(t, dsA, tag.StudyDate), getString(t, dsB, tag.StudyDate))
	assert.Equal(t, getString(t, dsA, tag.SOPInstanceUID), getString(t, dsB, tag.SOPInstanceUID))
}

func mustShiftedDate(t *testing.T, original string, shiftDays int) string {
	t.Helper()
	d, err := time.Parse("20060102", original)
	require.NoError(t, err)
	return d.AddDate(0, 0, shiftDays).Format("20060102")
}
