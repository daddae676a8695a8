package anonymize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

func mustElement(t *testing.T, tg tag.Tag, v vr.VR, s string) *element.Element {
	t.Helper()
	val, err := value.NewStringValue(v, []string{s})
	require.NoError(t, err)
	elem, err := element.NewElement(tg, v, val)
	require.NoError(t, err)
	return elem
}

func newTestContext(t *testing.T, patientID string) *Context {
	t.Helper()
	conf, err := NewConfigBuilder().Build()
	require.NoError(t, err)
	var id []byte
	if patientID != "" {
		id = []byte(patientID)
	}
	return NewContext(conf, id)
}

func TestApplyKeepAndNone(t *testing.T) {
	elem := mustElement(t, tag.PatientName, vr.PersonName, "DOE^JOHN")
	ctx := newTestContext(t, "ABC123")

	decision, err := Apply(Keep(), elem, ctx)
	require.NoError(t, err)
	assert.True(t, decision.Unchanged)

	decision, err = Apply(None(), elem, ctx)
	require.NoError(t, err)
	assert.True(t, decision.Unchanged)
}

func TestApplyRemove(t *testing.T) {
	elem := mustElement(t, tag.PatientName, vr.PersonName, "DOE^JOHN")
	ctx := newTestContext(t, "ABC123")

	decision, err := Apply(Remove(), elem, ctx)
	require.NoError(t, err)
	assert.True(t, decision.Delete)
}

func TestApplyEmpty(t *testing.T) {
	elem := mustElement(t, tag.PatientName, vr.PersonName, "DOE^JOHN")
	ctx := newTestContext(t, "ABC123")

	decision, err := Apply(Empty(), elem, ctx)
	require.NoError(t, err)
	require.NotNil(t, decision.Replacement)
	assert.Equal(t, "", decision.Replacement.Value().String())
	assert.Equal(t, tag.PatientName, decision.Replacement.Tag())
	assert.Equal(t, vr.PersonName, decision.Replacement.VR())
}

func TestApplyReplace(t *testing.T) {
	elem := mustElement(t, tag.StudyID, vr.ShortString, "S1")
	ctx := newTestContext(t, "ABC123")

	decision, err := Apply(Replace("REDACTED"), elem, ctx)
	require.NoError(t, err)
	require.NotNil(t, decision.Replacement)
	assert.Equal(t, "REDACTED", decision.Replacement.Value().String())
}

func TestApplyReplaceIncompatibleVR(t *testing.T) {
	// S4: Replace on PixelData (OB) must fail as IncompatibleVR.
	val, err := value.NewBytesValue(vr.OtherByte, []byte{0x01, 0x02})
	require.NoError(t, err)
	elem, err := element.NewElement(tag.PixelData, vr.OtherByte, val)
	require.NoError(t, err)
	ctx := newTestContext(t, "ABC123")

	_, err = Apply(Replace("X"), elem, ctx)
	require.Error(t, err)
	var vrErr *IncompatibleVRError
	require.True(t, errors.As(err, &vrErr))
	assert.True(t, errors.Is(err, ErrIncompatibleVR))
}

func TestApplyHashDefaultLength(t *testing.T) {
	elem := mustElement(t, tag.PatientID, vr.LongString, "ABC123")
	ctx := newTestContext(t, "ABC123")

	decision, err := Apply(Hash(nil), elem, ctx)
	require.NoError(t, err)
	require.NotNil(t, decision.Replacement)
	digest := decision.Replacement.Value().String()
	assert.Len(t, digest, defaultHashLength)
	assert.Regexp(t, "^[0-9a-f]+$", digest)
}

func TestApplyHashCustomLength(t *testing.T) {
	elem := mustElement(t, tag.PatientID, vr.LongString, "ABC123")
	ctx := newTestContext(t, "ABC123")

	length := 32
	decision, err := Apply(Hash(&length), elem, ctx)
	require.NoError(t, err)
	assert.Len(t, decision.Replacement.Value().String(), 32)
}

func TestApplyHashIncompatibleVR(t *testing.T) {
	val, err := value.NewBytesValue(vr.OtherByte, []byte{0x01})
	require.NoError(t, err)
	elem, err := element.NewElement(tag.PixelData, vr.OtherByte, val)
	require.NoError(t, err)
	ctx := newTestContext(t, "ABC123")

	_, err = Apply(Hash(nil), elem, ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompatibleVR))
}

func TestApplyHashDateShift(t *testing.T) {
	elem := mustElement(t, tag.StudyDate, vr.Date, "20200115")
	ctx := newTestContext(t, "ABC123")

	decision, err := Apply(HashDate(), elem, ctx)
	require.NoError(t, err)

	shift := digestDays([]byte("ABC123"))
	require.NotNil(t, decision.Replacement)
	shifted := decision.Replacement.Value().String()
	assert.Len(t, shifted, 8)
	assert.NotEqual(t, "20200115", shifted)

	// Apply HashDate again with the same context: every HashDate call in a
	// run uses the same shift, so the result repeats (invariant 5).
	decision2, err := Apply(HashDate(), elem, ctx)
	require.NoError(t, err)
	assert.Equal(t, shifted, decision2.Replacement.Value().String())
	_ = shift
}

func TestApplyHashDateMissingPatientID(t *testing.T) {
	// S3: HashDate without PatientID fails with MissingReferenceTag.
	elem := mustElement(t, tag.StudyDate, vr.Date, "20200115")
	ctx := newTestContext(t, "")

	_, err := Apply(HashDate(), elem, ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingReferenceTag))
}

func TestApplyHashDateInvalidValue(t *testing.T) {
	elem := mustElement(t, tag.StudyDate, vr.Date, "not-a-date")
	ctx := newTestContext(t, "ABC123")

	_, err := Apply(HashDate(), elem, ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDateValue))
}

func TestApplyHashDateIncompatibleVR(t *testing.T) {
	elem := mustElement(t, tag.PatientName, vr.PersonName, "DOE^JOHN")
	ctx := newTestContext(t, "ABC123")

	_, err := Apply(HashDate(), elem, ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompatibleVR))
}

func TestApplyHashUID(t *testing.T) {
	// S1/S6: HashUID output starts with uid_root + "." and stays <= 64 chars.
	elem := mustElement(t, tag.SOPInstanceUID, vr.UniqueIdentifier, "1.2.3.4.5")
	ctx := newTestContext(t, "ABC123")

	decision, err := Apply(HashUID(), elem, ctx)
	require.NoError(t, err)
	newUID := decision.Replacement.Value().String()
	assert.True(t, len(newUID) <= 64)
	assert.Regexp(t, `^9999\.\d+$`, newUID)
}

func TestApplyHashUIDIncompatibleVR(t *testing.T) {
	elem := mustElement(t, tag.PatientName, vr.PersonName, "DOE^JOHN")
	ctx := newTestContext(t, "ABC123")

	_, err := Apply(HashUID(), elem, ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompatibleVR))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "remove", Remove().String())
	assert.Equal(t, "keep", Keep().String())
	assert.Equal(t, "none", None().String())
	assert.Equal(t, "empty", Empty().String())
	assert.Equal(t, "hash_date", HashDate().String())
	assert.Equal(t, "hash_uid", HashUID().String())
	assert.Equal(t, `replace("X")`, Replace("X").String())
	assert.Equal(t, "hash", Hash(nil).String())
	length := 24
	assert.Equal(t, "hash(length=24)", Hash(&length).String())
}
