package anonymize

import (
	"errors"
	"fmt"

	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// ErrConfigInvalid indicates a Config or its JSON encoding violates a field
// constraint: a malformed uid_root, an unrecognised action name, or an
// out-of-range hash length.
var ErrConfigInvalid = errors.New("anonymize: invalid configuration")

// ErrIncompatibleVR indicates an action was resolved for an element whose VR
// it does not support (e.g. Replace on PixelData, HashDate on a PN element).
var ErrIncompatibleVR = errors.New("anonymize: action incompatible with VR")

// ErrInvalidDateValue indicates HashDate was applied to a value that is not
// a well-formed YYYYMMDD date.
var ErrInvalidDateValue = errors.New("anonymize: value is not a valid YYYYMMDD date")

// ErrMissingReferenceTag indicates HashDate could not find a non-empty
// PatientID (0010,0020) in the main dataset to derive the date shift from.
var ErrMissingReferenceTag = errors.New("anonymize: PatientID required for HashDate is missing or empty")

// IncompatibleVRError wraps ErrIncompatibleVR with the offending tag and VR.
type IncompatibleVRError struct {
	Tag    tag.Tag
	VR     vr.VR
	Action string
}

func (e *IncompatibleVRError) Error() string {
	return fmt.Sprintf("anonymize: %s %s: action %q is not valid for VR %s", e.Tag, e.VR, e.Action, e.VR)
}

func (e *IncompatibleVRError) Unwrap() error { return ErrIncompatibleVR }

// ProcessingError adds (tag, VR) context to an error raised while an action
// was applied to a specific element. It is the only error shape the element
// processor returns for action failures.
type ProcessingError struct {
	Tag   tag.Tag
	VR    vr.VR
	Cause error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("anonymize: processing %s (%s): %v", e.Tag, e.VR, e.Cause)
}

func (e *ProcessingError) Unwrap() error { return e.Cause }

// newProcessingError wraps cause with the element's tag and VR, unless cause
// is already nil.
func newProcessingError(t tag.Tag, v vr.VR, cause error) error {
	if cause == nil {
		return nil
	}
	return &ProcessingError{Tag: t, VR: v, Cause: cause}
}
