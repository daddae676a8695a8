package anonymize

import (
	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// Walk applies config to file's main dataset in place, then reconciles the
// file meta information against the result.
//
// PatientID is pre-scanned from the dataset before any element is touched,
// so the patient-hash shift HashDate relies on is stable even when the
// resolved policy removes or overwrites PatientID itself.
func Walk(file *dicom.File, config *Config) error {
	patientID := preScanPatientID(file.Dataset)
	ctx := NewContext(config, patientID)

	if err := walkDataset(file.Dataset, ctx); err != nil {
		return err
	}

	return reconcileFileMeta(file)
}

// preScanPatientID returns the raw bytes of (0010,0020) as found in ds, or
// nil if the tag is absent or empty. Must run before ds is walked.
func preScanPatientID(ds *dicom.DataSet) []byte {
	elem, err := ds.Get(tag.PatientID)
	if err != nil {
		return nil
	}
	b := elem.Value().Bytes()
	if len(b) == 0 {
		return nil
	}
	return b
}

// walkDataset resolves and applies an action to every element of ds, in
// ascending tag order, recursing into sequence items before moving to the
// next top-level element.
func walkDataset(ds *dicom.DataSet, ctx *Context) error {
	return ds.WalkModify(func(elem *element.Element) (bool, error) {
		if elem.VR().IsSequence() {
			return walkSequence(elem, ctx)
		}
		return dispatch(elem, ctx)
	})
}

// walkSequence resolves the action for a SQ element itself, then - unless
// it was deleted outright - recurses into every item dataset so attributes
// nested at any depth are still subject to their own per-tag rules.
func walkSequence(elem *element.Element, ctx *Context) (bool, error) {
	decision, err := Process(elem, ctx)
	if err != nil {
		return false, err
	}
	if decision.Delete {
		return false, dicom.ErrRemoveElement
	}

	if seq, ok := elem.Value().(*dicom.SequenceValue); ok {
		for _, item := range seq.Items() {
			if err := walkDataset(item, ctx); err != nil {
				return false, err
			}
		}
	}

	if decision.Replacement != nil {
		if err := elem.SetValue(decision.Replacement.Value()); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// dispatch resolves and applies the action for a non-sequence element.
func dispatch(elem *element.Element, ctx *Context) (bool, error) {
	decision, err := Process(elem, ctx)
	if err != nil {
		return false, err
	}
	if decision.Delete {
		return false, dicom.ErrRemoveElement
	}
	if decision.Replacement != nil {
		if err := elem.SetValue(decision.Replacement.Value()); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// reconcileFileMeta mirrors a changed SOP Instance UID into Media Storage
// SOP Instance UID (0002,0003). Media Storage SOP Class UID (0002,0002)
// and the implementation identifiers (0002,0012)/(0002,0013) are left
// untouched here; the writer regenerates them.
func reconcileFileMeta(file *dicom.File) error {
	if file.Meta == nil {
		return nil
	}
	sopElem, err := file.Dataset.Get(tag.SOPInstanceUID)
	if err != nil {
		return nil
	}
	newUID := sopElem.Value().String()

	if metaElem, err := file.Meta.Get(tag.MediaStorageSOPInstanceUID); err == nil {
		if metaElem.Value().String() == newUID {
			return nil
		}
	}

	val, err := value.NewStringValue(vr.UniqueIdentifier, []string{newUID})
	if err != nil {
		return err
	}
	newElem, err := element.NewElement(tag.MediaStorageSOPInstanceUID, vr.UniqueIdentifier, val)
	if err != nil {
		return err
	}
	return file.Meta.Add(newElem)
}
