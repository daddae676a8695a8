package anonymize

import (
	"fmt"

	"github.com/codeninja55/go-radx/dicom/datetime"
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// Kind identifies one of the eight closed action variants. The action set
// is exhaustively matched in Apply; adding a ninth kind means adding a new
// case there too.
type Kind int

const (
	// KindEmpty replaces the value with the zero-length value for the
	// element's VR, preserving tag and VR. Never deletes, never fails.
	KindEmpty Kind = iota
	// KindRemove deletes the element outright.
	KindRemove
	// KindKeep leaves the element untouched. Used to override a bulk
	// removal policy (private/curve/overlay) for one tag.
	KindKeep
	// KindNone is a synonym for KindKeep: it exists only so a serialized
	// config can explicitly cancel a default-profile entry without the
	// round trip losing the distinction between "keep" and "none".
	KindNone
	// KindReplace writes a literal string value, valid only on
	// string-like VRs.
	KindReplace
	// KindHash overwrites the value with a truncated hex digest of the
	// original bytes, valid only on string-like VRs.
	KindHash
	// KindHashDate shifts a date-valued element by the run's patient-hash
	// derived offset.
	KindHashDate
	// KindHashUID re-mints a UID element from the run's uid_root plus a
	// digest of the original UID.
	KindHashUID
)

// Action is the tagged union the resolver maps each tag to. Replace carries
// a literal value; Hash carries an optional length override. The other
// kinds carry no payload.
type Action struct {
	Kind Kind

	// Value holds the literal for KindReplace.
	Value string

	// HashLength holds the optional length for KindHash. nil selects
	// defaultHashLength.
	HashLength *int
}

func Empty() Action           { return Action{Kind: KindEmpty} }
func Remove() Action          { return Action{Kind: KindRemove} }
func Keep() Action            { return Action{Kind: KindKeep} }
func None() Action            { return Action{Kind: KindNone} }
func Replace(v string) Action { return Action{Kind: KindReplace, Value: v} }
func HashDate() Action        { return Action{Kind: KindHashDate} }
func HashUID() Action         { return Action{Kind: KindHashUID} }

// String renders the action for logs and CLI previews.
func (a Action) String() string {
	switch a.Kind {
	case KindReplace:
		return fmt.Sprintf("replace(%q)", a.Value)
	case KindHash:
		if a.HashLength != nil {
			return fmt.Sprintf("hash(length=%d)", *a.HashLength)
		}
		return "hash"
	default:
		if name, ok := actionKindNames[a.Kind]; ok {
			return name
		}
		return "unknown"
	}
}

// Hash builds a KindHash action. A nil length selects the 16-character
// default; a non-nil length must already have been validated against
// [8, 64] by the config builder or JSON decoder.
func Hash(length *int) Action {
	return Action{Kind: KindHash, HashLength: length}
}

// Decision is what an action (or the processor wrapping it) resolved an
// element to.
type Decision struct {
	// Unchanged is true when the element should be kept exactly as-is.
	Unchanged bool
	// Delete is true when the element should be removed from its dataset.
	Delete bool
	// Replacement holds the new element when neither Unchanged nor
	// Delete is set.
	Replacement *element.Element
}

func unchanged() (Decision, error)         { return Decision{Unchanged: true}, nil }
func deleted() (Decision, error)           { return Decision{Delete: true}, nil }
func replaced(e *element.Element) (Decision, error) { return Decision{Replacement: e}, nil }

// Apply runs action against elem using ctx for any cross-element state
// (patient hash, uid_root). It returns one of Unchanged, Delete, or a
// Replacement, or an error from the taxonomy in errors.go.
func Apply(action Action, elem *element.Element, ctx *Context) (Decision, error) {
	switch action.Kind {
	case KindKeep, KindNone:
		return unchanged()
	case KindRemove:
		return deleted()
	case KindEmpty:
		return applyEmpty(elem)
	case KindReplace:
		return applyReplace(elem, action.Value)
	case KindHash:
		return applyHash(elem, action.HashLength)
	case KindHashDate:
		return applyHashDate(elem, ctx)
	case KindHashUID:
		return applyHashUID(elem, ctx)
	default:
		return Decision{}, fmt.Errorf("anonymize: unknown action kind %d", action.Kind)
	}
}

// applyEmpty implements Empty: zero-length value, same tag and VR.
func applyEmpty(elem *element.Element) (Decision, error) {
	v := elem.VR()
	var newVal value.Value
	var err error

	switch {
	case v.IsStringType():
		newVal, err = value.NewStringValue(v, []string{})
	case v.IsNumericType():
		if isFloatVR(v) {
			newVal, err = value.NewFloatValue(v, []float64{})
		} else {
			newVal, err = value.NewIntValue(v, []int64{})
		}
	default:
		newVal, err = value.NewBytesValue(v, []byte{})
	}
	if err != nil {
		return Decision{}, err
	}

	newElem, err := element.NewElement(elem.Tag(), v, newVal)
	if err != nil {
		return Decision{}, err
	}
	return replaced(newElem)
}

func isFloatVR(v vr.VR) bool {
	return v == vr.FloatingPointSingle || v == vr.FloatingPointDouble
}

// applyReplace implements Replace{value}: only legal on string-like VRs.
func applyReplace(elem *element.Element, newValue string) (Decision, error) {
	v := elem.VR()
	if !v.IsStringType() {
		return Decision{}, &IncompatibleVRError{Tag: elem.Tag(), VR: v, Action: "replace"}
	}

	sv, err := value.NewStringValue(v, []string{newValue})
	if err != nil {
		return Decision{}, err
	}
	newElem, err := element.NewElement(elem.Tag(), v, sv)
	if err != nil {
		return Decision{}, err
	}
	return replaced(newElem)
}

// applyHash implements Hash{length}: only legal on string-like VRs. The
// entire serialized value (all components of a multi-valued element) is
// hashed once and the digest replaces all values.
func applyHash(elem *element.Element, length *int) (Decision, error) {
	v := elem.VR()
	if !v.IsStringType() {
		return Decision{}, &IncompatibleVRError{Tag: elem.Tag(), VR: v, Action: "hash"}
	}

	l := defaultHashLength
	if length != nil {
		l = *length
	}
	digestHex := hashString(elem.Value().Bytes(), l)

	sv, err := value.NewStringValue(v, []string{digestHex})
	if err != nil {
		return Decision{}, err
	}
	newElem, err := element.NewElement(elem.Tag(), v, sv)
	if err != nil {
		return Decision{}, err
	}
	return replaced(newElem)
}

// applyHashDate implements HashDate: only legal on date-valued VRs, and
// requires ctx's patient-hash shift to be resolvable.
func applyHashDate(elem *element.Element, ctx *Context) (Decision, error) {
	v := elem.VR()
	if !v.IsDateType() {
		return Decision{}, &IncompatibleVRError{Tag: elem.Tag(), VR: v, Action: "hash_date"}
	}

	shift, err := ctx.PatientShiftDays()
	if err != nil {
		return Decision{}, err
	}

	original := elem.Value().String()
	d, err := datetime.ParseDate(original)
	if err != nil || d.Precision != datetime.PrecisionDay {
		return Decision{}, ErrInvalidDateValue
	}

	shifted := d.Time.AddDate(0, 0, shift)
	sv, err := value.NewStringValue(v, []string{shifted.Format("20060102")})
	if err != nil {
		return Decision{}, err
	}
	newElem, err := element.NewElement(elem.Tag(), v, sv)
	if err != nil {
		return Decision{}, err
	}
	return replaced(newElem)
}

// applyHashUID implements HashUID: only legal on UI VR.
func applyHashUID(elem *element.Element, ctx *Context) (Decision, error) {
	v := elem.VR()
	if !v.IsUIDType() {
		return Decision{}, &IncompatibleVRError{Tag: elem.Tag(), VR: v, Action: "hash_uid"}
	}

	n := hashToBigInt(elem.Value().Bytes())
	newUID := ctx.UIDRoot() + "." + n.String()
	const maxUIDLength = 64
	if len(newUID) > maxUIDLength {
		newUID = newUID[:maxUIDLength]
	}

	sv, err := value.NewStringValue(v, []string{newUID})
	if err != nil {
		return Decision{}, err
	}
	newElem, err := element.NewElement(elem.Tag(), v, sv)
	if err != nil {
		return Decision{}, err
	}
	return replaced(newElem)
}
