package dicom

import (
	"fmt"
	"strings"

	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// SequenceValue holds the nested item datasets of a Sequence of Items (SQ)
// element.
//
// SequenceValue lives in the dicom package rather than the value package
// because an item is itself a DataSet; defining it alongside DataSet avoids
// value needing to import dicom.
type SequenceValue struct {
	items []*DataSet

	// undefinedLength records whether the sequence was originally encoded
	// with length 0xFFFFFFFF (terminated by a Sequence Delimitation Item)
	// rather than an explicit byte length. The writer uses this to choose
	// the matching encoding on output.
	undefinedLength bool
}

var _ value.Value = (*SequenceValue)(nil)

// NewSequenceValue creates a SequenceValue from item datasets.
func NewSequenceValue(items []*DataSet, undefinedLength bool) *SequenceValue {
	if items == nil {
		items = []*DataSet{}
	}
	return &SequenceValue{items: items, undefinedLength: undefinedLength}
}

// Items returns the nested item datasets, in encoded order.
func (s *SequenceValue) Items() []*DataSet {
	return s.items
}

// UndefinedLength reports whether this sequence should be re-encoded with
// an undefined length and a Sequence Delimitation Item.
func (s *SequenceValue) UndefinedLength() bool {
	return s.undefinedLength
}

// VR always returns SequenceOfItems.
func (s *SequenceValue) VR() vr.VR {
	return vr.SequenceOfItems
}

// Bytes is not meaningful for sequences; their encoding is structural
// (item tags, lengths, and delimiters), not a flat byte payload. It
// returns nil.
func (s *SequenceValue) Bytes() []byte {
	return nil
}

// String returns a human-readable summary of the sequence.
func (s *SequenceValue) String() string {
	if len(s.items) == 0 {
		return "(Sequence with 0 items)"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "(Sequence with %d item(s))", len(s.items))
	return sb.String()
}

// Equals compares two sequences item by item, dataset contents included.
func (s *SequenceValue) Equals(other value.Value) bool {
	o, ok := other.(*SequenceValue)
	if !ok {
		return false
	}
	if len(s.items) != len(o.items) {
		return false
	}
	for i, item := range s.items {
		oi := o.items[i]
		if item.Len() != oi.Len() {
			return false
		}
		for _, t := range item.Tags() {
			a, err := item.Get(t)
			if err != nil {
				return false
			}
			b, err := oi.Get(t)
			if err != nil {
				return false
			}
			if !a.Value().Equals(b.Value()) {
				return false
			}
		}
	}
	return true
}
