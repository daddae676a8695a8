// Package anonymize de-identifies a parsed DICOM file according to a
// policy built from a fixed eight-action vocabulary: Empty, Remove, Keep,
// None, Replace, Hash, HashDate, HashUID.
//
// A Config resolves every (tag, VR) pair to exactly one action through a
// fixed order: an explicit per-tag override, then group-length stripping,
// then the private/curve/overlay bulk policies, then the built-in default
// profile, and finally Keep if nothing else matches. The resolver is pure
// data (defaultProfile is a map, not a chain of branches), so the same
// logic drives both the programmatic API and the JSON config loaded by the
// CLI.
//
// Anonymize walks the main dataset in ascending tag order, recursing into
// sequence items at any depth, and reconciles the file meta information
// against the result. A run-scoped Context carries the one piece of
// cross-element state the action set needs: the patient-hash date shift,
// derived once from PatientID before any element is mutated.
package anonymize
