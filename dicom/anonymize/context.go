package anonymize

import "sync"

// Context is the small, run-scoped record the processor consults for any
// decision that needs more than the element in hand: the compiled policy,
// the effective uid_root, and the lazily-computed patient-hash date shift.
//
// A Context is created at the start of one Anonymize call and discarded at
// the end; it is never shared across runs.
type Context struct {
	config *Config

	// patientID is the raw bytes of (0010,0020) as found by the walker's
	// pre-scan, taken before any element is mutated. A nil slice means
	// PatientID was absent or empty in the input.
	patientID []byte

	shiftOnce sync.Once
	shift     int
	shiftErr  error
}

// NewContext builds a run context from a frozen config and the PatientID
// bytes pre-scanned from the main dataset. Pass nil when PatientID is
// absent or its value is empty.
func NewContext(config *Config, patientID []byte) *Context {
	return &Context{config: config, patientID: patientID}
}

// UIDRoot returns the effective uid_root for HashUID.
func (c *Context) UIDRoot() string {
	return c.config.UIDRoot
}

// PatientShiftDays returns the signed day offset every HashDate action in
// this run must apply, computed once from PatientID and memoised for the
// life of the context. Returns ErrMissingReferenceTag if PatientID was
// absent or empty.
func (c *Context) PatientShiftDays() (int, error) {
	c.shiftOnce.Do(func() {
		if len(c.patientID) == 0 {
			c.shiftErr = ErrMissingReferenceTag
			return
		}
		c.shift = digestDays(c.patientID)
	})
	return c.shift, c.shiftErr
}
