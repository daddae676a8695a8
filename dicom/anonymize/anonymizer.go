package anonymize

import (
	"fmt"
	"io"

	"github.com/codeninja55/go-radx/dicom"
)

// Anonymizer runs a fixed Config against parsed DICOM files. It holds no
// mutable state and is safe to share across goroutines: each Anonymize
// call builds its own Context from the file it is given.
type Anonymizer struct {
	config *Config
}

// New builds an Anonymizer from an already-validated Config.
func New(config *Config) (*Anonymizer, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	return &Anonymizer{config: config}, nil
}

// Default builds an Anonymizer with the project's built-in policy: uid_root
// "9999", all three bulk-removal policies enabled, no overrides.
func Default() *Anonymizer {
	config, err := NewConfigBuilder().Build()
	if err != nil {
		// NewConfigBuilder's seeded defaults always validate; a failure
		// here means the defaults themselves are broken.
		panic(fmt.Sprintf("anonymize: default config failed to build: %v", err))
	}
	return &Anonymizer{config: config}
}

// Artifact is the result of anonymizing one DICOM file: the file meta
// information and main dataset, ready to be serialized.
type Artifact struct {
	file *dicom.File
}

// Dataset returns the anonymized main dataset.
func (a *Artifact) Dataset() *dicom.DataSet {
	return a.file.Dataset
}

// Meta returns the reconciled file meta information.
func (a *Artifact) Meta() *dicom.DataSet {
	return a.file.Meta
}

// Write serializes the artifact in Part 10 format to w.
func (a *Artifact) Write(w io.Writer) error {
	return dicom.WriteWriter(w, a.file, dicom.WriteOptions{})
}

// Anonymize parses r as a DICOM Part 10 stream and applies the anonymizer's
// config to it, returning the result as an Artifact.
//
// Parse failures are returned wrapped with an "anonymize: read:" prefix
// (the codec's error stays reachable through errors.Is/As); everything after a successful parse goes through Walk, whose
// errors are the taxonomy defined in errors.go.
func (a *Anonymizer) Anonymize(r io.Reader) (*Artifact, error) {
	file, err := dicom.ParseReader(r)
	if err != nil {
		return nil, fmt.Errorf("anonymize: read: %w", err)
	}

	if err := Walk(file, a.config); err != nil {
		return nil, err
	}

	return &Artifact{file: file}, nil
}
