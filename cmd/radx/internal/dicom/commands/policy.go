package commands

import (
	"fmt"

	"github.com/codeninja55/go-radx/dicom/anonymize"
	"github.com/codeninja55/go-radx/dicom/tag"
)

// buildConfig is the flag-to-Config path shared by AnonymizeCmd and
// ConfigCreateCmd: uid_root, the three bulk-removal policies, and a list of
// tags forced to Keep.
func buildConfig(uidRoot string, removePrivate, removeCurves, removeOverlays bool, keep []string) (*anonymize.Config, error) {
	builder := anonymize.NewConfigBuilder().
		WithUIDRoot(uidRoot).
		WithRemovePrivateTags(removePrivate).
		WithRemoveCurves(removeCurves).
		WithRemoveOverlays(removeOverlays)

	for _, raw := range keep {
		t, err := tag.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --keep tag %q: %w", raw, err)
		}
		builder.WithKeep(t)
	}

	return builder.Build()
}
