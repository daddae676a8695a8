package anonymize

import (
	"fmt"
	"strings"

	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// defaultUIDRoot is used when a Config is built without an explicit
// uid_root.
const defaultUIDRoot = "9999"

// maxUIDRootLength bounds uid_root per DICOM UID length rules, leaving room
// for the digest suffix HashUID appends.
const maxUIDRootLength = 24

// Config is the frozen, immutable rule set a Context resolves actions
// against. It is safe to share by reference across concurrent Anonymize
// calls: nothing in it is mutated after Build returns.
type Config struct {
	// UIDRoot prefixes every HashUID output.
	UIDRoot string

	// RemovePrivateTags, when true, removes every odd-group tag not
	// explicitly overridden.
	RemovePrivateTags bool

	// RemoveCurves, when true, removes every tag in the curve repeating
	// group (0x5000-0x50FF) not explicitly overridden.
	RemoveCurves bool

	// RemoveOverlays, when true, removes every tag in the overlay
	// repeating group (0x6000-0x60FF) not explicitly overridden.
	RemoveOverlays bool

	// TagActions holds explicit per-tag overrides. These win over the
	// bulk policies above and over the built-in default profile.
	TagActions map[tag.Tag]Action
}

// ConfigBuilder constructs a Config. Obtain one from NewConfigBuilder; the
// zero value has no override map, so WithTagAction and WithKeep panic on it.
// Call Build to validate and freeze it.
type ConfigBuilder struct {
	uidRoot           string
	removePrivateTags bool
	removeCurves      bool
	removeOverlays    bool
	tagActions        map[tag.Tag]Action
}

// NewConfigBuilder returns a builder seeded with the project defaults:
// uid_root "9999" and all three bulk-removal policies enabled.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		uidRoot:           defaultUIDRoot,
		removePrivateTags: true,
		removeCurves:      true,
		removeOverlays:    true,
		tagActions:        make(map[tag.Tag]Action),
	}
}

// WithUIDRoot overrides the uid_root.
func (b *ConfigBuilder) WithUIDRoot(root string) *ConfigBuilder {
	b.uidRoot = root
	return b
}

// WithRemovePrivateTags overrides the private-tag bulk policy.
func (b *ConfigBuilder) WithRemovePrivateTags(v bool) *ConfigBuilder {
	b.removePrivateTags = v
	return b
}

// WithRemoveCurves overrides the curve bulk policy.
func (b *ConfigBuilder) WithRemoveCurves(v bool) *ConfigBuilder {
	b.removeCurves = v
	return b
}

// WithRemoveOverlays overrides the overlay bulk policy.
func (b *ConfigBuilder) WithRemoveOverlays(v bool) *ConfigBuilder {
	b.removeOverlays = v
	return b
}

// WithTagAction sets an explicit per-tag override, replacing any existing
// override (or default-profile entry) for that tag.
func (b *ConfigBuilder) WithTagAction(t tag.Tag, a Action) *ConfigBuilder {
	b.tagActions[t] = a
	return b
}

// WithKeep is a convenience for WithTagAction(t, Keep()), the shape the CLI's
// --keep flag needs for each listed tag.
func (b *ConfigBuilder) WithKeep(tags ...tag.Tag) *ConfigBuilder {
	for _, t := range tags {
		b.tagActions[t] = Keep()
	}
	return b
}

// Build validates the accumulated fields and freezes a Config.
func (b *ConfigBuilder) Build() (*Config, error) {
	root := b.uidRoot
	if root == "" {
		root = defaultUIDRoot
	}
	if err := ValidateUIDRoot(root); err != nil {
		return nil, err
	}

	for t, a := range b.tagActions {
		if err := validateAction(a); err != nil {
			return nil, fmt.Errorf("%w: tag %s: %v", ErrConfigInvalid, t, err)
		}
	}

	frozen := make(map[tag.Tag]Action, len(b.tagActions))
	for t, a := range b.tagActions {
		frozen[t] = a
	}

	return &Config{
		UIDRoot:           root,
		RemovePrivateTags: b.removePrivateTags,
		RemoveCurves:      b.removeCurves,
		RemoveOverlays:    b.removeOverlays,
		TagActions:        frozen,
	}, nil
}

// ValidateUIDRoot checks uid_root per spec: non-empty, each dot-separated
// segment is "0" or begins with a non-zero digit, total length <= 24.
func ValidateUIDRoot(root string) error {
	if root == "" {
		return fmt.Errorf("%w: uid_root must not be empty", ErrConfigInvalid)
	}
	if len(root) > maxUIDRootLength {
		return fmt.Errorf("%w: uid_root %q exceeds %d characters", ErrConfigInvalid, root, maxUIDRootLength)
	}
	for _, segment := range strings.Split(root, ".") {
		if segment == "" {
			return fmt.Errorf("%w: uid_root %q has an empty segment", ErrConfigInvalid, root)
		}
		if segment == "0" {
			continue
		}
		if segment[0] == '0' {
			return fmt.Errorf("%w: uid_root %q segment %q has a leading zero", ErrConfigInvalid, root, segment)
		}
		for _, ch := range segment {
			if ch < '0' || ch > '9' {
				return fmt.Errorf("%w: uid_root %q segment %q is not numeric", ErrConfigInvalid, root, segment)
			}
		}
	}
	return nil
}

// validateAction checks the invariants a serialized Action must satisfy
// independent of any element it will later be applied to (hash length
// bound; nothing else in the Action shape is checkable until Apply sees
// the element's VR).
func validateAction(a Action) error {
	if a.Kind == KindHash {
		return validateHashLength(a.HashLength)
	}
	return nil
}

// Resolve implements the seven-step resolution order from the spec: the
// first matching rule wins.
func (c *Config) Resolve(t tag.Tag, v vr.VR) Action {
	if a, ok := c.TagActions[t]; ok {
		return a
	}
	if t.IsGroupLength() {
		return Remove()
	}
	if c.RemovePrivateTags && t.IsPrivate() {
		return Remove()
	}
	if c.RemoveCurves && t.IsCurve() {
		return Remove()
	}
	if c.RemoveOverlays && t.IsOverlay() {
		return Remove()
	}
	if a, ok := defaultProfile[t]; ok {
		return a
	}
	return Keep()
}

// EffectiveTagActions merges the built-in default profile with this
// config's explicit overrides, the shape `config create` emits without
// --diff-only.
func (c *Config) EffectiveTagActions() map[tag.Tag]Action {
	merged := DefaultProfile()
	for t, a := range c.TagActions {
		merged[t] = a
	}
	return merged
}
