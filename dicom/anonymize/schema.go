package anonymize

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/codeninja55/go-radx/dicom/tag"
)

const (
	jsonActionEmpty    = "empty"
	jsonActionRemove   = "remove"
	jsonActionKeep     = "keep"
	jsonActionNone     = "none"
	jsonActionReplace  = "replace"
	jsonActionHash     = "hash"
	jsonActionHashDate = "hash_date"
	jsonActionHashUID  = "hash_uid"
)

var actionKindNames = map[Kind]string{
	KindEmpty:    jsonActionEmpty,
	KindRemove:   jsonActionRemove,
	KindKeep:     jsonActionKeep,
	KindNone:     jsonActionNone,
	KindReplace:  jsonActionReplace,
	KindHash:     jsonActionHash,
	KindHashDate: jsonActionHashDate,
	KindHashUID:  jsonActionHashUID,
}

var actionNameKinds = func() map[string]Kind {
	out := make(map[string]Kind, len(actionKindNames))
	for k, n := range actionKindNames {
		out[n] = k
	}
	return out
}()

// MarshalJSON renders a no-payload action as a bare string (e.g. "remove"),
// and Replace/Hash as an object carrying their payload.
func (a Action) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case KindReplace:
		return json.Marshal(struct {
			Action string `json:"action"`
			Value  string `json:"value"`
		}{jsonActionReplace, a.Value})
	case KindHash:
		if a.HashLength == nil {
			return json.Marshal(struct {
				Action string `json:"action"`
			}{jsonActionHash})
		}
		return json.Marshal(struct {
			Action string `json:"action"`
			Length int    `json:"length"`
		}{jsonActionHash, *a.HashLength})
	default:
		name, ok := actionKindNames[a.Kind]
		if !ok {
			return nil, fmt.Errorf("anonymize: unknown action kind %d", a.Kind)
		}
		return json.Marshal(name)
	}
}

// UnmarshalJSON accepts either the bare-string form for no-payload actions
// or the {"action": "...", ...} object form for any action, so a
// hand-written config file doesn't have to use the object form for Keep,
// Remove, None, HashDate, or HashUID.
func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		kind, ok := actionNameKinds[name]
		if !ok {
			return fmt.Errorf("%w: unknown action %q", ErrConfigInvalid, name)
		}
		if kind == KindReplace {
			return fmt.Errorf("%w: action %q requires a \"value\" field", ErrConfigInvalid, name)
		}
		*a = Action{Kind: kind}
		return nil
	}

	var obj struct {
		Action string `json:"action"`
		Value  *string `json:"value"`
		Length *int    `json:"length"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	kind, ok := actionNameKinds[obj.Action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrConfigInvalid, obj.Action)
	}

	switch kind {
	case KindReplace:
		if obj.Value == nil {
			return fmt.Errorf("%w: replace action requires a \"value\" field", ErrConfigInvalid)
		}
		*a = Action{Kind: KindReplace, Value: *obj.Value}
	case KindHash:
		if err := validateHashLength(obj.Length); err != nil {
			return err
		}
		*a = Action{Kind: KindHash, HashLength: obj.Length}
	default:
		*a = Action{Kind: kind}
	}
	return nil
}

// configDoc is the wire shape of a config file. Pointer booleans
// distinguish an absent field (fall back to the builder's default of true)
// from an explicit false.
type configDoc struct {
	UIDRoot           string              `json:"uid_root" validate:"omitempty,max=24"`
	RemovePrivateTags *bool               `json:"remove_private_tags,omitempty"`
	RemoveCurves      *bool               `json:"remove_curves,omitempty"`
	RemoveOverlays    *bool               `json:"remove_overlays,omitempty"`
	TagActions        map[tag.Tag]Action  `json:"tag_actions,omitempty"`
}

var configValidator = validator.New()

// LoadConfig decodes a JSON document per the wire schema above into a
// frozen Config. Unknown top-level fields are rejected so a typo in a
// hand-written config file fails loudly instead of being silently ignored.
func LoadConfig(r io.Reader) (*Config, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc configDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if err := configValidator.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	b := NewConfigBuilder()
	if doc.UIDRoot != "" {
		b.WithUIDRoot(doc.UIDRoot)
	}
	if doc.RemovePrivateTags != nil {
		b.WithRemovePrivateTags(*doc.RemovePrivateTags)
	}
	if doc.RemoveCurves != nil {
		b.WithRemoveCurves(*doc.RemoveCurves)
	}
	if doc.RemoveOverlays != nil {
		b.WithRemoveOverlays(*doc.RemoveOverlays)
	}
	for t, a := range doc.TagActions {
		b.WithTagAction(t, a)
	}
	return b.Build()
}

// SaveConfig writes c as JSON to w. When diffOnly is true, tag_actions
// holds only c's explicit overrides (the shape LoadConfig round-trips
// exactly); otherwise it holds the full effective table, default profile
// merged with overrides, the shape `config create` emits for a reviewer to
// read without cross-referencing the built-in defaults.
func SaveConfig(w io.Writer, c *Config, diffOnly bool) error {
	tagActions := c.TagActions
	if !diffOnly {
		tagActions = c.EffectiveTagActions()
	}

	doc := configDoc{
		UIDRoot:           c.UIDRoot,
		RemovePrivateTags: &c.RemovePrivateTags,
		RemoveCurves:      &c.RemoveCurves,
		RemoveOverlays:    &c.RemoveOverlays,
		TagActions:        tagActions,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
