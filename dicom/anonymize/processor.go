package anonymize

import "github.com/codeninja55/go-radx/dicom/element"

// Process resolves the action for elem's tag and VR against ctx's config,
// runs it, and returns the Decision. Action errors are wrapped with the
// element's (tag, VR) as a ProcessingError.
//
// Process does not descend into sequences; a SQ-valued element is resolved
// and dispatched exactly like any other element (typically Keep, since the
// default profile assigns Keep to sequence container tags it cares about,
// and an unresolved tag falls through to Keep by default). Recursing into
// the nested item datasets is the walker's job.
func Process(elem *element.Element, ctx *Context) (Decision, error) {
	action := ctx.config.Resolve(elem.Tag(), elem.VR())

	decision, err := Apply(action, elem, ctx)
	if err != nil {
		return Decision{}, newProcessingError(elem.Tag(), elem.VR(), err)
	}
	return decision, nil
}
