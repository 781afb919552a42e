// Package annotate renders inferred schemas as apidoc annotation blocks
// embedded in generated stubs. The tag vocabulary and block layout are the
// contract with the downstream apidoc parser and must stay byte-stable for
// the same input schema.
package annotate

import "github.com/yourorg/adfmt/internal/schema"

const (
	tagDeclare     = "@api"
	tagDescription = "@apiDescription"
	tagGroup       = "@apiGroup"
	tagPermission  = "@apiPermission"
	tagHeader      = "@apiHeader"
	tagParam       = "@apiParam"
	tagSuccess     = "@apiSuccess"
	tagError       = "@apiError"
)

// DefaultPlaceholder is used as the field description when the mapping has
// no entry for a path.
const DefaultPlaceholder = "ready to fill in"

// DisplayName maps a type tag into apidoc's type vocabulary. The mapping is
// total: tags without a dedicated display name (Null, Unknown) render the
// generic Object token instead of failing.
func DisplayName(t schema.TypeTag) string {
	switch t.Kind {
	case schema.TagString:
		return "String"
	case schema.TagNumber:
		return "Number"
	case schema.TagBoolean:
		return "Boolean"
	case schema.TagArray:
		return "Array"
	default:
		return "Object"
	}
}
