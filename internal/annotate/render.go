package annotate

import (
	"encoding/json"
	"strings"

	"github.com/yourorg/adfmt/internal/schema"
)

// EndpointMeta identifies the endpoint a block documents and the stub it is
// embedded in. All of it derives deterministically from the unit name and
// the normalized request path.
type EndpointMeta struct {
	Method            string // lower-case http verb
	Path              string // normalized, leading slash
	Title             string
	Description       string
	Group             string
	PermissionName    string
	PermissionExplain string
	ClassName         string
	MethodName        string
}

// RenderedDoc is the final annotation text, immutable once produced.
type RenderedDoc string

func (d RenderedDoc) String() string { return string(d) }

// Examples carries the raw documents rendered as example blocks, one per
// section. Nil or empty documents render nothing.
type Examples struct {
	Header  *schema.Value
	Param   *schema.Value
	Success *schema.Value
	Error   *schema.Value
}

// Input is everything one Render call consumes.
type Input struct {
	Meta     EndpointMeta
	Headers  []schema.FieldDescriptor
	Params   []schema.FieldDescriptor
	Success  []schema.FieldDescriptor
	Errors   []schema.FieldDescriptor
	Examples Examples
}

// Renderer turns field descriptors plus endpoint metadata into the fixed
// annotation block. Rendering is pure: identical input yields byte-identical
// output.
type Renderer struct {
	// Mapping supplies per-path field descriptions; missing paths fall
	// back to Placeholder.
	Mapping     map[string]string
	Placeholder string
	// Mask lists field names redacted inside example blocks.
	Mask        []string
	Replacement string
}

// Render produces the stub method text: a def line plus the annotation
// docstring, indented one level so Stub can splice it into a class body.
func (r *Renderer) Render(in Input) RenderedDoc {
	rows := make([]string, 0, 16)
	rows = append(rows, r.declare(in.Meta))
	if in.Meta.Description != "" {
		rows = append(rows, tagDescription+" "+in.Meta.Description)
	}
	if in.Meta.Group != "" {
		rows = append(rows, tagGroup+" "+in.Meta.Group)
	}
	if in.Meta.PermissionName != "" {
		rows = append(rows, joinFields(tagPermission, strings.ToLower(in.Meta.PermissionName), in.Meta.PermissionExplain))
	}

	rows = append(rows, r.fieldLines(tagHeader, in.Headers)...)
	rows = append(rows, r.exampleBlock(tagHeader, "header", in.Examples.Header)...)
	rows = append(rows, r.fieldLines(tagParam, in.Params)...)
	rows = append(rows, r.exampleBlock(tagParam, "param", in.Examples.Param)...)
	rows = append(rows, r.fieldLines(tagSuccess, in.Success)...)
	rows = append(rows, r.exampleBlock(tagSuccess, "success", in.Examples.Success)...)
	rows = append(rows, r.fieldLines(tagError, in.Errors)...)
	rows = append(rows, r.exampleBlock(tagError, "error", in.Examples.Error)...)

	doc := []string{`"""`}
	doc = append(doc, rows...)
	doc = append(doc, `"""`)

	body := "def " + in.Meta.MethodName + "() -> None:\n" + indentLines(strings.Join(doc, "\n"), 4)
	return RenderedDoc(indentLines(body, 4))
}

func (r *Renderer) declare(meta EndpointMeta) string {
	return joinFields(tagDeclare, "{"+meta.Method+"}", meta.Path, meta.Title)
}

func (r *Renderer) fieldLines(tag string, fields []schema.FieldDescriptor) []string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, joinFields(tag, "{"+DisplayName(f.Type)+"}", f.Path, r.explain(f.Path)))
	}
	return lines
}

func (r *Renderer) explain(path string) string {
	if v, ok := r.Mapping[path]; ok {
		return v
	}
	return r.Placeholder
}

func (r *Renderer) exampleBlock(tag, section string, doc *schema.Value) []string {
	if doc == nil || doc.IsEmpty() {
		return nil
	}
	shaped := MaskSecrets(Slim(*doc), r.Mask, r.Replacement)
	data, err := json.MarshalIndent(shaped, "", "    ")
	if err != nil {
		// Value marshaling cannot fail for decoded documents; skip the
		// block rather than emit a broken one.
		return nil
	}
	return []string{
		tag + "Example {json} " + section + "-example",
		indentLines(string(data), 4),
	}
}

// joinFields joins the non-empty fields of one tag line with single spaces.
func joinFields(fields ...string) string {
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// indentLines prefixes every non-empty line with n spaces.
func indentLines(content string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
