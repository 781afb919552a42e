package schema

// Group classifies a field line within the generated annotation.
type Group string

const (
	GroupHeader  Group = "header"
	GroupParam   Group = "param"
	GroupSuccess Group = "success"
	GroupError   Group = "error"
)

// FieldDescriptor is one documented data point extracted from a request or
// response: a dotted path, its inferred type, and for scalars the first
// observed value as the example.
type FieldDescriptor struct {
	Path    string
	Type    TypeTag
	Group   Group
	Example *Value
}

// Walker flattens JSON documents into an ordered, deduplicated descriptor
// list for a single group. Traversal is depth-first pre-order in key order
// of the source document. The first descriptor for a path wins, across all
// added documents; later duplicates are dropped.
type Walker struct {
	group  Group
	seen   map[string]struct{}
	fields []FieldDescriptor
}

func NewWalker(group Group) *Walker {
	return &Walker{group: group, seen: make(map[string]struct{})}
}

// Add walks one document. Only object documents contribute fields: members
// become paths, nested members dotted paths. A non-object root carries no
// names to document and is skipped.
func (w *Walker) Add(doc Value) {
	if doc.Kind != KindObject {
		return
	}
	w.object("", doc)
}

// Fields returns the descriptors emitted so far, in first-seen order.
func (w *Walker) Fields() []FieldDescriptor {
	return w.fields
}

func (w *Walker) object(prefix string, obj Value) {
	for _, m := range obj.Members {
		path := m.Key
		if prefix != "" {
			path = prefix + "." + m.Key
		}
		w.emit(path, m.Value)
	}
}

func (w *Walker) emit(path string, v Value) {
	if _, dup := w.seen[path]; dup {
		return
	}
	w.seen[path] = struct{}{}

	fd := FieldDescriptor{Path: path, Type: Infer(v), Group: w.group}
	if isScalar(v.Kind) {
		example := v
		fd.Example = &example
	}
	w.fields = append(w.fields, fd)

	// Objects recurse into members; arrays stay a single descriptor at
	// their own path, elements are not flattened.
	if v.Kind == KindObject {
		w.object(path, v)
	}
}

func isScalar(k Kind) bool {
	return k == KindString || k == KindNumber || k == KindBool
}

// Walk is the single-document form of Walker.
func Walk(doc Value, group Group) []FieldDescriptor {
	w := NewWalker(group)
	w.Add(doc)
	return w.Fields()
}
