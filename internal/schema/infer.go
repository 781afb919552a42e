package schema

// TagKind is the closed set of inferred type tags.
type TagKind int

const (
	TagUnknown TagKind = iota
	TagString
	TagNumber
	TagBoolean
	TagObject
	TagArray
	TagNull
)

func (k TagKind) String() string {
	switch k {
	case TagString:
		return "String"
	case TagNumber:
		return "Number"
	case TagBoolean:
		return "Boolean"
	case TagObject:
		return "Object"
	case TagArray:
		return "Array"
	case TagNull:
		return "Null"
	}
	return "Unknown"
}

// TypeTag is the inferred type of a field. Elem is set for arrays only and
// names the element kind.
type TypeTag struct {
	Kind TagKind
	Elem TagKind
}

func (t TypeTag) String() string {
	if t.Kind == TagArray {
		return "Array(" + t.Elem.String() + ")"
	}
	return t.Kind.String()
}

// Infer classifies a value. It is total: every input maps to a tag and no
// input errors. Object members are the walker's job; Infer only classifies
// the container.
func Infer(v Value) TypeTag {
	switch v.Kind {
	case KindString:
		return TypeTag{Kind: TagString}
	case KindNumber:
		return TypeTag{Kind: TagNumber}
	case KindBool:
		return TypeTag{Kind: TagBoolean}
	case KindNull:
		return TypeTag{Kind: TagNull}
	case KindObject:
		return TypeTag{Kind: TagObject}
	case KindArray:
		return TypeTag{Kind: TagArray, Elem: elemKind(v.Elems)}
	}
	return TypeTag{Kind: TagUnknown}
}

// elemKind resolves the element kind of an array: the kind of the first
// non-null element, Unknown for empty arrays, and Unknown when element
// kinds disagree.
func elemKind(elems []Value) TagKind {
	kind := TagUnknown
	for _, e := range elems {
		if e.Kind == KindNull {
			continue
		}
		k := Infer(e).Kind
		if kind == TagUnknown {
			kind = k
			continue
		}
		if k != kind {
			return TagUnknown
		}
	}
	return kind
}
