package annotate

import (
	"strings"

	"github.com/yourorg/adfmt/internal/schema"
)

// Slim trims repeated array elements down to the first one, recursively.
// Long listings confuse the reader of an example block; one representative
// element is enough.
func Slim(v schema.Value) schema.Value {
	switch v.Kind {
	case schema.KindArray:
		elems := v.Elems
		if len(elems) > 1 {
			elems = elems[:1]
		}
		out := make([]schema.Value, len(elems))
		for i, e := range elems {
			out[i] = Slim(e)
		}
		v.Elems = out
	case schema.KindObject:
		members := make([]schema.Member, len(v.Members))
		for i, m := range v.Members {
			members[i] = schema.Member{Key: m.Key, Value: Slim(m.Value)}
		}
		v.Members = members
	}
	return v
}

// MaskSecrets replaces the value of any member whose key matches one of the
// given field names (case-insensitive) with the replacement string. Probe
// responses can carry credentials that must not land in generated docs.
func MaskSecrets(v schema.Value, fields []string, replacement string) schema.Value {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(strings.ToLower(f))
		if f == "" {
			continue
		}
		set[f] = struct{}{}
	}
	if len(set) == 0 {
		return v
	}
	return maskValue(v, set, replacement)
}

func maskValue(v schema.Value, set map[string]struct{}, replacement string) schema.Value {
	switch v.Kind {
	case schema.KindObject:
		members := make([]schema.Member, len(v.Members))
		for i, m := range v.Members {
			if _, ok := set[strings.ToLower(m.Key)]; ok {
				members[i] = schema.Member{Key: m.Key, Value: schema.Value{Kind: schema.KindString, Str: replacement}}
				continue
			}
			members[i] = schema.Member{Key: m.Key, Value: maskValue(m.Value, set, replacement)}
		}
		v.Members = members
	case schema.KindArray:
		elems := make([]schema.Value, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = maskValue(e, set, replacement)
		}
		v.Elems = elems
	}
	return v
}
