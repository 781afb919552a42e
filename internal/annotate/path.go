package annotate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrIllegalPath reports a request path that cannot become a doc path.
var ErrIllegalPath = errors.New("illegal path")

var (
	urlPathPattern  = regexp.MustCompile(`^(/[^?]+)\??`)
	funcNamePattern = regexp.MustCompile(`^[_A-Za-z][A-Za-z0-9_]*$`)
	multiSlash      = regexp.MustCompile(`/+`)
)

// NormalizePath collapses repeated slashes and strips any query string.
// The result always starts with a single slash.
func NormalizePath(path string) (string, error) {
	replaced := multiSlash.ReplaceAllString(path, "/")
	m := urlPathPattern.FindStringSubmatch(replaced)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrIllegalPath, path)
	}
	return m[1], nil
}

// MethodName derives the stub method name from a normalized path: legal
// identifier segments joined with underscores.
func MethodName(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	legal := make([]string, 0, len(parts))
	for _, p := range parts {
		if funcNamePattern.MatchString(p) {
			legal = append(legal, p)
		}
	}
	if len(legal) == 0 {
		return "root"
	}
	return strings.Join(legal, "_")
}

// ClassName derives the stub class name from a unit name.
func ClassName(name string) string {
	r := []rune(name)
	if len(r) == 0 {
		return "ApiDoc"
	}
	r[0] = unicode.ToUpper(r[0])
	return "ApiDoc" + string(r)
}
