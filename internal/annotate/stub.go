package annotate

import (
	"fmt"
	"strings"
)

const fileHeader = "#!/usr/bin/env python3\n# -*- coding: utf-8 -*-\n\n\n"

// Stub assembles rendered method docs into one class stub. Each method is
// already indented one level by Render.
func Stub(className string, methods []string) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "class %s(object):\n", className)
	for _, m := range methods {
		b.WriteString("\n    @staticmethod\n")
		b.WriteString(strings.TrimRight(m, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// File wraps a class stub into a complete generated source file.
func File(stub string) string {
	return fileHeader + stub
}
