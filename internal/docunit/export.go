package docunit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourorg/adfmt/internal/annotate"
	"github.com/yourorg/adfmt/internal/store"
)

// Assemble builds the class stub of a stored unit from its method docs.
func Assemble(st store.Store, unitName string) (string, error) {
	if _, err := st.GetUnit(unitName); err != nil {
		return "", fmt.Errorf("unit %q: %w", unitName, err)
	}
	docs, err := st.GetMethodDocs(unitName)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("unit %q has no documented endpoints", unitName)
	}
	methods := make([]string, 0, len(docs))
	for _, d := range docs {
		methods = append(methods, d.Doc)
	}
	return annotate.Stub(annotate.ClassName(unitName), methods), nil
}

// Export writes a unit's stub file into dir and returns the file path.
func Export(st store.Store, unitName, dir string) (string, error) {
	stub, err := Assemble(st, unitName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, unitName+".py")
	if err := os.WriteFile(path, []byte(annotate.File(stub)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
