package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest lists the units and endpoints the generate command documents.
// Each endpoint still gets its own independent doc unit; the manifest is
// invocation-layer glue, not a core batching mode.
type Manifest struct {
	Units []ManifestUnit `yaml:"units"`
}

type ManifestUnit struct {
	Name        string `yaml:"name"`
	Group       string `yaml:"group"`
	Description string `yaml:"description"`
	// ErrorExample overrides doc.error_example for this unit.
	ErrorExample map[string]any     `yaml:"error_example"`
	Endpoints    []ManifestEndpoint `yaml:"endpoints"`
}

type ManifestEndpoint struct {
	Method string        `yaml:"method"`
	Path   string        `yaml:"path"`
	Title  string        `yaml:"title"`
	Params OrderedParams `yaml:"params"`
}

// ParamEntry is one manifest parameter.
type ParamEntry struct {
	Key   string
	Value any
}

// OrderedParams decodes a YAML mapping while keeping its key order, which
// plain map decoding would destroy. The generated doc lists params in the
// order the manifest wrote them.
type OrderedParams []ParamEntry

func (p *OrderedParams) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("params must be a mapping, got yaml kind %d", node.Kind)
	}
	out := make(OrderedParams, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("decode param key: %w", err)
		}
		var val any
		if err := node.Content[i+1].Decode(&val); err != nil {
			return fmt.Errorf("decode param %q: %w", key, err)
		}
		out = append(out, ParamEntry{Key: key, Value: val})
	}
	*p = out
	return nil
}

// LoadManifest reads and validates a probe manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) Validate() error {
	if len(m.Units) == 0 {
		return fmt.Errorf("manifest has no units")
	}
	for _, u := range m.Units {
		if strings.TrimSpace(u.Name) == "" {
			return fmt.Errorf("manifest unit without a name")
		}
		if len(u.Endpoints) == 0 {
			return fmt.Errorf("unit %q has no endpoints", u.Name)
		}
		for _, ep := range u.Endpoints {
			if strings.TrimSpace(ep.Method) == "" {
				return fmt.Errorf("unit %q: endpoint without a method", u.Name)
			}
			if !strings.HasPrefix(ep.Path, "/") {
				return fmt.Errorf("unit %q: endpoint path %q must start with /", u.Name, ep.Path)
			}
		}
	}
	return nil
}
