package source

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yml
var defaultCatalog []byte

// Default returns the built-in Romanian outlet catalog.
func Default() (*Registry, error) {
	return Parse(defaultCatalog)
}

func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file %s: %w", path, err)
	}

	registry, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources file %s: %w", path, err)
	}

	return registry, nil
}

func Parse(data []byte) (*Registry, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(catalog.Sources) == 0 {
		return nil, fmt.Errorf("catalog has no sources")
	}

	return NewRegistry(catalog.Sources, catalog.Priority)
}
