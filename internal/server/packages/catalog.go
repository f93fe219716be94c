package packages

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type catalogFile struct {
	Apps []AppPackage `toml:"apps"`
}

// LoadCatalog reads a TOML catalog file. Stands in for the platform
// package database during development and tests.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	apps := make([]*AppPackage, 0, len(file.Apps))
	for i := range file.Apps {
		apps = append(apps, &file.Apps[i])
	}
	return NewCatalog(apps...)
}
