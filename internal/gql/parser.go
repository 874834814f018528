package gql

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFile is the on-disk layout of a descriptor file. JSON files share the
// same layout.
type YAMLFile struct {
	Queries []Descriptor `yaml:"queries"`
}

// ParseFile parses descriptors from a YAML or JSON file.
func ParseFile(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Parse(data)
}

// Parse parses descriptors from YAML (or JSON) bytes.
func Parse(data []byte) ([]Descriptor, error) {
	var file YAMLFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range file.Queries {
		file.Queries[i].Query = strings.TrimSpace(file.Queries[i].Query)
	}
	return file.Queries, nil
}

// ValidateFile parses and validates a descriptor file.
func ValidateFile(path string) ValidationResult {
	descs, err := ParseFile(path)
	if err != nil {
		return ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{Field: "file", Message: err.Error()},
			},
		}
	}

	return ValidateAll(descs)
}

// LoadDir parses and validates every descriptor file in dir. A missing
// directory yields no descriptors. Invalid files are skipped: the
// descriptors of the valid files are returned together with one error per
// invalid file, joined.
func LoadDir(dir string) ([]Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read query directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	var (
		all  []Descriptor
		errs []error
	)
	for _, path := range files {
		descs, err := ParseFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if res := ValidateAll(descs); !res.Valid {
			errs = append(errs, fmt.Errorf("%s: %s", path, strings.TrimSpace(res.FormatErrors())))
			continue
		}
		all = append(all, descs...)
	}
	return all, errors.Join(errs...)
}

// ToYAML renders descriptors in the descriptor file layout.
func ToYAML(descs []Descriptor) ([]byte, error) {
	return yaml.Marshal(&YAMLFile{Queries: descs})
}
