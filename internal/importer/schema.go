// Package importer reads objective trees from YAML or JSON documents and
// orders them for creation.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the top-level import document. Objectives reference their parent
// by ref within the same file, or by parent_id for an objective that
// already exists.
type File struct {
	Defaults   *Defaults `yaml:"defaults,omitempty"`
	Objectives []Item    `yaml:"objectives"`
}

// Defaults apply to every item that leaves the field empty.
type Defaults struct {
	Status string `yaml:"status,omitempty"`
}

type Item struct {
	Ref         string  `yaml:"ref"`
	ParentRef   *string `yaml:"parent_ref,omitempty"`
	ParentID    *int64  `yaml:"parent_id,omitempty"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description,omitempty"`
	StartDate   string  `yaml:"start_date"`
	EndDate     string  `yaml:"end_date"`
	Status      string  `yaml:"status,omitempty"`
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a YAML document. JSON is accepted as the YAML subset it is.
// Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("import file is empty")
		}
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &f, nil
}
