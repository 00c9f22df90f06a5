package datasource

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/accordion/pkg/model"
)

// yamlDocument accepts either a bare list of rows or a mapping with a rows key.
type yamlDocument struct {
	Rows []model.Row `yaml:"rows"`
}

// LoadYAML reads rows from a YAML file.
func LoadYAML(path string, opts ParseOptions) ([]model.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rows file: %w", err)
	}
	defer file.Close()

	return ParseYAML(file, opts)
}

// ParseYAML parses a YAML list of rows, skipping invalid rows with a warning.
func ParseYAML(r io.Reader, opts ParseOptions) ([]model.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	data = stripBOM(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse rows: %w", err)
	}

	var parsed []model.Row
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&parsed); err != nil {
			return nil, fmt.Errorf("failed to decode rows: %w", err)
		}
	case yaml.MappingNode:
		var doc yamlDocument
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode rows: %w", err)
		}
		parsed = doc.Rows
	default:
		return nil, fmt.Errorf("rows document must be a list or a mapping with a rows key")
	}

	warn := opts.warn()
	rows := parsed[:0]
	for i := range parsed {
		row := parsed[i]
		row.Normalize()
		if err := row.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid row %d: %v", i+1, err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
