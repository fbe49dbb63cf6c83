package scenefile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"scenebind/bind"
)

// Version is the document version written by Marshal.
const Version = "1"

var (
	ErrUnsupportedFormat = errors.New("unsupported scene format")
	ErrUnknownRef        = errors.New("unknown component reference")
	ErrUnknownField      = errors.New("unknown bound field")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrInvalidSchema     = errors.New("invalid type schema")
)

// Format is a scene document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Document is the serialized form of a scene.
type Document struct {
	Version string     `yaml:"version,omitempty"`
	Types   []TypeDecl `yaml:"types,omitempty"`
	Nodes   []NodeDecl `yaml:"nodes,omitempty"`
}

// TypeDecl declares a component type.
type TypeDecl struct {
	Name string `yaml:"name"`
	// Is lists the types a component of this type also counts as, the way
	// a Go struct counts as the structs it embeds and the interfaces it
	// implements. Fields of those types are bound on it too.
	Is []string `yaml:"is,omitempty"`
	// Abstract types are never created; fields of an abstract type under
	// source self cannot be satisfied by creation.
	Abstract bool        `yaml:"abstract,omitempty"`
	Fields   []FieldDecl `yaml:"fields,omitempty"`
}

// FieldDecl declares a bound field.
type FieldDecl struct {
	Name   string      `yaml:"name"`
	Type   string      `yaml:"type"`
	Source bind.Source `yaml:"source,omitempty"`
	// Strict defaults to true.
	Strict *bool `yaml:"strict,omitempty"`
}

// Options returns the binding options of the field.
func (f FieldDecl) Options() bind.Options {
	opts := bind.Options{Source: f.Source, Strict: true}
	if f.Strict != nil {
		opts.Strict = *f.Strict
	}

	return opts
}

// NodeDecl declares a node and its subtree.
type NodeDecl struct {
	Name       string          `yaml:"name"`
	ID         string          `yaml:"id,omitempty"`
	Components []ComponentDecl `yaml:"components,omitempty"`
	Children   []NodeDecl      `yaml:"children,omitempty"`
}

// ComponentDecl declares a component attached to a node.
type ComponentDecl struct {
	Type string `yaml:"type"`
	ID   string `yaml:"id,omitempty"`
	// Refs maps a bound field name to the id of the component it holds.
	Refs map[string]string `yaml:"refs,omitempty"`
}

// Load reads a scene document, choosing the format from the extension.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}

	return Parse(data, format, path)
}

// Parse decodes a document. filename is used in HCL error positions.
func Parse(data []byte, format Format, filename string) (*Document, error) {
	var (
		doc *Document
		err error
	)

	switch format {
	case FormatYAML:
		doc, err = parseYAML(data)
	case FormatHCL:
		doc, err = parseHCL(data, filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	applyDefaults(doc)

	return doc, nil
}

func parseYAML(data []byte) (*Document, error) {
	var doc Document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scene YAML: %w", err)
	}

	return &doc, nil
}

func applyDefaults(doc *Document) {
	if doc.Version == "" {
		doc.Version = Version
	}
}

// Marshal serializes a Document to YAML.
func Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// Save writes doc as YAML to path. It returns whether the file changed.
func Save(doc *Document, path string) (bool, error) {
	format, err := FormatOf(path)
	if err != nil {
		return false, err
	}
	if format != FormatYAML {
		return false, fmt.Errorf("%w: cannot write %s, write YAML instead", ErrUnsupportedFormat, format)
	}

	data, err := Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to marshal scene: %w", err)
	}

	return WriteIfChanged(path, data)
}

// WriteIfChanged writes data to path unless the file already holds exactly
// those bytes.
func WriteIfChanged(path string, data []byte) (bool, error) {
	current, err := os.ReadFile(path)
	if err == nil && bytes.Equal(current, data) {
		return false, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write scene file %s: %w", path, err)
	}

	return true, nil
}
