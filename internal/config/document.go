package config

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Shape identifies which on-disk layout a configuration uses.
type Shape int

const (
	// ShapeBareFile is a dedicated gitbump.yml whose top level is the
	// configuration table.
	ShapeBareFile Shape = iota
	// ShapeNestedManifest is a project manifest carrying the configuration
	// under tool.gitbump.
	ShapeNestedManifest
)

func (s Shape) String() string {
	switch s {
	case ShapeBareFile:
		return "bare file"
	case ShapeNestedManifest:
		return "nested manifest"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// nestedPath is the location of the configuration table in a manifest.
var nestedPath = []string{"tool", "gitbump"}

// Document is a loaded configuration file. Both shapes normalize to the
// same Config; they only differ in where the table lives.
type Document interface {
	Shape() Shape
	Path() string
	// RawTable returns the mapping node holding the configuration keys.
	RawTable() *yaml.Node
	// SetCurrentVersion rewrites version.current in the document bytes,
	// leaving every other byte untouched.
	SetCurrentVersion(v string) error
	// CurrentVersionLine returns the 0-based line of the version.current
	// scalar, which SetCurrentVersion rewrites.
	CurrentVersionLine() (int, bool)
	Serialize() []byte
}

type document struct {
	shape Shape
	path  string
	data  []byte
	table *yaml.Node
}

// NewDocument parses data as a configuration of the given shape.
func NewDocument(data []byte, shape Shape, path string) (Document, error) {
	d := &document{shape: shape, path: path, data: bytes.Clone(data)}
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *document) Shape() Shape         { return d.shape }
func (d *document) Path() string         { return d.path }
func (d *document) RawTable() *yaml.Node { return d.table }
func (d *document) Serialize() []byte    { return bytes.Clone(d.data) }

func (d *document) load() error {
	var root yaml.Node
	if err := yaml.Unmarshal(d.data, &root); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return &SchemaError{Key: "(root)", Reason: "document is empty"}
	}
	top := resolveAlias(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return &SchemaError{Key: "(root)", Reason: "expected a mapping"}
	}

	switch d.shape {
	case ShapeBareFile:
		d.table = top
	case ShapeNestedManifest:
		node := top
		for _, key := range nestedPath {
			node = mappingValue(node, key)
			if node == nil || node.Kind != yaml.MappingNode {
				return &SchemaError{Key: strings.Join(nestedPath, "."), Reason: "table not found"}
			}
		}
		d.table = node
	default:
		return fmt.Errorf("unknown configuration shape %v", d.shape)
	}
	return nil
}

func (d *document) CurrentVersionLine() (int, bool) {
	cur := mappingValue(mappingValue(d.table, "version"), "current")
	if cur == nil || cur.Kind != yaml.ScalarNode {
		return 0, false
	}
	return cur.Line - 1, true
}

func (d *document) SetCurrentVersion(v string) error {
	cur := mappingValue(mappingValue(d.table, "version"), "current")
	if cur == nil || cur.Kind != yaml.ScalarNode {
		return errors.New("version.current not found in document")
	}
	if cur.Value == v {
		return nil
	}
	if strings.ContainsAny(v, "\r\n") {
		return fmt.Errorf("version %q spans several lines", v)
	}

	repl := v
	switch cur.Style {
	case yaml.DoubleQuotedStyle:
		if strings.ContainsAny(v, `"\`) {
			return fmt.Errorf("version %q cannot be written inside double quotes", v)
		}
	case yaml.SingleQuotedStyle:
		if strings.Contains(v, "'") {
			return fmt.Errorf("version %q cannot be written inside single quotes", v)
		}
	case 0:
		if !isPlainString(v) {
			repl = strconv.Quote(v)
		}
	}

	start, err := offsetOf(d.data, cur.Line, cur.Column)
	if err != nil {
		return err
	}
	idx := bytes.Index(d.data[start:], []byte(cur.Value))
	if idx < 0 {
		return fmt.Errorf("could not locate %q for version.current at line %d", cur.Value, cur.Line)
	}
	idx += start

	var b bytes.Buffer
	b.Grow(len(d.data) + len(repl))
	b.Write(d.data[:idx])
	b.WriteString(repl)
	b.Write(d.data[idx+len(cur.Value):])

	prev := d.data
	d.data = b.Bytes()
	if err := d.load(); err != nil {
		d.data = prev
		_ = d.load()
		return fmt.Errorf("rewriting version.current: %w", err)
	}
	return nil
}

// isPlainString reports whether v reads back as the same string when
// written as an unquoted scalar.
func isPlainString(v string) bool {
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(v), &n); err != nil || len(n.Content) != 1 {
		return false
	}
	s := n.Content[0]
	return s.Kind == yaml.ScalarNode && s.Style == 0 && s.Tag == "!!str" && s.Value == v
}

// offsetOf converts a 1-based line and rune column into a byte offset.
func offsetOf(data []byte, line, column int) (int, error) {
	off := 0
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(data[off:], '\n')
		if i < 0 {
			return 0, fmt.Errorf("line %d is past the end of the document", line)
		}
		off += i + 1
	}
	for c := 1; c < column && off < len(data); c++ {
		_, size := utf8.DecodeRune(data[off:])
		off += size
	}
	return off, nil
}

// mappingValue returns the value node for key in a mapping, or nil.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	m = resolveAlias(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return resolveAlias(m.Content[i+1])
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
