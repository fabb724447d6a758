package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/version"
)

type nodeKind int

const (
	kindString nodeKind = iota
	kindBool
	kindStringOrInt
	kindTable
	kindTableList
)

// keySpec describes the accepted node kind for one key and, for tables and
// lists of tables, the keys allowed inside.
type keySpec struct {
	kind nodeKind
	keys map[string]keySpec
}

var (
	stringKey = keySpec{kind: kindString}

	hookList = keySpec{kind: kindTableList, keys: map[string]keySpec{
		"name": stringKey,
		"cmd":  stringKey,
	}}

	tableSpec = keySpec{kind: kindTable, keys: map[string]keySpec{
		"version": {kind: kindTable, keys: map[string]keySpec{
			"current": stringKey,
			"regex":   stringKey,
		}},
		"git": {kind: kindTable, keys: map[string]keySpec{
			"message_template": stringKey,
			"tag_template":     stringKey,
			"atomic_push":      {kind: kindBool},
		}},
		"file": {kind: kindTableList, keys: map[string]keySpec{
			"src":              stringKey,
			"search":           stringKey,
			"version_template": stringKey,
		}},
		"field": {kind: kindTableList, keys: map[string]keySpec{
			"name":    stringKey,
			"default": {kind: kindStringOrInt},
		}},
		"before_commit": hookList,
		"after_push":    hookList,
		"hook":          hookList,
		"before_push":   hookList,
		"github_url":    stringKey,
	}}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateBasicSchema checks the structure of a configuration table: node
// kinds, unknown keys, required keys and the version regex syntax.
func ValidateBasicSchema(table *yaml.Node) error {
	_, err := decodeRaw(table)
	return err
}

func decodeRaw(table *yaml.Node) (*rawConfig, error) {
	if err := walk(table, tableSpec, ""); err != nil {
		return nil, err
	}
	if re := mappingValue(mappingValue(table, "version"), "regex"); re != nil {
		if _, err := version.Compile(re.Value); err != nil {
			return nil, &SchemaError{Key: "version.regex", Reason: err.Error()}
		}
	}

	var raw rawConfig
	if err := table.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := validate.Struct(&raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fieldError(verrs[0])
		}
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &raw, nil
}

func walk(n *yaml.Node, spec keySpec, path string) error {
	n = resolveAlias(n)
	switch spec.kind {
	case kindString:
		if !isScalar(n, "!!str") {
			return &SchemaError{Key: path, Reason: "expected a string" + found(n)}
		}
	case kindBool:
		if !isScalar(n, "!!bool") {
			return &SchemaError{Key: path, Reason: "expected a boolean" + found(n)}
		}
	case kindStringOrInt:
		if !isScalar(n, "!!str") && !isScalar(n, "!!int") {
			return &SchemaError{Key: path, Reason: "expected a string or an integer" + found(n)}
		}
	case kindTable:
		if n.Kind != yaml.MappingNode {
			return &SchemaError{Key: keyOrRoot(path), Reason: "expected a table" + found(n)}
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			child, ok := spec.keys[key]
			if !ok {
				return &SchemaError{Key: join(path, key), Reason: "unknown key"}
			}
			if err := walk(n.Content[i+1], child, join(path, key)); err != nil {
				return err
			}
		}
	case kindTableList:
		if n.Kind != yaml.SequenceNode {
			return &SchemaError{Key: path, Reason: "expected a list" + found(n)}
		}
		item := keySpec{kind: kindTable, keys: spec.keys}
		for i, child := range n.Content {
			if err := walk(child, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func isScalar(n *yaml.Node, tag string) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == tag
}

func found(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return ", found a table"
	case yaml.SequenceNode:
		return ", found a list"
	case yaml.ScalarNode:
		return fmt.Sprintf(", found %s %q", strings.TrimPrefix(n.ShortTag(), "!!"), n.Value)
	}
	return ""
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func keyOrRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

// fieldError converts a validator failure into a SchemaError keyed by the
// YAML path, dropping the Go type name that prefixes the namespace.
func fieldError(fe validator.FieldError) error {
	key := fe.Namespace()
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	var reason string
	switch fe.Tag() {
	case "required":
		reason = "missing required key"
	case "min":
		reason = "must not be empty"
	case "http_url":
		reason = fmt.Sprintf("%q is not an http(s) URL", fe.Value())
	default:
		reason = fmt.Sprintf("failed %q check", fe.Tag())
	}
	return &SchemaError{Key: key, Reason: reason}
}
