package version

import (
	"strings"
)

// Placeholders returns the names referenced by template, in order of first
// appearance. Doubled braces are literal braces.
func Placeholders(template string) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	err := scan(template, func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}, nil)
	return names, err
}

// Render substitutes every {name} in template using values. A name absent
// from values is a MissingPlaceholderError.
func Render(template string, values map[string]string) (string, error) {
	var b strings.Builder
	var missing string
	err := scan(template, func(name string) {
		v, ok := values[name]
		if !ok && missing == "" {
			missing = name
		}
		b.WriteString(v)
	}, &b)
	if err != nil {
		return "", err
	}
	if missing != "" {
		return "", &MissingPlaceholderError{Template: template, Name: missing}
	}
	return b.String(), nil
}

// RenderGroups renders template against parsed version groups. Referencing
// an unset group yields an UnsetGroupError listing every such group;
// referencing a name that is not a group at all is a MissingPlaceholderError.
func RenderGroups(template string, groups Groups) (string, error) {
	names, err := Placeholders(template)
	if err != nil {
		return "", err
	}

	values := make(map[string]string, len(groups))
	var unset []string
	for _, name := range names {
		v, ok := groups[name]
		if !ok {
			return "", &MissingPlaceholderError{Template: template, Name: name}
		}
		if !v.Set {
			unset = append(unset, name)
			continue
		}
		values[name] = v.Str
	}
	if len(unset) > 0 {
		return "", &UnsetGroupError{Template: template, Names: unset}
	}
	return Render(template, values)
}

// scan walks template, calling onName for each placeholder and copying
// literal text into out when out is non-nil.
func scan(template string, onName func(string), out *strings.Builder) error {
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				i++
				if out != nil {
					out.WriteByte('{')
				}
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return &TemplateError{Template: template, Reason: "unclosed '{'"}
			}
			name := template[i+1 : i+1+end]
			if !isIdentifier(name) {
				return &TemplateError{Template: template, Reason: "invalid placeholder {" + name + "}"}
			}
			onName(name)
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				i++
				if out != nil {
					out.WriteByte('}')
				}
				continue
			}
			return &TemplateError{Template: template, Reason: "single '}' encountered"}
		default:
			if out != nil {
				out.WriteByte(c)
			}
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
