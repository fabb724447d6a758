package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func withReplacement(old, new string) string {
	return strings.Replace(fullConfig, old, new, 1)
}

func TestValidateBasicSchema(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantKey string
	}{
		{"unknown top-level key", fullConfig + "colour: blue\n", "colour"},
		{"unknown nested key", withReplacement("  - src: VERSION\n", "  - src: VERSION\n    serch: x\n"), "file[1].serch"},
		{"missing src", withReplacement("  - src: VERSION\n", "  - search: VERSION\n"), "file[1].src"},
		{"int where string expected", withReplacement(`tag_template: "v{new_version}"`, "tag_template: 12"), "git.tag_template"},
		{"bool type", withReplacement("git:\n", "git:\n  atomic_push: sometimes\n"), "git.atomic_push"},
		{"field default list", withReplacement(`default: ""`, "default: [1]"), "field[0].default"},
		{"file not a list", withReplacement("file:\n", "file: VERSION\nunused:\n"), "file"},
		{"missing git table", withReplacement("git:\n", "gat:\n"), "gat"},
		{"missing message template", withReplacement(`  message_template: "Bump to {new_version}"`+"\n", ""), "git.message_template"},
		{"empty file list", "version: {current: '1', regex: '(?P<major>\\d+)'}\ngit: {message_template: '{new_version}', tag_template: '{new_version}'}\nfile: []\n", "file"},
		{"bad regex", withReplacement(`(?P<major>\d+)`, `(?P<major>\d+`), "version.regex"},
		{"bad url", withReplacement("https://github.com/acme/widget", "not a url"), "github_url"},
		{"hook without cmd", withReplacement("    cmd: ./publish.sh\n", ""), "after_push[0].cmd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseBytes([]byte(tt.data), ShapeBareFile, "gitbump.yml")
			require.Error(t, err)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr, err.Error())
			require.Equal(t, tt.wantKey, schemaErr.Key)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	t.Run("current version does not match", func(t *testing.T) {
		_, _, err := ParseBytes([]byte(withReplacement(`current: "1.2.41-alpha-1"`, `current: "1.2.41-gamma-1"`)), ShapeBareFile, "gitbump.yml")
		var cvErr *CurrentVersionInvalidError
		require.ErrorAs(t, err, &cvErr)
		require.Equal(t, "1.2.41-gamma-1", cvErr.Current)
	})

	t.Run("message template without new_version", func(t *testing.T) {
		_, _, err := ParseBytes([]byte(withReplacement(`"Bump to {new_version}"`, `"Bump"`)), ShapeBareFile, "gitbump.yml")
		var tmplErr *TemplateContentError
		require.ErrorAs(t, err, &tmplErr)
		require.Equal(t, "git.message_template", tmplErr.Key)
		require.Contains(t, err.Error(), "git.message_template should contain the string {new_version}")
	})

	t.Run("tag template without new_version", func(t *testing.T) {
		_, _, err := ParseBytes([]byte(withReplacement(`"v{new_version}"`, `"v{current_version}"`)), ShapeBareFile, "gitbump.yml")
		var tmplErr *TemplateContentError
		require.ErrorAs(t, err, &tmplErr)
		require.Equal(t, "git.tag_template", tmplErr.Key)
	})

	t.Run("version template with unknown group", func(t *testing.T) {
		_, _, err := ParseBytes([]byte(withReplacement(`"{major}.{minor}.{patch}"`, `"{major}.{minor}.{build}"`)), ShapeBareFile, "gitbump.yml")
		var phErr *UnknownPlaceholderError
		require.ErrorAs(t, err, &phErr)
		require.Equal(t, "file[2].version_template", phErr.Key)
		require.Equal(t, "build", phErr.Name)
	})

	t.Run("version template may use declared fields", func(t *testing.T) {
		data := withReplacement("field:\n", "field:\n  - name: flavor\n    default: vanilla\n")
		data = strings.Replace(data, `"{major}.{minor}.{patch}"`, `"{major}.{minor}-{flavor}"`, 1)
		_, cfg, err := ParseBytes([]byte(data), ShapeBareFile, "gitbump.yml")
		require.NoError(t, err)
		require.Equal(t, "vanilla", cfg.FieldDefaults()["flavor"])
	})

	t.Run("hook with unknown placeholder", func(t *testing.T) {
		_, _, err := ParseBytes([]byte(withReplacement("cmd: ./publish.sh", "cmd: ./publish.sh {version}")), ShapeBareFile, "gitbump.yml")
		var phErr *UnknownPlaceholderError
		require.ErrorAs(t, err, &phErr)
		require.Equal(t, "version", phErr.Name)
		require.Contains(t, phErr.Key, `"publish"`)
	})

	t.Run("malformed hook template", func(t *testing.T) {
		_, _, err := ParseBytes([]byte(withReplacement("cmd: ./publish.sh", "cmd: ./publish.sh {new_version")), ShapeBareFile, "gitbump.yml")
		var tmplErr *TemplateContentError
		require.ErrorAs(t, err, &tmplErr)
	})

	t.Run("invalid search pattern", func(t *testing.T) {
		_, _, err := ParseBytes([]byte(withReplacement(`search: '"version": "{current_version}"'`, `search: '("version": "{current_version}"'`)), ShapeBareFile, "gitbump.yml")
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		require.Equal(t, "file[0].search", schemaErr.Key)
	})
}
