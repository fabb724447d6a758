package bump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []line
	}{
		{"empty", "", nil},
		{"lf", "a\nb\n", []line{{"a", "\n"}, {"b", "\n"}}},
		{"crlf", "a\r\nb\r\n", []line{{"a", "\r\n"}, {"b", "\r\n"}}},
		{"mixed without final newline", "a\r\nb\nc", []line{{"a", "\r\n"}, {"b", "\n"}, {"c", ""}}},
		{"lone cr stays in text", "a\rb\n", []line{{"a\rb", "\n"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines([]byte(tt.in))
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.in, string(joinLines(got)))
		})
	}
}

func TestPatchApply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "VERSION")
	require.NoError(t, os.WriteFile(path, []byte("name\r\n1.0.0"), 0o755))

	p := Patch{Src: "VERSION", LineNo: 1, OldLine: "1.0.0", NewLine: "1.1.0", Ending: ""}
	require.NoError(t, p.Apply(dir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "name\r\n1.1.0", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestPatchApply_Stale(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("2.0.0\n"), 0o644))

	p := Patch{Src: "VERSION", LineNo: 0, OldLine: "1.0.0", NewLine: "1.1.0", Ending: "\n"}
	require.ErrorContains(t, p.Apply(dir), "changed since the patch was computed")

	p = Patch{Src: "VERSION", LineNo: 4, OldLine: "1.0.0", NewLine: "1.1.0", Ending: "\n"}
	require.ErrorContains(t, p.Apply(dir), "does not exist")

	p = Patch{Src: "MISSING", LineNo: 0, OldLine: "1.0.0", NewLine: "1.1.0"}
	require.Error(t, p.Apply(dir))
}
