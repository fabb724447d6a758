package bump

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Patch replaces one line of a file. OldLine and NewLine exclude the line
// terminator, which is kept as Ending.
type Patch struct {
	Src     string `json:"src"`
	LineNo  int    `json:"line"`
	OldLine string `json:"old_line"`
	NewLine string `json:"new_line"`
	Ending  string `json:"-"`
}

// Apply rewrites the addressed line in place. It fails if the line no
// longer holds OldLine, and leaves every other byte and the file mode
// unchanged.
func (p Patch) Apply(workDir string) error {
	path := resolve(workDir, p.Src)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("patching %s: %w", p.Src, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("patching %s: %w", p.Src, err)
	}

	lines := splitLines(data)
	if p.LineNo < 0 || p.LineNo >= len(lines) {
		return fmt.Errorf("patching %s: line %d does not exist", p.Src, p.LineNo+1)
	}
	if l := lines[p.LineNo]; l.text != p.OldLine || l.ending != p.Ending {
		return fmt.Errorf("patching %s: line %d changed since the patch was computed", p.Src, p.LineNo+1)
	}
	lines[p.LineNo].text = p.NewLine

	if err := os.WriteFile(path, joinLines(lines), info.Mode().Perm()); err != nil {
		return fmt.Errorf("patching %s: %w", p.Src, err)
	}
	return nil
}

// resolve joins a slash-separated src to workDir unless it is absolute.
func resolve(workDir, src string) string {
	p := filepath.FromSlash(src)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workDir, p)
}

type line struct {
	text   string
	ending string
}

// splitLines cuts data after each "\n". A "\r" directly before it belongs
// to the ending. The final line may have no ending.
func splitLines(data []byte) []line {
	var lines []line
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, line{text: string(data)})
			break
		}
		text, ending := string(data[:i]), "\n"
		if strings.HasSuffix(text, "\r") {
			text, ending = text[:len(text)-1], "\r\n"
		}
		lines = append(lines, line{text: text, ending: ending})
		data = data[i+1:]
	}
	return lines
}

func joinLines(lines []line) []byte {
	var b bytes.Buffer
	for _, l := range lines {
		b.WriteString(l.text)
		b.WriteString(l.ending)
	}
	return b.Bytes()
}
