package output

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// emphasize styles the parts of oldLine that were removed and the parts of
// newLine that were inserted, leaving common text in the line color.
func (u *UI) emphasize(oldLine, newLine string) (string, string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldLine, newLine, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var oldB, newB strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldB.WriteString(u.s.removed.Render(d.Text))
			newB.WriteString(u.s.added.Render(d.Text))
		case diffmatchpatch.DiffDelete:
			oldB.WriteString(u.s.removed.Inherit(u.s.changed).Render(d.Text))
		case diffmatchpatch.DiffInsert:
			newB.WriteString(u.s.added.Inherit(u.s.changed).Render(d.Text))
		}
	}
	return oldB.String(), newB.String()
}

// ChangedSpans returns the removed and inserted fragments between two
// lines, in order.
func ChangedSpans(oldLine, newLine string) (removed, inserted []string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldLine, newLine, false))
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			removed = append(removed, d.Text)
		case diffmatchpatch.DiffInsert:
			inserted = append(inserted, d.Text)
		}
	}
	return removed, inserted
}
