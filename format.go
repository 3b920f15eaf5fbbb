package semreg

import "strings"

// TableRow is one line of a two-column table. The zero row renders as a
// blank separator line.
type TableRow struct {
	Name  string
	Value string
}

// FormatTable renders rows as dot-padded name/value lines, sized so the
// longest name still gets two dots. The result has no trailing newline.
func FormatTable(rows []TableRow) string {
	const minDots = 2
	width := 0
	for _, row := range rows {
		if len(row.Name) > width {
			width = len(row.Name)
		}
	}
	width += minDots

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if row == (TableRow{}) {
			continue
		}
		sb.WriteString(row.Name)
		sb.WriteByte(' ')
		sb.WriteString(strings.Repeat(".", width-len(row.Name)))
		sb.WriteByte(' ')
		sb.WriteString(row.Value)
	}
	return sb.String()
}
