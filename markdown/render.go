// Package markdown converts the limited markdown subset emitted by the
// generation service into sanitized HTML fragments.
package markdown

import (
	"regexp"
	"strings"
)

// Render converts markdown-like text to an HTML fragment. The raw input is
// HTML-escaped before any substitution, so embedded markup from the
// generation service can never execute in a viewer. Rendering is
// deterministic and pure; the escape step is idempotent.
func Render(src string) string {
	lines := strings.Split(EscapeHTML(src), "\n")

	var out strings.Builder
	open := blockNone

	closeBlock := func() {
		switch open {
		case blockOrdered:
			out.WriteString("</ol>")
		case blockUnordered:
			out.WriteString("</ul>")
		case blockTable:
			out.WriteString("</table>")
		}
		open = blockNone
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			closeBlock()

		case isTableRow(trimmed):
			if open != blockTable {
				closeBlock()
				out.WriteString("<table>")
				open = blockTable
			}
			if isTableDivider(trimmed) {
				// Header/body divider, not a row.
				continue
			}
			out.WriteString("<tr>")
			for _, cell := range tableCells(trimmed) {
				out.WriteString("<td>")
				out.WriteString(inline(cell))
				out.WriteString("</td>")
			}
			out.WriteString("</tr>")

		case orderedItemRe.MatchString(trimmed):
			if open != blockOrdered {
				closeBlock()
				out.WriteString("<ol>")
				open = blockOrdered
			}
			out.WriteString("<li>")
			out.WriteString(inline(orderedItemRe.ReplaceAllString(trimmed, "")))
			out.WriteString("</li>")

		case isBulletItem(trimmed):
			if open != blockUnordered {
				closeBlock()
				out.WriteString("<ul>")
				open = blockUnordered
			}
			out.WriteString("<li>")
			out.WriteString(inline(bulletText(trimmed)))
			out.WriteString("</li>")

		case strings.HasPrefix(trimmed, "### "):
			closeBlock()
			out.WriteString("<h3>")
			out.WriteString(inline(strings.TrimPrefix(trimmed, "### ")))
			out.WriteString("</h3>")

		case strings.HasPrefix(trimmed, "## "):
			closeBlock()
			out.WriteString("<h2>")
			out.WriteString(inline(strings.TrimPrefix(trimmed, "## ")))
			out.WriteString("</h2>")

		case strings.HasPrefix(trimmed, "# "):
			closeBlock()
			out.WriteString("<h1>")
			out.WriteString(inline(strings.TrimPrefix(trimmed, "# ")))
			out.WriteString("</h1>")

		default:
			closeBlock()
			out.WriteString("<p>")
			out.WriteString(inline(trimmed))
			out.WriteString("</p>")
		}
	}
	closeBlock()

	return out.String()
}

type blockKind int

const (
	blockNone blockKind = iota
	blockOrdered
	blockUnordered
	blockTable
)

var (
	orderedItemRe = regexp.MustCompile(`^\d+\.\s*`)

	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)

	// Entities this renderer itself emits, plus numeric references.
	// Escaping stops at these so re-escaping rendered text cannot
	// double-escape.
	entityRe = regexp.MustCompile(`^&(amp|lt|gt|quot|#\d{1,6});`)
)

// inline applies bold then italic spans. The input is already escaped, so
// the emphasis regexes only ever see entity-safe text.
func inline(s string) string {
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	return s
}

// EscapeHTML escapes &, < and > while leaving already-escaped entities
// alone, making the escape step idempotent.
func EscapeHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			if entityRe.MatchString(s[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isTableRow(line string) bool {
	return len(line) >= 2 && strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|")
}

// isTableDivider reports whether a table row consists only of dashes,
// pipes, colons and spaces.
func isTableDivider(line string) bool {
	hasDash := false
	for _, r := range line {
		switch r {
		case '-':
			hasDash = true
		case '|', ':', ' ', '\t':
		default:
			return false
		}
	}
	return hasDash
}

func tableCells(line string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
	cells := strings.Split(inner, "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

func isBulletItem(line string) bool {
	return strings.HasPrefix(line, "- ") ||
		strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "• ")
}

func bulletText(line string) string {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
	}
	return line
}
