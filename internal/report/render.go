package report

import (
	"fmt"
	"html"
	"strings"

	"cdrbot/internal/models"
)

// Render turns conversation groups into HTML message chunks, one group per
// chunk. A group longer than opts.ChunkLines is split across several chunks.
func Render(rows []models.CallRecord, groups []Group, opts Options) ([]string, error) {
	opts = opts.withDefaults()

	if len(groups) == 0 {
		return []string{opts.EmptyText}, nil
	}

	var chunks []string
	for gi, g := range groups {
		if len(g.Calls) == 0 {
			continue
		}

		var lines []string
		highlight := ""
		for k, idx := range g.Calls {
			if idx < 0 || idx >= len(rows) {
				return nil, fmt.Errorf("group %d references row %d of %d", gi, idx, len(rows))
			}
			rec := rows[idx]
			if rec.Src == "" {
				return nil, &InvalidRecordError{Index: idx, ID: rec.ID, Field: "src"}
			}
			if k == 0 {
				highlight = rec.Src
			}

			lines = append(lines, renderLine(rec, highlight))
			if len(lines) == opts.ChunkLines {
				chunks = append(chunks, joinLines(lines))
				lines = lines[:0]
			}
		}
		if len(lines) > 0 {
			chunks = append(chunks, joinLines(lines))
		}
	}

	return chunks, nil
}

func renderLine(rec models.CallRecord, highlight string) string {
	var b strings.Builder
	b.WriteString(rec.CallDate.Format("15:04"))
	b.WriteString(": ")
	b.WriteString(party(rec.Src, highlight))
	b.WriteString(" → ")
	b.WriteString(party(rec.Dst, highlight))
	b.WriteString(", ")
	b.WriteString(detail(rec))
	if rec.HasRecording() {
		b.WriteString(" ")
		b.WriteString(ListenCommand(rec.ID))
	}
	return b.String()
}

func party(number, highlight string) string {
	escaped := html.EscapeString(number)
	if number == highlight {
		return "<b>" + escaped + "</b>"
	}
	return escaped
}

func detail(rec models.CallRecord) string {
	if rec.Answered() {
		return fmt.Sprintf("%d сек.", rec.Duration)
	}
	return html.EscapeString(strings.ToLower(rec.Disposition))
}

func joinLines(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n") + "\n")
}

// RenderList renders rows as a numbered fixed-width list under header, used
// for the missed calls scene. Chunks respect opts.ChunkLines, the header and
// the blank line after it included.
func RenderList(rows []models.CallRecord, header string, opts Options) []string {
	opts = opts.withDefaults()

	if len(rows) == 0 {
		return []string{opts.EmptyText}
	}

	var chunks []string
	var lines []string
	if header != "" {
		lines = append(lines, html.EscapeString(header), "")
	}

	for i, rec := range rows {
		lines = append(lines, fmt.Sprintf("<pre>%3d: %s, %s → %s, %s</pre>",
			i+1,
			rec.CallDate.Format("15:04"),
			html.EscapeString(rec.Src),
			html.EscapeString(rec.Dst),
			html.EscapeString(strings.ToLower(rec.Disposition)),
		))
		if len(lines) >= opts.ChunkLines {
			chunks = append(chunks, joinLines(lines))
			lines = lines[:0]
		}
	}
	if len(lines) > 0 {
		chunks = append(chunks, joinLines(lines))
	}

	return chunks
}
