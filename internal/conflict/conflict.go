// Package conflict parses and resolves three-way merge conflict markers
// (<<<<<<< / ||||||| / ======= / >>>>>>>) in file content, following the
// standard git conflict-marker grammar including the optional diff3 base
// section.
package conflict

import (
	"strings"

	"github.com/gitcore/gitcore/internal/domain"
)

// Choice selects which side of a conflict block should survive resolution.
type Choice int

const (
	ChoiceBase Choice = iota
	ChoiceOurs
	ChoiceTheirs
)

// Block is one parsed conflict region.
type Block struct {
	Base       string
	HasBase    bool
	Ours       string
	Theirs     string
	Choice     Choice
}

// SegmentKind discriminates Segment's union.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentBlock
)

// Segment is either literal text or a conflict Block, in document order.
type Segment struct {
	Kind SegmentKind
	Text string
	Blk  Block
}

// Parse scans text for conflict markers and returns the segment sequence.
// Malformed or unterminated marker sequences are preserved verbatim as
// Text segments rather than dropped.
func Parse(text string) []Segment {
	var segments []Segment
	var buf strings.Builder

	lines := splitInclusive(text)
	i := 0
	for i < len(lines) {
		line := lines[i]
		if !strings.HasPrefix(line, "<<<<<<<") {
			buf.WriteString(line)
			i++
			continue
		}

		if buf.Len() > 0 {
			segments = append(segments, Segment{Kind: SegmentText, Text: buf.String()})
			buf.Reset()
		}

		startMarker := line
		i++

		var baseMarkerLine string
		var base string
		hasBase := false
		var ours strings.Builder
		var sepLine string
		foundSep := false

		for i < len(lines) {
			l := lines[i]
			i++
			if strings.HasPrefix(l, "=======") {
				sepLine = l
				foundSep = true
				break
			}
			if strings.HasPrefix(l, "|||||||") {
				baseMarkerLine = l
				var baseBuf strings.Builder
				for i < len(lines) {
					l2 := lines[i]
					i++
					if strings.HasPrefix(l2, "=======") {
						sepLine = l2
						foundSep = true
						break
					}
					baseBuf.WriteString(l2)
				}
				base = baseBuf.String()
				hasBase = true
				break
			}
			ours.WriteString(l)
		}

		if !foundSep {
			buf.WriteString(startMarker)
			buf.WriteString(ours.String())
			if baseMarkerLine != "" {
				buf.WriteString(baseMarkerLine)
			}
			if hasBase {
				buf.WriteString(base)
			}
			break
		}

		var theirs strings.Builder
		foundEnd := false
		for i < len(lines) {
			l := lines[i]
			i++
			if strings.HasPrefix(l, ">>>>>>>") {
				foundEnd = true
				break
			}
			theirs.WriteString(l)
		}

		if !foundEnd {
			buf.WriteString(startMarker)
			buf.WriteString(ours.String())
			buf.WriteString(baseMarkerLine)
			buf.WriteString(base)
			buf.WriteString(sepLine)
			buf.WriteString(theirs.String())
			break
		}

		segments = append(segments, Segment{
			Kind: SegmentBlock,
			Blk: Block{
				Base:    base,
				HasBase: hasBase,
				Ours:    ours.String(),
				Theirs:  theirs.String(),
				Choice:  ChoiceOurs,
			},
		})
	}

	if buf.Len() > 0 {
		segments = append(segments, Segment{Kind: SegmentText, Text: buf.String()})
	}

	return segments
}

// Count returns the number of conflict blocks in segments.
func Count(segments []Segment) int {
	n := 0
	for _, s := range segments {
		if s.Kind == SegmentBlock {
			n++
		}
	}
	return n
}

// GenerateResolvedText concatenates text segments with each block's chosen
// side.
func GenerateResolvedText(segments []Segment) string {
	var out strings.Builder
	for _, s := range segments {
		switch s.Kind {
		case SegmentText:
			out.WriteString(s.Text)
		case SegmentBlock:
			switch s.Blk.Choice {
			case ChoiceBase:
				if s.Blk.HasBase {
					out.WriteString(s.Blk.Base)
				}
			case ChoiceOurs:
				out.WriteString(s.Blk.Ours)
			case ChoiceTheirs:
				out.WriteString(s.Blk.Theirs)
			}
		}
	}
	return out.String()
}

// AppendLinesToOutput appends lines to output, ensuring exactly one newline
// between output and the first appended line and after the last one.
func AppendLinesToOutput(output string, lines []string) string {
	if len(lines) == 0 {
		return output
	}

	var out strings.Builder
	out.WriteString(output)
	if out.Len() > 0 && !strings.HasSuffix(output, "\n") {
		out.WriteByte('\n')
	}
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(line)
	}
	out.WriteByte('\n')
	return out.String()
}

func splitInclusive(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// InlineRow is one row of the two-way inline conflict view: a diff row
// expanded so Modify rows become a Remove (ours) followed by an Add
// (theirs).
type InlineRow struct {
	Side    domain.ConflictSide
	Kind    domain.DiffLineKind
	OldLine *int
	NewLine *int
	Content string
}

// BuildInlineRows expands side-by-side diff rows into the inline
// conflict-resolution row sequence.
func BuildInlineRows(rows []domain.FileDiffRow) []InlineRow {
	out := make([]InlineRow, 0, len(rows))
	for _, row := range rows {
		switch row.Kind {
		case domain.FileDiffContext:
			out = append(out, InlineRow{
				Side:    domain.ConflictSideOurs,
				Kind:    domain.DiffLineContext,
				OldLine: row.OldLine,
				NewLine: row.NewLine,
				Content: deref(row.Old),
			})
		case domain.FileDiffAdd:
			out = append(out, InlineRow{
				Side:    domain.ConflictSideTheirs,
				Kind:    domain.DiffLineAdd,
				NewLine: row.NewLine,
				Content: deref(row.New),
			})
		case domain.FileDiffRemove:
			out = append(out, InlineRow{
				Side:    domain.ConflictSideOurs,
				Kind:    domain.DiffLineRemove,
				OldLine: row.OldLine,
				Content: deref(row.Old),
			})
		case domain.FileDiffModify:
			out = append(out, InlineRow{
				Side:    domain.ConflictSideOurs,
				Kind:    domain.DiffLineRemove,
				OldLine: row.OldLine,
				Content: deref(row.Old),
			})
			out = append(out, InlineRow{
				Side:    domain.ConflictSideTheirs,
				Kind:    domain.DiffLineAdd,
				NewLine: row.NewLine,
				Content: deref(row.New),
			})
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
