// Package textdiff renders unified diffs between the original and the
// formatted text of a file.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// context is the number of unchanged lines kept around each hunk.
const context = 3

// Unified returns a unified diff between before and after, or "" when
// they are identical. The header tags the path with "before"/"after"
// rather than the a/ b/ prefixes, matching the summary lines the tool
// prints per file.
func Unified(path, before, after string) string {
	if before == after {
		return ""
	}
	a := splitKeep(before)
	b := splitKeep(after)
	hunks := groupHunks(shortestEdits(a, b))
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\tbefore\n", path)
	fmt.Fprintf(&sb, "+++ %s\tafter\n", path)
	for _, h := range hunks {
		h.render(&sb, a, b)
	}
	return sb.String()
}

var (
	headerColor = color.New(color.Bold)
	hunkColor   = color.New(color.FgCyan)
	addColor    = color.New(color.FgGreen)
	delColor    = color.New(color.FgRed)
)

// Colorize repaints an already rendered diff by line prefix. It honors
// the global color switch, so piped output stays plain.
func Colorize(diff string) string {
	if diff == "" || color.NoColor {
		return diff
	}
	lines := strings.SplitAfter(diff, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			sb.WriteString(headerColor.Sprint(text))
		case strings.HasPrefix(line, "@@"):
			sb.WriteString(hunkColor.Sprint(text))
		case strings.HasPrefix(line, "+"):
			sb.WriteString(addColor.Sprint(text))
		case strings.HasPrefix(line, "-"):
			sb.WriteString(delColor.Sprint(text))
		default:
			sb.WriteString(text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// splitKeep splits text into lines keeping the terminators, so CRLF
// files diff without false changes. An empty string has no lines.
func splitKeep(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type opKind byte

const (
	opSame opKind = iota
	opDel         // line only in before
	opAdd         // line only in after
)

// op is one step of the edit script. a and b index into the before and
// after line slices; -1 marks the absent side.
type op struct {
	kind opKind
	a, b int
}

// shortestEdits runs Myers' greedy shortest-edit-script search over the
// two line slices and returns the forward edit script.
func shortestEdits(a, b []string) []op {
	n, m := len(a), len(b)
	size := n + m
	if size == 0 {
		return nil
	}

	// frontier[k+size] holds the farthest x reached on diagonal k = x-y.
	frontier := make([]int, 2*size+1)
	var trace [][]int

	for d := 0; d <= size; d++ {
		snapshot := make([]int, len(frontier))
		copy(snapshot, frontier)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && frontier[k-1+size] < frontier[k+1+size]) {
				x = frontier[k+1+size]
			} else {
				x = frontier[k-1+size] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			frontier[k+size] = x
			if x >= n && y >= m {
				return walkBack(trace, a, b, d, size)
			}
		}
	}
	return nil
}

// walkBack reconstructs the edit script from the saved frontiers.
func walkBack(trace [][]int, a, b []string, d, size int) []op {
	x, y := len(a), len(b)
	var script []op

	for step := d; step > 0; step-- {
		frontier := trace[step]
		k := x - y

		down := k == -step || (k != step && frontier[k-1+size] < frontier[k+1+size])
		prevK := k - 1
		if down {
			prevK = k + 1
		}
		prevX := frontier[prevK+size]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			script = append(script, op{kind: opSame, a: x, b: y})
		}
		if down {
			y--
			script = append(script, op{kind: opAdd, a: -1, b: y})
		} else {
			x--
			script = append(script, op{kind: opDel, a: x, b: -1})
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		script = append(script, op{kind: opSame, a: x, b: y})
	}

	for i, j := 0, len(script)-1; i < j; i, j = i+1, j-1 {
		script[i], script[j] = script[j], script[i]
	}
	return script
}

// hunk is a run of edits plus surrounding context, ready to render.
type hunk struct {
	aStart, aCount int
	bStart, bCount int
	ops            []op
}

// groupHunks widens each run of changes by the context radius and merges
// runs whose context would overlap.
func groupHunks(script []op) []hunk {
	type span struct{ start, end int }
	var spans []span
	for i, o := range script {
		if o.kind == opSame {
			continue
		}
		if len(spans) > 0 && i <= spans[len(spans)-1].end+2*context+1 {
			spans[len(spans)-1].end = i
			continue
		}
		spans = append(spans, span{start: i, end: i})
	}

	hunks := make([]hunk, 0, len(spans))
	for _, s := range spans {
		lo := max(s.start-context, 0)
		hi := min(s.end+context, len(script)-1)
		h := hunk{ops: script[lo : hi+1]}
		for _, o := range h.ops {
			switch o.kind {
			case opSame:
				h.aCount++
				h.bCount++
			case opDel:
				h.aCount++
			case opAdd:
				h.bCount++
			}
		}
		h.aStart, h.bStart = hunkStarts(h.ops)
		hunks = append(hunks, h)
	}
	return hunks
}

func hunkStarts(ops []op) (aStart, bStart int) {
	aStart, bStart = -1, -1
	for _, o := range ops {
		if aStart < 0 && o.a >= 0 {
			aStart = o.a
		}
		if bStart < 0 && o.b >= 0 {
			bStart = o.b
		}
		if aStart >= 0 && bStart >= 0 {
			break
		}
	}
	return aStart, bStart
}

func (h *hunk) render(sb *strings.Builder, a, b []string) {
	fmt.Fprintf(sb, "@@ -%s +%s @@\n", lineRef(h.aStart, h.aCount), lineRef(h.bStart, h.bCount))
	for _, o := range h.ops {
		switch o.kind {
		case opSame:
			sb.WriteByte(' ')
			sb.WriteString(fullLine(a[o.a]))
		case opDel:
			sb.WriteByte('-')
			sb.WriteString(fullLine(a[o.a]))
		case opAdd:
			sb.WriteByte('+')
			sb.WriteString(fullLine(b[o.b]))
		}
	}
}

// lineRef formats one side of a hunk header. A side with no lines at
// all (whole-file insert or delete) renders as the conventional 0,0.
func lineRef(start, count int) string {
	if count == 0 {
		return "0,0"
	}
	return fmt.Sprintf("%d,%d", start+1, count)
}

func fullLine(line string) string {
	if strings.HasSuffix(line, "\n") {
		return line
	}
	return line + "\n"
}
