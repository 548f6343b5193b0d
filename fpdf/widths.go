package fpdf

import (
	"strings"

	. "github.com/tinywasm/fmt"
)

// widthRange is a run of consecutive CIDs starting at start. interval
// marks a run that was opened because consecutive CIDs repeated a width.
type widthRange struct {
	start    int
	widths   []int
	interval bool
}

// size counts the widths plus one for the interval marker, the measure the
// merge pass uses to decide whether a run is long enough to stay alone.
func (r *widthRange) size() int {
	if r.interval {
		return len(r.widths) + 1
	}
	return len(r.widths)
}

func (r *widthRange) constant() bool {
	for _, w := range r.widths[1:] {
		if w != r.widths[0] {
			return false
		}
	}
	return true
}

// encodeWidths returns the /W entry for the CIDs 1..maxCID present in
// widths. Every present CID appears exactly once.
func encodeWidths(widths map[int]int, maxCID int) string {
	ranges := collectWidthRanges(widths, maxCID)
	ranges = mergeWidthRanges(ranges)

	var b strings.Builder
	b.WriteString("/W [")
	for _, r := range ranges {
		if len(r.widths) > 1 && r.constant() {
			b.WriteString(Sprintf(" %d %d %d", r.start, r.start+len(r.widths)-1, r.widths[0]))
			continue
		}
		list := make([]string, len(r.widths))
		for i, w := range r.widths {
			list[i] = Convert(w).String()
		}
		b.WriteString(Sprintf(" %d [ %s ]\n", r.start, strings.Join(list, " ")))
	}
	b.WriteString(" ]")
	return b.String()
}

func collectWidthRanges(widths map[int]int, maxCID int) []*widthRange {
	var ranges []*widthRange
	var cur *widthRange
	prevCid := -2
	prevWidth := -1
	interval := false

	open := func(start int, ws ...int) {
		cur = &widthRange{start: start, widths: ws}
		ranges = append(ranges, cur)
	}

	for cid := 1; cid <= maxCID; cid++ {
		width, ok := widths[cid]
		if !ok {
			continue
		}
		if cid == prevCid+1 {
			if width == prevWidth {
				if width == cur.widths[0] {
					cur.widths = append(cur.widths, width)
				} else {
					// the previous CID moves into a new run of equal widths
					cur.widths = cur.widths[:len(cur.widths)-1]
					open(prevCid, prevWidth, width)
				}
				interval = true
				cur.interval = true
			} else {
				if interval {
					open(cid, width)
				} else {
					cur.widths = append(cur.widths, width)
				}
				interval = false
			}
		} else {
			open(cid, width)
			interval = false
		}
		prevCid = cid
		prevWidth = width
	}
	return ranges
}

// mergeWidthRanges folds a run into its predecessor when it starts where
// the predecessor ends and neither is a long interval.
func mergeWidthRanges(ranges []*widthRange) []*widthRange {
	merged := ranges[:0:0]
	nextStart := -1
	prevLong := false
	for _, r := range ranges {
		size := r.size()
		wasInterval := r.interval
		if len(merged) > 0 && r.start == nextStart && !prevLong && (!wasInterval || size < 4) {
			last := merged[len(merged)-1]
			last.widths = append(last.widths, r.widths...)
		} else {
			merged = append(merged, r)
		}
		nextStart = r.start + size
		if wasInterval {
			prevLong = size > 3
			r.interval = false
			nextStart--
		} else {
			prevLong = false
		}
	}
	return merged
}
