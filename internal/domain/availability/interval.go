package availability

import (
	"sort"
	"time"
)

// Interval is half-open: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

// Merge joins overlapping or touching intervals and returns them sorted.
func Merge(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}

	sorted := make([]Interval, len(in))
	copy(sorted, in)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	merged := []Interval{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !cur.Start.After(last.End) {
			if cur.End.After(last.End) {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

// Partition cuts open into consecutive slots of length step aligned to
// open.Start, keeping only slots that fit entirely and avoid every blocked
// interval.
func Partition(open Interval, step time.Duration, blocked []Interval) []time.Time {
	if step <= 0 || !open.End.After(open.Start) {
		return nil
	}

	var slots []time.Time
	for cur := open.Start; !cur.Add(step).After(open.End); cur = cur.Add(step) {
		slot := Interval{Start: cur, End: cur.Add(step)}
		if overlapsAny(slot, blocked) {
			continue
		}
		slots = append(slots, cur)
	}
	return slots
}

func overlapsAny(slot Interval, blocked []Interval) bool {
	for _, b := range blocked {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}
