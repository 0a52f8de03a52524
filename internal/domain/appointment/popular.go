package appointment

import (
	"sort"

	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

// PopularTimes returns up to n HH:mm values ranked by how many non-cancelled
// appointments started at them. Ties break on the earlier time.
func PopularTimes(apps []models.Appointment, n int) []string {
	if n <= 0 {
		return nil
	}

	counts := map[string]int{}
	for _, ap := range apps {
		if !Status(ap.Status).Active() || ap.SlotTime == "" {
			continue
		}
		counts[ap.SlotTime]++
	}

	times := make([]string, 0, len(counts))
	for hm := range counts {
		times = append(times, hm)
	}
	sort.Slice(times, func(i, j int) bool {
		if counts[times[i]] != counts[times[j]] {
			return counts[times[i]] > counts[times[j]]
		}
		return times[i] < times[j]
	})

	if len(times) > n {
		times = times[:n]
	}
	return times
}
