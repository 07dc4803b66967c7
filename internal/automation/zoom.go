package automation

import "sort"

// zoomSteps maps a browser zoom percentage to the number of zoom-out key
// combinations needed after a zoom reset. The table mirrors the default
// Chrome zoom ladder (100 → 90 → 80 → 75 → 67 → 50 → 33 → 25); the 35%
// entry is a hand-tuned approximate alias for the 33% step count and is
// preserved literally rather than derived.
var zoomSteps = map[int]int{
	100: 0,
	90:  1,
	80:  2,
	75:  3,
	67:  4,
	50:  5,
	33:  6,
	25:  7,
	35:  6,
}

// StepsForZoom maps a requested percentage to the step count of the nearest
// table entry by absolute difference. The mapping is lossy many-to-one;
// exact ties resolve to the lower percentage.
func StepsForZoom(percent int) int {
	keys := make([]int, 0, len(zoomSteps))
	for k := range zoomSteps {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if abs(k-percent) < abs(best-percent) {
			best = k
		}
	}
	return zoomSteps[best]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
