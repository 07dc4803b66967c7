package automation

import "testing"

func TestStepsForZoom_ExactEntries(t *testing.T) {
	cases := map[int]int{
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
	for percent, want := range cases {
		if got := StepsForZoom(percent); got != want {
			t.Errorf("StepsForZoom(%d): expected %d, got %d", percent, want, got)
		}
	}
}

func TestStepsForZoom_NearestNeighbor(t *testing.T) {
	cases := map[int]int{
		95: 1, // closer to 90 than 100
		60: 4, // closer to 67 than 50
		40: 6, // closer to 35 than 50
		30: 6, // closer to 33 than 25
		1:  7, // clamps to the lowest entry
	}
	for percent, want := range cases {
		if got := StepsForZoom(percent); got != want {
			t.Errorf("StepsForZoom(%d): expected %d, got %d", percent, want, got)
		}
	}
}

func TestStepsForZoom_TiesResolveToLowerPercentage(t *testing.T) {
	// 85 is equidistant from 80 and 90.
	if got := StepsForZoom(85); got != zoomSteps[80] {
		t.Fatalf("StepsForZoom(85): expected steps for 80%%, got %d", got)
	}
	// 29 is equidistant from 25 and 33.
	if got := StepsForZoom(29); got != zoomSteps[25] {
		t.Fatalf("StepsForZoom(29): expected steps for 25%%, got %d", got)
	}
}
