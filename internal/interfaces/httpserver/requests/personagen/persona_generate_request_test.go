package personagen

import "testing"

func TestEffectiveCount(t *testing.T) {
	cases := []struct {
		action string
		count  int
		want   int
	}{
		{"", 0, 1},
		{"single", 0, 1},
		{"single", 7, 7},
		{"multiple", 0, 3},
		{"", 5, 5},
		{"multiple", 10, 10},
		{"multiple", 25, 10},
	}
	for _, tc := range cases {
		r := GenerateRequest{Action: tc.action, Count: tc.count}
		if got := r.EffectiveCount(); got != tc.want {
			t.Fatalf("EffectiveCount(action=%q,count=%d) = %d, want %d", tc.action, tc.count, got, tc.want)
		}
	}
}
