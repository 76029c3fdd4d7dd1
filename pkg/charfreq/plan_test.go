package charfreq

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		threads int
		want    []Range
	}{
		{
			name:    "empty text",
			length:  0,
			threads: 4,
			want:    nil,
		},
		{
			name:    "zero threads treated as one",
			length:  3,
			threads: 0,
			want:    []Range{{0, 2}},
		},
		{
			name:    "negative threads treated as one",
			length:  5,
			threads: -3,
			want:    []Range{{0, 4}},
		},
		{
			name:    "more threads than characters",
			length:  3,
			threads: 10,
			want:    []Range{{0, 0}, {1, 1}, {2, 2}},
		},
		{
			name:    "even split",
			length:  12,
			threads: 4,
			want:    []Range{{0, 2}, {3, 5}, {6, 8}, {9, 11}},
		},
		{
			name:    "remainder goes to the last ranges",
			length:  12,
			threads: 5,
			want:    []Range{{0, 1}, {2, 3}, {4, 5}, {6, 8}, {9, 11}},
		},
		{
			name:    "thirteen threads over twelve characters",
			length:  12,
			threads: 13,
			want: []Range{
				{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5},
				{6, 6}, {7, 7}, {8, 8}, {9, 9}, {10, 10}, {11, 11},
			},
		},
		{
			name:    "seven threads over twelve characters",
			length:  12,
			threads: 7,
			want:    []Range{{0, 0}, {1, 1}, {2, 3}, {4, 5}, {6, 7}, {8, 9}, {10, 11}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.length, tt.threads)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Plan(%d, %d) mismatch (-want +got):\n%s", tt.length, tt.threads, diff)
			}
		})
	}
}

func TestPlan_Coverage(t *testing.T) {
	for length := 1; length <= 64; length++ {
		for threads := -1; threads <= 70; threads++ {
			ranges := Plan(length, threads)

			want := min(max(threads, 1), length)
			if !assert.Len(t, ranges, want, "Plan(%d, %d)", length, threads) {
				continue
			}

			next, total := 0, 0
			minLen, maxLen := length, 0
			for _, r := range ranges {
				assert.Equal(t, next, r.From, "Plan(%d, %d): gap or overlap at %s", length, threads, r)
				assert.Positive(t, r.Len(), "Plan(%d, %d): empty range %s", length, threads, r)
				next = r.To + 1
				total += r.Len()
				minLen = min(minLen, r.Len())
				maxLen = max(maxLen, r.Len())
			}
			assert.Equal(t, length, total, "Plan(%d, %d): total", length, threads)
			assert.LessOrEqual(t, maxLen-minLen, 1, "Plan(%d, %d): unbalanced", length, threads)
		}
	}
}

func TestRange_Len(t *testing.T) {
	assert.Equal(t, 1, Range{From: 3, To: 3}.Len())
	assert.Equal(t, 4, Range{From: 0, To: 3}.Len())
	assert.Equal(t, 0, Range{From: 0, To: -1}.Len())
	assert.Equal(t, "[2..5]", Range{From: 2, To: 5}.String())
}
