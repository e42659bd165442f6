package bias

import (
	"cmp"
	"slices"

	"github.com/roblanc/ClarStiri/app/source"
)

type Distribution struct {
	Left   int `json:"left"`
	Center int `json:"center"`
	Right  int `json:"right"`
}

var DefaultDistribution = Distribution{Left: 33, Center: 34, Right: 33}

func (d Distribution) Sum() int {
	return d.Left + d.Center + d.Right
}

// Distribute converts the summed weights of labels into integer percentages
// that always add up to exactly 100.
func (t WeightTable) Distribute(labels []source.Bias) Distribution {
	return Normalize(t.Sum(labels))
}

// Normalize floors each share and hands the leftover points out by largest
// remainder. Ties go to center, then left, then right.
func Normalize(w Weights) Distribution {
	total := w.Total()
	if w.Left < 0 || w.Center < 0 || w.Right < 0 || total <= 0 {
		return DefaultDistribution
	}

	type share struct {
		rank      int
		percent   int
		remainder int
	}

	// rank encodes the tie-break order
	shares := []share{
		{rank: 1, percent: w.Left * 100 / total, remainder: w.Left * 100 % total},
		{rank: 0, percent: w.Center * 100 / total, remainder: w.Center * 100 % total},
		{rank: 2, percent: w.Right * 100 / total, remainder: w.Right * 100 % total},
	}

	leftover := 100
	for _, s := range shares {
		leftover -= s.percent
	}

	order := []int{0, 1, 2}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(shares[b].remainder, shares[a].remainder); c != 0 {
			return c
		}
		return cmp.Compare(shares[a].rank, shares[b].rank)
	})

	for i := 0; leftover > 0; i = (i + 1) % len(order) {
		shares[order[i]].percent++
		leftover--
	}

	return Distribution{Left: shares[0].percent, Center: shares[1].percent, Right: shares[2].percent}
}
