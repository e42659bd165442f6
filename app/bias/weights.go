package bias

import (
	"fmt"

	"github.com/roblanc/ClarStiri/app/source"
)

// Weights is a (left, center, right) triple in integer units so that
// distributions can be computed without floating point drift.
type Weights struct {
	Left   int
	Center int
	Right  int
}

func (w Weights) Total() int {
	return w.Left + w.Center + w.Right
}

func (w Weights) Add(o Weights) Weights {
	return Weights{Left: w.Left + o.Left, Center: w.Center + o.Center, Right: w.Right + o.Right}
}

type WeightTable map[source.Bias]Weights

// DefaultWeights holds the fine-grained table in tenths.
var DefaultWeights = WeightTable{
	source.BiasLeft:        {Left: 10},
	source.BiasCenterLeft:  {Left: 6, Center: 4},
	source.BiasCenter:      {Center: 10},
	source.BiasCenterRight: {Center: 4, Right: 6},
	source.BiasRight:       {Right: 10},
}

// BlendedWeights spreads every label across all three buckets.
var BlendedWeights = WeightTable{
	source.BiasLeft:        {Left: 80, Center: 15, Right: 5},
	source.BiasCenterLeft:  {Left: 55, Center: 35, Right: 10},
	source.BiasCenter:      {Left: 20, Center: 60, Right: 20},
	source.BiasCenterRight: {Left: 10, Center: 35, Right: 55},
	source.BiasRight:       {Left: 5, Center: 15, Right: 80},
}

func TableByName(name string) (WeightTable, error) {
	switch name {
	case "", "default":
		return DefaultWeights, nil
	case "blended":
		return BlendedWeights, nil
	default:
		return nil, fmt.Errorf("unknown weight table: %s", name)
	}
}

// Sum adds up the weights of every label. Unknown labels contribute nothing.
func (t WeightTable) Sum(labels []source.Bias) Weights {
	var total Weights
	for _, label := range labels {
		total = total.Add(t[label])
	}
	return total
}
