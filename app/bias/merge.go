package bias

const maxMergedIndicators = 5

// Merge combines the analyses attached to the members of a story. Scores and
// confidence are averaged over the non-nil analyses, entity counts are summed
// in first-seen order and indicators are deduplicated.
func Merge(analyses []*Analysis) *Analysis {
	var present []*Analysis
	for _, a := range analyses {
		if a != nil {
			present = append(present, a)
		}
	}
	if len(present) == 0 {
		return nil
	}

	merged := &Analysis{
		DetectedEntities: []EntityMention{},
		Indicators:       []string{},
	}
	index := map[string]int{}
	seen := map[string]bool{}

	for _, a := range present {
		merged.KeywordScore += a.KeywordScore
		merged.EntityScore += a.EntityScore
		merged.OverallBias += a.OverallBias
		merged.Confidence += a.Confidence

		for _, e := range a.DetectedEntities {
			if i, ok := index[e.Entity]; ok {
				merged.DetectedEntities[i].Count += e.Count
				continue
			}
			index[e.Entity] = len(merged.DetectedEntities)
			merged.DetectedEntities = append(merged.DetectedEntities, EntityMention{Entity: e.Entity, Count: e.Count})
		}

		for _, ind := range a.Indicators {
			if seen[ind] || len(merged.Indicators) >= maxMergedIndicators {
				continue
			}
			seen[ind] = true
			merged.Indicators = append(merged.Indicators, ind)
		}
	}

	n := float64(len(present))
	merged.KeywordScore /= n
	merged.EntityScore /= n
	merged.OverallBias /= n
	merged.Confidence /= n

	return merged
}
