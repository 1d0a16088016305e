package retrieval

// NormalizeDistances rescales raw distances to [0,1] with min-max
// normalization over the given result set. The scale is per-request: a
// normalized 0.3 from one query is not comparable to 0.3 from another.
// A uniform list maps every value to 0.0.
func NormalizeDistances(distances []float64) []float64 {
	if len(distances) == 0 {
		return nil
	}

	minDist, maxDist := distances[0], distances[0]
	for _, d := range distances[1:] {
		if d < minDist {
			minDist = d
		}
		if d > maxDist {
			maxDist = d
		}
	}

	normalized := make([]float64, len(distances))
	if maxDist == minDist {
		return normalized
	}
	for i, d := range distances {
		normalized[i] = (d - minDist) / (maxDist - minDist)
	}
	return normalized
}
