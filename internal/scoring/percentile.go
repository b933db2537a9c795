package scoring

// RankPercentile places score within the account's own score history. Rank is
// counted ascending, so a post beating every peer lands at 100 and one losing
// to every peer lands near 0. When the history is smaller than minPeers the
// percentile is unknowable rather than wrong, and ok is false.
func RankPercentile(score float64, peers []float64, minPeers int) (percentile float64, ok bool) {
	if len(peers) < minPeers {
		return 0, false
	}
	rank := 0
	for _, p := range peers {
		if p <= score {
			rank++
		}
	}
	return 100 * float64(rank) / float64(len(peers)), true
}
