package words

// PacingSeries exposes rolling words-per-minute over a sliding window. It is
// derived from the word events and never persisted per word.
type PacingSeries struct {
	midpoints []float64
	window    float64
}

// NewPacingSeries builds the series from ordered word events.
func NewPacingSeries(events []Event, windowSeconds float64) *PacingSeries {
	if windowSeconds <= 0 {
		windowSeconds = defaultPacingWindow
	}
	midpoints := make([]float64, 0, len(events))
	for _, event := range events {
		midpoints = append(midpoints, (event.Start+event.End)/2)
	}
	return &PacingSeries{midpoints: midpoints, window: windowSeconds}
}

// Window returns the sliding window width in seconds.
func (p *PacingSeries) Window() float64 { return p.window }

// At returns words-per-minute for the window centered on t.
func (p *PacingSeries) At(t float64) float64 {
	half := p.window / 2
	count := p.countBetween(t-half, t+half)
	return float64(count) * 60 / p.window
}

// Between returns the average words-per-minute across [start, end].
func (p *PacingSeries) Between(start, end float64) float64 {
	if end <= start {
		return p.At(start)
	}
	count := p.countBetween(start, end)
	return float64(count) * 60 / (end - start)
}

func (p *PacingSeries) countBetween(lo, hi float64) int {
	// midpoints are sorted; binary search both bounds.
	left := searchFloat(p.midpoints, lo)
	right := searchFloat(p.midpoints, hi)
	if right < left {
		return 0
	}
	return right - left
}

// searchFloat returns the first index whose value is >= target.
func searchFloat(sorted []float64, target float64) int {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if sorted[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
