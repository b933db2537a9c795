package scoring

import (
	"time"

	"reelscore/internal/config"
)

// ObservedMetrics is one checkback snapshot of platform numbers for a post.
type ObservedMetrics struct {
	PostID      string
	VideoID     string
	Platform    string
	ContentType string
	Followers   int64
	Views       int64
	Likes       int64
	Comments    int64
	Shares      int64
	Saves       int64
	PostedAt    time.Time
	ObservedAt  time.Time
}

// EngagementRate returns (likes+comments+shares)/views, zero when there are
// no views yet.
func (m ObservedMetrics) EngagementRate() float64 {
	if m.Views <= 0 {
		return 0
	}
	return float64(m.Likes+m.Comments+m.Shares) / float64(m.Views)
}

// PostWeights blends the three post-publish components. The zero value falls
// back to the repository defaults.
type PostWeights struct {
	Size     float64
	Platform float64
	Decay    float64
}

func (w PostWeights) orDefault() PostWeights {
	if w.Size+w.Platform+w.Decay <= 0 {
		return PostWeights{Size: 0.4, Platform: 0.35, Decay: 0.25}
	}
	return w
}

// PostScore is how a published post actually performed relative to the
// account's size and the platform's norms at one checkback.
type PostScore struct {
	PostID string
	// SizeRatio is observed views over the views an account of this size
	// would be expected to draw.
	SizeRatio      float64
	EngagementRate float64
	DecayWeight    float64
	Score          float64 // [0,100]
}

// ComputePost scores one metrics snapshot against the platform baseline.
// The engagement component compares the post's rate to the platform norm,
// the size component normalizes raw views by follower count, and the decay
// component discounts engagement earned long after posting.
func ComputePost(metrics ObservedMetrics, baseline config.Platform, buckets []config.DecayBucket, weights PostWeights) PostScore {
	weights = weights.orDefault()

	expected := baseline.ViewsPerThousandFollowers * float64(metrics.Followers) / 1000
	if expected < 1 {
		expected = 1
	}
	sizeRatio := float64(metrics.Views) / expected

	rate := metrics.EngagementRate()
	platformRatio := 0.0
	if baseline.EngagementRate > 0 {
		platformRatio = rate / baseline.EngagementRate
	}

	decay := decayWeightFor(buckets, metrics.ObservedAt.Sub(metrics.PostedAt))

	score := 100 * (weights.Size*ratioComponent(sizeRatio) +
		weights.Platform*ratioComponent(platformRatio) +
		weights.Decay*ratioComponent(platformRatio*decay))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return PostScore{
		PostID:         metrics.PostID,
		SizeRatio:      sizeRatio,
		EngagementRate: rate,
		DecayWeight:    decay,
		Score:          score,
	}
}

// ratioComponent maps a vs-baseline ratio onto [0,1). A post exactly meeting
// its baseline lands at 0.5; the mapping is strictly increasing so better
// raw numbers always score at least as high.
func ratioComponent(ratio float64) float64 {
	if ratio <= 0 {
		return 0
	}
	return ratio / (ratio + 1)
}

// decayWeightFor picks the bucket covering the post's age. A bucket with
// MaxHours == 0 is the open-ended tail; when no bucket matches at all the
// weight is 1 so decay never zeroes a score by misconfiguration.
func decayWeightFor(buckets []config.DecayBucket, age time.Duration) float64 {
	hours := age.Hours()
	if hours < 0 {
		hours = 0
	}
	tail := 1.0
	haveTail := false
	for _, b := range buckets {
		if b.MaxHours == 0 {
			tail = b.Weight
			haveTail = true
			continue
		}
		if hours <= b.MaxHours {
			return b.Weight
		}
	}
	if haveTail {
		return tail
	}
	return 1
}
