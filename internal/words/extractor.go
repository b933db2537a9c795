package words

import (
	"fmt"
	"strings"
	"unicode"
)

// Options controls extraction behaviour. Zero fields fall back to the
// package defaults used across the test corpus.
type Options struct {
	// MaxBadTimestampFraction is the fraction of missing or non-monotonic
	// word timestamps above which the transcript is rejected.
	MaxBadTimestampFraction float64
	// PacingWindowSeconds is the sliding window for words-per-minute.
	PacingWindowSeconds float64
	// Extra extends the built-in cue lists.
	Extra Extra
}

const (
	defaultMaxBadFraction = 0.05
	defaultPacingWindow   = 8.0
	fallbackWordDuration  = 0.3
)

// IncompleteTranscriptError reports a transcript whose word timing is too
// damaged to analyze.
type IncompleteTranscriptError struct {
	VideoID  string
	BadWords int
	Total    int
}

func (e *IncompleteTranscriptError) Error() string {
	return fmt.Sprintf("transcript for %s has %d/%d words with unusable timestamps", e.VideoID, e.BadWords, e.Total)
}

// Extract turns a transcript into the ordered word-event timeline plus the
// derived pacing series. Words with missing or non-monotonic timestamps are
// repaired by linear interpolation between their timed neighbors as long as
// no more than MaxBadTimestampFraction of the transcript is affected.
func Extract(transcript Transcript, opts Options) ([]Event, *PacingSeries, error) {
	if opts.MaxBadTimestampFraction <= 0 {
		opts.MaxBadTimestampFraction = defaultMaxBadFraction
	}
	if opts.PacingWindowSeconds <= 0 {
		opts.PacingWindowSeconds = defaultPacingWindow
	}
	if len(transcript.Words) == 0 {
		return nil, NewPacingSeries(nil, opts.PacingWindowSeconds), nil
	}

	timed, bad := auditTimestamps(transcript.Words)
	if float64(bad) > opts.MaxBadTimestampFraction*float64(len(transcript.Words)) {
		return nil, nil, &IncompleteTranscriptError{
			VideoID:  transcript.VideoID,
			BadWords: bad,
			Total:    len(transcript.Words),
		}
	}

	starts, ends := interpolate(transcript.Words, timed)

	lexicon := NewLexicon(opts.Extra)
	folded := make([]string, len(transcript.Words))
	for i, word := range transcript.Words {
		folded[i] = Fold(word.Text)
	}

	events := make([]Event, len(transcript.Words))
	for i, word := range transcript.Words {
		events[i] = Event{
			VideoID:      transcript.VideoID,
			Index:        i,
			Text:         word.Text,
			Start:        starts[i],
			End:          ends[i],
			Function:     lexicon.Classify(folded, i),
			Emphasis:     isEmphasis(word.Text, folded, i),
			Sentiment:    lexicon.Sentiment(folded, i),
			Question:     strings.HasSuffix(strings.TrimSpace(word.Text), "?"),
			Interpolated: !timed[i],
		}
	}

	return events, NewPacingSeries(events, opts.PacingWindowSeconds), nil
}

// auditTimestamps marks which words carry usable timing. A word is unusable
// when it has no timestamps, a negative span, or a start earlier than the
// latest usable start seen so far.
func auditTimestamps(input []TimedWord) ([]bool, int) {
	timed := make([]bool, len(input))
	bad := 0
	lastStart := -1.0
	for i, word := range input {
		ok := word.Timed && word.Start >= 0 && word.End >= word.Start && word.Start >= lastStart
		timed[i] = ok
		if ok {
			lastStart = word.Start
		} else {
			bad++
		}
	}
	return timed, bad
}

// interpolate fills timestamps for unusable words by splitting the gap
// between the surrounding timed neighbors evenly. Leading gaps are anchored
// at zero; trailing gaps extend past the last timed word using the average
// timed word duration. The returned spans are monotonic and non-overlapping.
func interpolate(input []TimedWord, timed []bool) ([]float64, []float64) {
	n := len(input)
	starts := make([]float64, n)
	ends := make([]float64, n)

	avg := averageTimedDuration(input, timed)

	i := 0
	for i < n {
		if timed[i] {
			starts[i] = input[i].Start
			ends[i] = input[i].End
			i++
			continue
		}
		// Gap [i, j) of untimed words.
		j := i
		for j < n && !timed[j] {
			j++
		}
		gapStart := 0.0
		if i > 0 {
			gapStart = ends[i-1]
		}
		var gapEnd float64
		if j < n {
			gapEnd = input[j].Start
		} else {
			gapEnd = gapStart + avg*float64(j-i)
		}
		if gapEnd < gapStart {
			gapEnd = gapStart
		}
		span := (gapEnd - gapStart) / float64(j-i)
		for k := i; k < j; k++ {
			starts[k] = gapStart + span*float64(k-i)
			ends[k] = starts[k] + span
		}
		i = j
	}

	// Coerce any residual overlaps introduced by damaged source timing.
	for i := 1; i < n; i++ {
		if starts[i] < ends[i-1] {
			starts[i] = ends[i-1]
		}
		if ends[i] < starts[i] {
			ends[i] = starts[i]
		}
	}
	return starts, ends
}

func averageTimedDuration(input []TimedWord, timed []bool) float64 {
	sum := 0.0
	count := 0
	for i, word := range input {
		if timed[i] && word.End > word.Start {
			sum += word.End - word.Start
			count++
		}
	}
	if count == 0 {
		return fallbackWordDuration
	}
	return sum / float64(count)
}

// isEmphasis reports source capitalization, numerals, or a short stressed
// repetition (same folded word within the previous two positions).
func isEmphasis(text string, folded []string, i int) bool {
	trimmed := strings.TrimFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len([]rune(trimmed)) > 1 && trimmed == strings.ToUpper(trimmed) && strings.IndexFunc(trimmed, unicode.IsLetter) >= 0 {
		return true
	}
	if strings.IndexFunc(trimmed, unicode.IsDigit) >= 0 {
		return true
	}
	word := folded[i]
	if word == "" {
		return false
	}
	for j := i - 2; j < i; j++ {
		if j >= 0 && folded[j] == word {
			return true
		}
	}
	return false
}
