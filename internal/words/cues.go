package words

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lowerCaser = cases.Lower(language.Und)

// Fold normalizes a word for lexicon lookup: NFKC normalization, lowercase,
// and surrounding punctuation stripped.
func Fold(word string) string {
	folded := lowerCaser.String(norm.NFKC.String(word))
	return strings.TrimFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Lexicon holds the cue lists driving speech-function classification. The
// zero value is unusable; build one with NewLexicon so the defaults are
// always present.
type Lexicon struct {
	pain     map[string]struct{}
	step     map[string]struct{}
	cta      map[string]struct{}
	hook     map[string]struct{}
	proof    map[string]struct{}
	identity map[string]struct{}
	enemy    map[string]struct{}
	stakes   map[string]struct{}
	address  map[string]struct{}
	negators map[string]struct{}
	polarity map[string]float64
}

// Extra carries operator additions to the built-in cue lists.
type Extra struct {
	Hook       []string
	PainPoint  []string
	Step       []string
	Proof      []string
	CTA        []string
	Identity   []string
	Enemy      []string
	Credential []string
	Stakes     []string
}

var (
	defaultPain = []string{
		"stop", "wasting", "struggling", "tired", "sick", "frustrated",
		"burnout", "overwhelmed", "losing", "failing", "mistake", "problem",
		"pain", "hate", "broke", "stuck", "drowning", "exhausted", "wrong",
	}
	defaultStep = []string{
		"add", "click", "open", "use", "take", "set", "start", "create",
		"build", "write", "press", "choose", "pick", "grab", "install",
		"copy", "paste", "then", "next", "first", "second", "third", "step",
		"record", "upload", "edit", "export",
	}
	defaultCTA = []string{
		"comment", "follow", "subscribe", "share", "like", "save", "dm",
		"link", "bio", "download", "join", "signup", "tag",
	}
	defaultHook = []string{
		"what", "why", "how", "imagine", "secret", "nobody", "wait",
		"listen", "warning", "truth", "finally", "revealed",
	}
	defaultProof = []string{
		"results", "proof", "tested", "clients", "case", "data", "earned",
		"grew", "doubled", "tripled", "revenue", "certified", "featured",
	}
	defaultIdentity = []string{
		"creators", "founders", "coaches", "freelancers", "marketers",
		"developers", "entrepreneurs", "moms", "dads", "students", "nurses",
		"realtors", "agency",
	}
	defaultEnemy = []string{
		"gurus", "algorithm", "corporations", "gatekeepers", "scammers",
		"competitors", "agencies", "middlemen",
	}
	defaultStakes = []string{
		"never", "always", "every", "nothing", "everything", "forever",
		"hours", "years", "money", "thousands", "deadline", "lose", "risk",
	}
	defaultAddress = []string{"you", "your", "yours", "yourself", "i", "my", "me", "we", "our"}
	defaultNegator = []string{"not", "no", "never", "dont", "don't", "cant", "can't", "wont", "won't", "stop"}
)

// defaultPolarity is a compact sentiment lexicon. Values are in [-1,1].
var defaultPolarity = map[string]float64{
	"love": 0.9, "amazing": 0.9, "incredible": 0.85, "best": 0.8,
	"great": 0.7, "good": 0.5, "easy": 0.45, "free": 0.5, "win": 0.7,
	"winning": 0.7, "success": 0.75, "grow": 0.5, "growth": 0.5,
	"simple": 0.4, "perfect": 0.8, "insane": 0.6, "crazy": 0.45,

	"hate": -0.9, "terrible": -0.9, "awful": -0.85, "worst": -0.85,
	"bad": -0.5, "hard": -0.4, "wasting": -0.7, "waste": -0.7,
	"losing": -0.7, "lose": -0.6, "fail": -0.75, "failing": -0.75,
	"broke": -0.6, "stuck": -0.55, "tired": -0.5, "sick": -0.55,
	"frustrated": -0.65, "problem": -0.5, "pain": -0.6, "stop": -0.35,
	"struggling": -0.7, "overwhelmed": -0.65, "mistake": -0.55,
}

// NewLexicon builds the classification lexicon from the defaults plus any
// operator extensions.
func NewLexicon(extra Extra) *Lexicon {
	lex := &Lexicon{
		pain:     foldSet(defaultPain, extra.PainPoint),
		step:     foldSet(defaultStep, extra.Step),
		cta:      foldSet(defaultCTA, extra.CTA),
		hook:     foldSet(defaultHook, extra.Hook),
		proof:    foldSet(defaultProof, append(extra.Proof, extra.Credential...)),
		identity: foldSet(defaultIdentity, extra.Identity),
		enemy:    foldSet(defaultEnemy, extra.Enemy),
		stakes:   foldSet(defaultStakes, extra.Stakes),
		address:  foldSet(defaultAddress, nil),
		negators: foldSet(defaultNegator, nil),
		polarity: make(map[string]float64, len(defaultPolarity)),
	}
	for word, value := range defaultPolarity {
		lex.polarity[Fold(word)] = value
	}
	return lex
}

func foldSet(base []string, extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(base)+len(extra))
	for _, word := range base {
		set[Fold(word)] = struct{}{}
	}
	for _, word := range extra {
		if folded := Fold(word); folded != "" {
			set[folded] = struct{}{}
		}
	}
	return set
}

// Classify decides the speech function of the word at index i given its
// folded form and the folded forms of its neighbors. Precedence: CTA, pain
// point, step, proof, hook, neutral. CTA additionally requires first or
// second person address within two words, since "share" or "save" alone is
// ambiguous; the core CTA verbs (comment/follow/subscribe) stand alone.
func (l *Lexicon) Classify(folded []string, i int) SpeechFunction {
	word := folded[i]
	if word == "" {
		return FunctionNeutral
	}
	if _, ok := l.cta[word]; ok {
		if standaloneCTA(word) || l.addressNearby(folded, i, 2) {
			return FunctionCTA
		}
	}
	if _, ok := l.pain[word]; ok {
		return FunctionPainPoint
	}
	if _, ok := l.step[word]; ok {
		return FunctionStep
	}
	if _, ok := l.proof[word]; ok {
		return FunctionProof
	}
	if _, ok := l.hook[word]; ok {
		return FunctionHook
	}
	return FunctionNeutral
}

func standaloneCTA(word string) bool {
	switch word {
	case "comment", "follow", "subscribe", "dm":
		return true
	default:
		return false
	}
}

func (l *Lexicon) addressNearby(folded []string, i, radius int) bool {
	for j := i - radius; j <= i+radius; j++ {
		if j < 0 || j >= len(folded) || j == i {
			continue
		}
		if _, ok := l.address[folded[j]]; ok {
			return true
		}
	}
	return false
}

// Sentiment returns the lexicon polarity for the word at index i, flipping
// sign when the previous word negates it.
func (l *Lexicon) Sentiment(folded []string, i int) float64 {
	value, ok := l.polarity[folded[i]]
	if !ok {
		return 0
	}
	if i > 0 {
		if _, negated := l.negators[folded[i-1]]; negated {
			return -value
		}
	}
	return value
}

// IsIdentityCall reports whether the word names a specific audience.
func (l *Lexicon) IsIdentityCall(folded string) bool {
	_, ok := l.identity[folded]
	return ok
}

// IsSharedEnemy reports whether the word names a common adversary.
func (l *Lexicon) IsSharedEnemy(folded string) bool {
	_, ok := l.enemy[folded]
	return ok
}

// IsStakes reports whether the word raises stakes or urgency.
func (l *Lexicon) IsStakes(folded string) bool {
	_, ok := l.stakes[folded]
	return ok
}

// IsProofWord reports whether the word signals credentials or results.
func (l *Lexicon) IsProofWord(folded string) bool {
	_, ok := l.proof[folded]
	return ok
}

// IsAddress reports whether the word is first or second person address.
func (l *Lexicon) IsAddress(folded string) bool {
	_, ok := l.address[folded]
	return ok
}
