package extract

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lifebox/lifebox-cli/internal/lexicon"
)

// scoreWindow is the number of runes inspected on each side of a candidate.
const scoreWindow = 40

// Score weights.
const (
	scoreDeadline         = 10
	scoreObligation       = 5
	scoreUntilSuffix      = 3
	scoreToday            = 6
	scoreTomorrow         = 5
	scoreDayAfterTomorrow = 4
	scoreWeek             = 2
	scoreFullDate         = 2
)

// ScoredCandidate is a date candidate with its deadline score.
type ScoredCandidate struct {
	Text  string
	Score int
	// Index is the byte offset of the first occurrence in the scored text,
	// or -1 when the candidate does not occur in it.
	Index int
}

// Scorer ranks date candidates by how likely each is the task deadline.
type Scorer struct {
	lex *lexicon.Lexicon
}

// NewScorer creates a Scorer backed by lex.
func NewScorer(lex *lexicon.Lexicon) *Scorer {
	return &Scorer{lex: lex}
}

// Score computes the deadline score of candidate within text.
func (s *Scorer) Score(text, candidate string) int {
	score := 0
	near := window(text, candidate, scoreWindow)

	if lexicon.ContainsAny(near, s.lex.DeadlineWords) {
		score += scoreDeadline
	}
	if lexicon.ContainsAny(near, s.lex.ObligationWords) {
		score += scoreObligation
	}
	if lexicon.HasSuffixAny(candidate, s.lex.UntilSuffixes) {
		score += scoreUntilSuffix
	}

	switch {
	case lexicon.EqualsAny(candidate, s.lex.Today):
		score += scoreToday
	case lexicon.EqualsAny(candidate, s.lex.Tomorrow):
		score += scoreTomorrow
	case lexicon.EqualsAny(candidate, s.lex.DayAfterTomorrow):
		score += scoreDayAfterTomorrow
	}

	for _, w := range s.lex.WeekMarkers {
		if w != "" && strings.Contains(candidate, w) {
			score += scoreWeek
			break
		}
	}

	if IsFullDate(candidate) {
		score += scoreFullDate
	}
	return score
}

// Rank scores candidates and orders them best first. Ties go to the
// candidate occurring earliest in text, then to candidate order.
func (s *Scorer) Rank(text string, candidates []string) []ScoredCandidate {
	ranked := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		ranked[i] = ScoredCandidate{Text: c, Score: s.Score(text, c), Index: strings.Index(text, c)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return position(ranked[i].Index) < position(ranked[j].Index)
	})
	return ranked
}

// ChooseDueAt returns the most likely deadline expression in text, verbatim.
func (s *Scorer) ChooseDueAt(text string) (string, bool) {
	cands := DateCandidates(text)
	if len(cands) == 0 {
		return "", false
	}
	return s.Rank(text, cands)[0].Text, true
}

// position sorts missing candidates after every present one.
func position(idx int) int {
	if idx < 0 {
		return int(^uint(0) >> 1)
	}
	return idx
}

// window returns the text within n runes of the first occurrence of
// candidate. When candidate does not occur, the whole text is the window.
func window(text, candidate string, n int) string {
	idx := strings.Index(text, candidate)
	if idx < 0 {
		return text
	}
	runes := []rune(text)
	start := utf8.RuneCountInString(text[:idx]) - n
	if start < 0 {
		start = 0
	}
	end := utf8.RuneCountInString(text[:idx]) + utf8.RuneCountInString(candidate) + n
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}
