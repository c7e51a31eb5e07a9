package confidence

import (
	"strings"
	"unicode/utf8"

	"policylens/internal/models"
)

// Weights for the additive confidence model. The values were tuned
// empirically; treat them as product constants, not derived quantities.
type Weights struct {
	LengthShort    float64
	LengthMedium   float64
	LengthLong     float64
	MaxSimFactor   float64
	MaxSimCap      float64
	AvgSimFactor   float64
	AvgSimCap      float64
	ManySources    float64
	TermStep       float64
	TermCap        float64
	DigitBonus     float64
	AmountBonus    float64
	PhraseStep     float64
	PhraseCap      float64
	UncertaintyMul float64
	ShortNoSrcMul  float64
}

func DefaultWeights() Weights {
	return Weights{
		LengthShort:    0.15,
		LengthMedium:   0.10,
		LengthLong:     0.10,
		MaxSimFactor:   0.3,
		MaxSimCap:      0.30,
		AvgSimFactor:   0.15,
		AvgSimCap:      0.15,
		ManySources:    0.05,
		TermStep:       0.03,
		TermCap:        0.15,
		DigitBonus:     0.05,
		AmountBonus:    0.05,
		PhraseStep:     0.03,
		PhraseCap:      0.10,
		UncertaintyMul: 0.4,
		ShortNoSrcMul:  0.5,
	}
}

var (
	policyTerms = []string{
		"policy", "coverage", "deductible", "copay", "premium",
		"claim", "benefit", "section", "rider", "endorsement",
	}
	uncertaintyPhrases = []string{
		"i'm not sure", "i don't have", "not clear",
		"cannot determine", "unable to find", "no information",
	}
	confidentPhrases = []string{
		"according to your policy", "as stated in", "specifically",
		"clearly states", "section", "page",
	}
)

type Scorer struct {
	w Weights
}

func NewScorer(w Weights) *Scorer {
	return &Scorer{w: w}
}

// Score rates how much a generated answer deserves trust, from answer
// shape, source similarity, and phrasing. Pure and deterministic for
// identical inputs; always within [0,1].
func (s *Scorer) Score(answer string, matches []models.ChunkMatch) float64 {
	score := 0.0
	lower := strings.ToLower(answer)

	// Length bands count characters, not bytes, so multibyte answers
	// land in the same band as their ASCII equivalents.
	length := utf8.RuneCountInString(answer)
	if length > 30 {
		score += s.w.LengthShort
	}
	if length > 100 {
		score += s.w.LengthMedium
	}
	if length > 250 {
		score += s.w.LengthLong
	}

	if len(matches) > 0 {
		maxSim, sum := 0.0, 0.0
		for _, m := range matches {
			if m.Similarity > maxSim {
				maxSim = m.Similarity
			}
			sum += m.Similarity
		}
		avgSim := sum / float64(len(matches))
		score += minf(maxSim*s.w.MaxSimFactor, s.w.MaxSimCap)
		score += minf(avgSim*s.w.AvgSimFactor, s.w.AvgSimCap)
		if len(matches) >= 3 {
			score += s.w.ManySources
		}
	}

	termHits := 0.0
	for _, term := range policyTerms {
		if strings.Contains(lower, term) {
			termHits += s.w.TermStep
		}
	}
	score += minf(termHits, s.w.TermCap)

	if strings.ContainsAny(answer, "0123456789") {
		score += s.w.DigitBonus
	}
	if strings.ContainsAny(answer, "$%") {
		score += s.w.AmountBonus
	}

	phraseHits := 0.0
	for _, phrase := range confidentPhrases {
		if strings.Contains(lower, phrase) {
			phraseHits += s.w.PhraseStep
		}
	}
	score += minf(phraseHits, s.w.PhraseCap)

	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(lower, phrase) {
			score *= s.w.UncertaintyMul
			break
		}
	}

	if length < 50 && len(matches) == 0 {
		score *= s.w.ShortNoSrcMul
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
