package sentiment

import (
	"strings"
)

// Polarity is the coarse sentiment of a text.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
	Neutral  Polarity = "neutral"
)

// Decision is the detected polarity with its keyword score and confidence.
type Decision struct {
	Polarity Polarity
	Score    int
	// Confidence is the winning share of all keyword hits, 0 when nothing matched.
	Confidence float32
}

var keywordBuckets = map[Polarity][]string{
	Positive: {
		"좋아", "좋다", "좋은", "좋네", "행복", "기뻐", "기쁘", "신나", "재밌", "재미있", "고마워", "감사", "사랑",
		"최고", "멋져", "멋지", "훌륭", "축하", "다행", "반가", "설레", "응원", "힘내", "대박", "웃겨", "ㅋㅋ", "ㅎㅎ",
		"happy", "glad", "great", "awesome", "amazing", "love", "thanks", "thank you", "wonderful", "nice", "fun",
	},
	Negative: {
		"싫어", "싫다", "슬퍼", "슬프", "우울", "화나", "짜증", "힘들", "괴로", "아파", "아프", "외로", "무서",
		"걱정", "불안", "실망", "최악", "미안", "죄송", "속상", "눈물", "ㅠㅠ", "ㅜㅜ", "지겨", "지쳐", "피곤",
		"sad", "angry", "hate", "terrible", "awful", "sorry", "upset", "tired", "lonely", "afraid", "worried",
	},
}

// negators flip the polarity of the clause they appear in.
var negators = []string{"안 ", "않", "못 ", "없어", "없다", "not ", "n't", "never"}

// Analyze infers the polarity of text from keyword hits.
func Analyze(text string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return Decision{Polarity: Neutral}
	}

	scores := make(map[Polarity]int)
	for _, clause := range splitClauses(normalized) {
		negated := containsAny(clause, negators)
		for polarity, keywords := range keywordBuckets {
			for _, word := range keywords {
				if !strings.Contains(clause, word) {
					continue
				}
				target := polarity
				if negated {
					target = flip(polarity)
				}
				scores[target] += 3
			}
		}
	}

	exclamations := strings.Count(text, "!")
	if exclamations > 0 && scores[Positive] > 0 {
		scores[Positive] += exclamations
	}

	pos, neg := scores[Positive], scores[Negative]
	total := pos + neg
	switch {
	case total == 0 || pos == neg:
		return Decision{Polarity: Neutral, Score: total}
	case pos > neg:
		return Decision{Polarity: Positive, Score: pos, Confidence: float32(pos) / float32(total)}
	default:
		return Decision{Polarity: Negative, Score: neg, Confidence: float32(neg) / float32(total)}
	}
}

func splitClauses(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', ',', '!', '?', '\n', '~':
			return true
		default:
			return false
		}
	})
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func flip(p Polarity) Polarity {
	switch p {
	case Positive:
		return Negative
	case Negative:
		return Positive
	default:
		return p
	}
}
