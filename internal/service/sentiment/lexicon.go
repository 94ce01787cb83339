package sentiment

import (
	"context"

	analysis "github.com/zhouzirui/mingginyu/backend/internal/analysis/sentiment"
)

// LexiconClassifier classifies offline with the keyword heuristic.
type LexiconClassifier struct{}

// Classify implements Classifier.
func (LexiconClassifier) Classify(_ context.Context, text string) (Result, error) {
	decision := analysis.Analyze(text)
	return Result{Label: string(decision.Polarity), Score: decision.Confidence}, nil
}
