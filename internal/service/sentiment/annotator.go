package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

// Labels returned by classifiers. Anything else is treated as neutral.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Tags appended to annotated replies.
const (
	TagPositive = "(긍정적)"
	TagNegative = "(부정적)"
	TagNeutral  = "(애매해)"
)

// Result is a classifier verdict. Score is informational only.
type Result struct {
	Label string  `json:"label"`
	Score float32 `json:"score"`
}

// Classifier maps text to a sentiment label.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// Builder constructs a Classifier. It may be expensive (model load, client setup).
type Builder func(ctx context.Context) (Classifier, error)

// Tag maps a classifier label to its display tag.
func Tag(label string) string {
	switch label {
	case LabelPositive:
		return TagPositive
	case LabelNegative:
		return TagNegative
	default:
		return TagNeutral
	}
}

// Annotation is an annotated reply.
type Annotation struct {
	Text  string
	Label string
	Tag   string
}

// Annotator appends a sentiment tag to replies. The classifier is built on first
// use and reused afterwards; a failed build is retried on the next call.
// It is safe for concurrent use by many sessions.
type Annotator struct {
	build Builder

	mu         sync.Mutex
	classifier Classifier
}

// NewAnnotator returns an Annotator that builds its classifier lazily with build.
func NewAnnotator(build Builder) *Annotator {
	return &Annotator{build: build}
}

// Annotate classifies text and returns it with the matching tag appended.
func (a *Annotator) Annotate(ctx context.Context, text string) (Annotation, error) {
	classifier, err := a.get(ctx)
	if err != nil {
		return Annotation{}, err
	}

	result, err := classifier.Classify(ctx, text)
	if err != nil {
		return Annotation{}, fmt.Errorf("%w: sentiment classification failed: %v", chat.ErrExternalService, err)
	}

	label := result.Label
	tag := Tag(label)
	return Annotation{Text: text + tag, Label: label, Tag: tag}, nil
}

func (a *Annotator) get(ctx context.Context) (Classifier, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.classifier != nil {
		return a.classifier, nil
	}
	if a.build == nil {
		return nil, fmt.Errorf("%w: sentiment classifier is not configured", chat.ErrConfiguration)
	}

	classifier, err := a.build(ctx)
	if err != nil {
		if errors.Is(err, chat.ErrConfiguration) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to load sentiment classifier: %v", chat.ErrExternalService, err)
	}
	if classifier == nil {
		return nil, fmt.Errorf("%w: sentiment classifier builder returned nil", chat.ErrConfiguration)
	}

	log.Printf("[sentiment] classifier loaded: %T", classifier)
	a.classifier = classifier
	return classifier, nil
}
