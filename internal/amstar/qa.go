package amstar

import "context"

// Answer is one extractive QA result: the supporting span and the model's
// confidence in [0,1].
type Answer struct {
	Text  string
	Score float64
}

// Answerer answers a narrow question against document text. Implementations
// must be safe for concurrent use.
type Answerer interface {
	Answer(ctx context.Context, question, text string) (Answer, error)
}

// qaAbove reports whether the answerer supports the question with a score
// above the threshold. A nil answerer or a transport error answers no.
func (e *Evaluator) qaAbove(ctx context.Context, question, text string, threshold float64) bool {
	if e.answerer == nil {
		return false
	}
	ans, err := e.answerer.Answer(ctx, question, text)
	if err != nil {
		return false
	}
	return ans.Score > threshold
}
