// Package grader implements the scoring rules for every exercise shape in
// the platform. Grading is pure: given the static exercise spec and a
// submission it always produces the same result, so each rule is unit
// testable in isolation. Exercise specs are authored as JSON (the Spec type)
// and stored as versioned content alongside the exercise record.
package grader

import (
	"errors"
	"math"
	"strings"
)

type Kind string

const (
	KindChoice        Kind = "choice"
	KindMulti         Kind = "multi"
	KindShort         Kind = "short"
	KindMatching      Kind = "matching"
	KindDragSequence  Kind = "drag-sequence"
	KindMCQSet        Kind = "mcq-set"
	KindScenario      Kind = "scenario"
	KindStickerRepair Kind = "sticker-repair"
)

var (
	ErrUnknownKind     = errors.New("unknown exercise kind")
	ErrInvalidSpec     = errors.New("invalid exercise spec")
	ErrEmptySubmission = errors.New("empty submission")
)

// Option is one selectable answer of a multi-select exercise.
type Option struct {
	ID      string `json:"id"`
	Correct bool   `json:"correct"`
}

// Pair is one left/right association of a matching exercise.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// SubQuestion is one item of an mcq-set exercise.
type SubQuestion struct {
	ID            string `json:"id"`
	CorrectChoice string `json:"correctChoice"`
}

// Spec is the static specification of an exercise. Only the fields relevant
// to the Kind are populated.
type Spec struct {
	Kind     Kind `json:"kind"`
	MaxScore int  `json:"maxScore"`

	CorrectChoice string        `json:"correctChoice,omitempty"` // choice, scenario, sticker-repair
	Options       []Option      `json:"options,omitempty"`       // multi
	Keywords      []string      `json:"keywords,omitempty"`      // short
	Pairs         []Pair        `json:"pairs,omitempty"`         // matching
	CorrectOrder  []string      `json:"correctOrder,omitempty"`  // drag-sequence
	SubQuestions  []SubQuestion `json:"subQuestions,omitempty"`  // mcq-set
}

// Submission is the polymorphic answer payload. Only the field matching the
// spec's Kind is read.
type Submission struct {
	Choice     string            `json:"choice,omitempty"`
	Selected   []string          `json:"selected,omitempty"`
	Text       string            `json:"text,omitempty"`
	Pairing    map[string]string `json:"pairing,omitempty"` // left -> right
	Order      []string          `json:"order,omitempty"`
	SubAnswers map[string]string `json:"subAnswers,omitempty"` // subQuestionID -> choice
}

// Result is the outcome of grading a submission.
type Result struct {
	Score    int  `json:"score"`
	MaxScore int  `json:"maxScore"`
	Passed   bool `json:"passed"`
}

// PassThreshold reports whether a score passes the uniform 70% cutoff.
// Comparison is done on integers to avoid float edge cases.
func PassThreshold(score, maxScore int) bool {
	return score*10 >= maxScore*7
}

func result(score, maxScore int) Result {
	if score < 0 {
		score = 0
	}
	if score > maxScore {
		score = maxScore
	}
	return Result{Score: score, MaxScore: maxScore, Passed: PassThreshold(score, maxScore)}
}

// roundShare scales maxScore by num/den with round-half-up semantics.
func roundShare(maxScore, num, den int) int {
	return int(math.Round(float64(maxScore) * float64(num) / float64(den)))
}

// Grade scores a submission against its spec. The returned score always
// satisfies 0 <= score <= spec.MaxScore.
func Grade(spec Spec, sub Submission) (Result, error) {
	if spec.MaxScore <= 0 {
		return Result{}, ErrInvalidSpec
	}

	switch spec.Kind {
	case KindChoice, KindScenario, KindStickerRepair:
		return gradeChoice(spec, sub)
	case KindMulti:
		return gradeMulti(spec, sub)
	case KindShort:
		return gradeShort(spec, sub)
	case KindMatching:
		return gradeMatching(spec, sub)
	case KindDragSequence:
		return gradeDragSequence(spec, sub)
	case KindMCQSet:
		return gradeMCQSet(spec, sub)
	default:
		return Result{}, ErrUnknownKind
	}
}

// gradeChoice: full points if the single selection equals the designated
// correct option, else zero. Scenario and sticker-repair share the shape.
func gradeChoice(spec Spec, sub Submission) (Result, error) {
	if spec.CorrectChoice == "" {
		return Result{}, ErrInvalidSpec
	}
	if sub.Choice == "" {
		return Result{}, ErrEmptySubmission
	}
	if sub.Choice == spec.CorrectChoice {
		return result(spec.MaxScore, spec.MaxScore), nil
	}
	return result(0, spec.MaxScore), nil
}

// gradeMulti applies signed partial credit: every correct selection counts
// +1, every incorrect selection counts -1, normalized over the number of
// correct options and floored at zero.
func gradeMulti(spec Spec, sub Submission) (Result, error) {
	totalCorrect := 0
	correctSet := make(map[string]bool, len(spec.Options))
	for _, opt := range spec.Options {
		if opt.Correct {
			totalCorrect++
			correctSet[opt.ID] = true
		} else {
			correctSet[opt.ID] = false
		}
	}
	if totalCorrect == 0 {
		return Result{}, ErrInvalidSpec
	}

	correctSelected := 0
	incorrectSelected := 0
	for _, id := range sub.Selected {
		isCorrect, known := correctSet[id]
		if !known {
			continue // unknown option ids are ignored
		}
		if isCorrect {
			correctSelected++
		} else {
			incorrectSelected++
		}
	}

	raw := correctSelected - incorrectSelected
	if raw < 0 {
		raw = 0
	}
	score := roundShare(spec.MaxScore, raw, totalCorrect)
	return result(score, spec.MaxScore), nil
}

// gradeShort counts how many required keywords appear as substrings of the
// lowercased answer text.
func gradeShort(spec Spec, sub Submission) (Result, error) {
	if len(spec.Keywords) == 0 {
		return Result{}, ErrInvalidSpec
	}
	if strings.TrimSpace(sub.Text) == "" {
		return Result{}, ErrEmptySubmission
	}

	text := strings.ToLower(sub.Text)
	matched := 0
	for _, kw := range spec.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			matched++
		}
	}

	score := roundShare(spec.MaxScore, matched, len(spec.Keywords))
	return result(score, spec.MaxScore), nil
}

// gradeMatching is all-or-nothing: full marks once every left item is paired
// with its designated right item, zero otherwise. Wrong attempts during the
// interactive flow never penalize; see MatchingSession for that flow.
func gradeMatching(spec Spec, sub Submission) (Result, error) {
	if len(spec.Pairs) == 0 {
		return Result{}, ErrInvalidSpec
	}

	for _, p := range spec.Pairs {
		if sub.Pairing[p.Left] != p.Right {
			return result(0, spec.MaxScore), nil
		}
	}
	return result(spec.MaxScore, spec.MaxScore), nil
}

// gradeDragSequence scores positional accuracy of the submitted order.
func gradeDragSequence(spec Spec, sub Submission) (Result, error) {
	n := len(spec.CorrectOrder)
	if n == 0 {
		return Result{}, ErrInvalidSpec
	}
	if len(sub.Order) == 0 {
		return Result{}, ErrEmptySubmission
	}

	correct := 0
	for i, want := range spec.CorrectOrder {
		if i < len(sub.Order) && sub.Order[i] == want {
			correct++
		}
	}

	score := roundShare(spec.MaxScore, correct, n)
	return result(score, spec.MaxScore), nil
}

// gradeMCQSet scores the fraction of correctly answered sub-questions.
func gradeMCQSet(spec Spec, sub Submission) (Result, error) {
	n := len(spec.SubQuestions)
	if n == 0 {
		return Result{}, ErrInvalidSpec
	}

	correct := 0
	for _, q := range spec.SubQuestions {
		if sub.SubAnswers[q.ID] == q.CorrectChoice {
			correct++
		}
	}

	score := roundShare(spec.MaxScore, correct, n)
	return result(score, spec.MaxScore), nil
}
