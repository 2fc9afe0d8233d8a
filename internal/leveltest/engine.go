package leveltest

import "errors"

var (
	ErrNotInProgress      = errors.New("test is not in progress")
	ErrAlreadySubmitted   = errors.New("test already submitted")
	ErrQuestionNotCurrent = errors.New("question is not the current one")
	ErrUnanswered         = errors.New("current question has not been answered")
	ErrLastQuestion       = errors.New("last question reached, submit instead")
	ErrIncomplete         = errors.New("not all questions answered")
	ErrUnknownChoice      = errors.New("unknown choice")
)

type State int

const (
	NotStarted State = iota
	InProgress
	Submitted
)

// Answer records the student's choice for one question.
type Answer struct {
	QuestionID string `json:"questionId"`
	ChoiceID   string `json:"choiceId"`
	IsCorrect  bool   `json:"isCorrect"`
}

// Result is the immutable outcome of a submitted attempt.
type Result struct {
	Level    string   `json:"level"`
	Score    int      `json:"score"`
	Category string   `json:"category"`
	Answers  []Answer `json:"answers,omitempty"`
}

// Engine walks a student through the diagnostic test of one grade level:
// NotStarted -> InProgress(index) -> Submitted. Navigation is strictly
// forward, every question is answered exactly once, and the engine is
// terminal once submitted. A server-reported prior completion short-circuits
// straight to Submitted (the single-attempt rule is enforced server-side,
// the engine honors it client-side).
type Engine struct {
	bank    *Bank
	state   State
	index   int
	answers []Answer
	result  *Result
}

func NewEngine(level string) (*Engine, error) {
	bank, err := BankFor(level)
	if err != nil {
		return nil, err
	}
	return &Engine{bank: bank, state: NotStarted}, nil
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Level() string { return e.bank.Level }

// Start transitions to InProgress at the first question. Starting an
// in-progress or submitted test is an error.
func (e *Engine) Start() error {
	if e.state != NotStarted {
		if e.state == Submitted {
			return ErrAlreadySubmitted
		}
		return errors.New("test already started")
	}
	e.state = InProgress
	e.index = 0
	return nil
}

// Current returns the question being presented.
func (e *Engine) Current() (*Question, error) {
	if e.state != InProgress {
		return nil, ErrNotInProgress
	}
	return &e.bank.Questions[e.index], nil
}

// Answered reports whether the current question has been answered.
func (e *Engine) Answered() bool {
	return len(e.answers) > e.index
}

// AtLastQuestion reports whether the current question is the final one.
func (e *Engine) AtLastQuestion() bool {
	return e.state == InProgress && e.index == len(e.bank.Questions)-1
}

// SelectAnswer records the choice for the current question. Selecting an
// answer for an already-answered question is a silent no-op; answering any
// question other than the current one is rejected (no backward navigation,
// no skipping).
func (e *Engine) SelectAnswer(questionID, choiceID string) error {
	if e.state != InProgress {
		if e.state == Submitted {
			return ErrAlreadySubmitted
		}
		return ErrNotInProgress
	}

	q := &e.bank.Questions[e.index]
	if q.ID != questionID {
		if e.answeredQuestion(questionID) {
			return nil
		}
		return ErrQuestionNotCurrent
	}
	if e.Answered() {
		return nil
	}

	valid := false
	for _, c := range q.Choices {
		if c.ID == choiceID {
			valid = true
			break
		}
	}
	if !valid {
		return ErrUnknownChoice
	}

	e.answers = append(e.answers, Answer{
		QuestionID: q.ID,
		ChoiceID:   choiceID,
		IsCorrect:  choiceID == q.CorrectChoice,
	})
	return nil
}

func (e *Engine) answeredQuestion(questionID string) bool {
	for _, a := range e.answers {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}

// Advance moves to the next question. It requires the current question to be
// answered, and at the last question it refuses: the caller must Submit.
func (e *Engine) Advance() error {
	if e.state != InProgress {
		return ErrNotInProgress
	}
	if !e.Answered() {
		return ErrUnanswered
	}
	if e.AtLastQuestion() {
		return ErrLastQuestion
	}
	e.index++
	return nil
}

// Submit requires every question answered, computes the score and category,
// and transitions to the terminal Submitted state.
func (e *Engine) Submit() (*Result, error) {
	if e.state == Submitted {
		return nil, ErrAlreadySubmitted
	}
	if e.state != InProgress {
		return nil, ErrNotInProgress
	}
	if len(e.answers) != len(e.bank.Questions) {
		return nil, ErrIncomplete
	}

	score := 0
	for _, a := range e.answers {
		if a.IsCorrect {
			score++
		}
	}

	res := &Result{
		Level:    e.bank.Level,
		Score:    score,
		Category: e.bank.CategoryFor(score),
		Answers:  append([]Answer(nil), e.answers...),
	}
	e.state = Submitted
	e.answers = res.Answers
	e.result = res
	return res, nil
}

// AdoptServerResult puts the engine straight into Submitted with the result
// the backend reported, bypassing the questions entirely. Used when the
// status check at entry says the level was already completed.
func (e *Engine) AdoptServerResult(score int, category string) *Result {
	res := &Result{
		Level:    e.bank.Level,
		Score:    score,
		Category: category,
	}
	e.state = Submitted
	e.result = res
	return res
}

// Result returns the submitted result, or nil before submission.
func (e *Engine) Result() *Result {
	return e.result
}
