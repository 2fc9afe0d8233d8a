package leveltest

import "testing"

// answerAll walks the engine through every question, answering correctly for
// the first `correct` questions and incorrectly for the rest.
func answerAll(t *testing.T, e *Engine, correct int) {
	t.Helper()
	bank, _ := BankFor(e.Level())
	for i := range bank.Questions {
		q, err := e.Current()
		if err != nil {
			t.Fatalf("Current at question %d: %v", i, err)
		}

		choice := q.CorrectChoice
		if i >= correct {
			// pick any wrong choice
			for _, c := range q.Choices {
				if c.ID != q.CorrectChoice {
					choice = c.ID
					break
				}
			}
		}

		if err := e.SelectAnswer(q.ID, choice); err != nil {
			t.Fatalf("SelectAnswer(%s): %v", q.ID, err)
		}
		if i < len(bank.Questions)-1 {
			if err := e.Advance(); err != nil {
				t.Fatalf("Advance after %s: %v", q.ID, err)
			}
		}
	}
}

func TestEngine_Grade5FullPass(t *testing.T) {
	e, err := NewEngine("5eme")
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if e.State() != NotStarted {
		t.Fatalf("state = %v, want NotStarted", e.State())
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 8 correct, 2 wrong: the concrete placement scenario.
	answerAll(t, e, 8)

	if !e.AtLastQuestion() {
		t.Fatal("expected to be at the last question")
	}
	if err := e.Advance(); err != ErrLastQuestion {
		t.Fatalf("Advance at last question: err = %v, want ErrLastQuestion", err)
	}

	res, err := e.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 8 {
		t.Errorf("score = %d, want 8", res.Score)
	}
	if res.Category != CategoryExpert {
		t.Errorf("category = %q, want %q", res.Category, CategoryExpert)
	}
	if e.State() != Submitted {
		t.Errorf("state = %v, want Submitted", e.State())
	}
}

func TestEngine_SubmittedIsTerminal(t *testing.T) {
	e, _ := NewEngine("5eme")
	e.Start()
	answerAll(t, e, 10)
	res, err := e.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := e.SelectAnswer("q5-1", "a"); err != ErrAlreadySubmitted {
		t.Errorf("SelectAnswer after submit: err = %v, want ErrAlreadySubmitted", err)
	}
	if _, err := e.Submit(); err != ErrAlreadySubmitted {
		t.Errorf("second Submit: err = %v, want ErrAlreadySubmitted", err)
	}
	if got := e.Result(); got == nil || got.Score != res.Score {
		t.Errorf("stored result changed after terminal calls: %+v", got)
	}
}

func TestEngine_SelectAnswerOncePerQuestion(t *testing.T) {
	e, _ := NewEngine("5eme")
	e.Start()
	q, _ := e.Current()

	wrong := ""
	for _, c := range q.Choices {
		if c.ID != q.CorrectChoice {
			wrong = c.ID
			break
		}
	}

	if err := e.SelectAnswer(q.ID, q.CorrectChoice); err != nil {
		t.Fatalf("first select: %v", err)
	}
	// second call for the same question is a no-op, not an overwrite
	if err := e.SelectAnswer(q.ID, wrong); err != nil {
		t.Fatalf("repeat select: %v", err)
	}
	e.Advance()
	answerRest(t, e)

	res, err := e.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Answers[0].ChoiceID != q.CorrectChoice || !res.Answers[0].IsCorrect {
		t.Errorf("first answer was overwritten: %+v", res.Answers[0])
	}
}

// answerRest answers all remaining questions correctly.
func answerRest(t *testing.T, e *Engine) {
	t.Helper()
	for {
		q, err := e.Current()
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if !e.Answered() {
			if err := e.SelectAnswer(q.ID, q.CorrectChoice); err != nil {
				t.Fatalf("SelectAnswer(%s): %v", q.ID, err)
			}
		}
		if e.AtLastQuestion() {
			return
		}
		if err := e.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
}

func TestEngine_NoSkippingOrBacktracking(t *testing.T) {
	e, _ := NewEngine("6eme")
	e.Start()

	// answering a future question is rejected
	if err := e.SelectAnswer("q6-3", "a"); err != ErrQuestionNotCurrent {
		t.Errorf("future question: err = %v, want ErrQuestionNotCurrent", err)
	}
	// advancing without answering is rejected
	if err := e.Advance(); err != ErrUnanswered {
		t.Errorf("advance unanswered: err = %v, want ErrUnanswered", err)
	}

	q, _ := e.Current()
	e.SelectAnswer(q.ID, q.CorrectChoice)
	e.Advance()

	// re-selecting a past question is a silent no-op
	if err := e.SelectAnswer(q.ID, "b"); err != nil {
		t.Errorf("past question: err = %v, want nil no-op", err)
	}
}

func TestEngine_SubmitRequiresAllAnswers(t *testing.T) {
	e, _ := NewEngine("6eme")
	e.Start()
	q, _ := e.Current()
	e.SelectAnswer(q.ID, q.CorrectChoice)

	if _, err := e.Submit(); err != ErrIncomplete {
		t.Errorf("partial submit: err = %v, want ErrIncomplete", err)
	}
}

func TestEngine_UnknownChoiceRejected(t *testing.T) {
	e, _ := NewEngine("5eme")
	e.Start()
	q, _ := e.Current()

	if err := e.SelectAnswer(q.ID, "zzz"); err != ErrUnknownChoice {
		t.Errorf("err = %v, want ErrUnknownChoice", err)
	}
	if e.Answered() {
		t.Error("invalid choice must not be recorded")
	}
}

func TestEngine_AdoptServerResult(t *testing.T) {
	e, _ := NewEngine("6eme")

	res := e.AdoptServerResult(11, CategoryExpert)
	if e.State() != Submitted {
		t.Errorf("state = %v, want Submitted", e.State())
	}
	if res.Score != 11 || res.Category != CategoryExpert {
		t.Errorf("adopted result = %+v", res)
	}
	if _, err := e.Current(); err != ErrNotInProgress {
		t.Errorf("Current after adopt: err = %v, want ErrNotInProgress", err)
	}
}

func TestEngine_UnknownLevel(t *testing.T) {
	if _, err := NewEngine("4eme"); err != ErrUnknownLevel {
		t.Errorf("err = %v, want ErrUnknownLevel", err)
	}
}
