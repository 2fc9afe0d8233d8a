package grader

import "testing"

func TestPassThreshold(t *testing.T) {
	tests := []struct {
		score, max int
		want       bool
	}{
		{0, 10, false},
		{6, 10, false},
		{7, 10, true},
		{10, 10, true},
		{69, 100, false},
		{70, 100, true},
		{14, 20, true},
		{13, 20, false},
	}

	for _, tt := range tests {
		if got := PassThreshold(tt.score, tt.max); got != tt.want {
			t.Errorf("PassThreshold(%d, %d) = %v, want %v", tt.score, tt.max, got, tt.want)
		}
	}
}

func TestGradeChoice(t *testing.T) {
	spec := Spec{Kind: KindChoice, MaxScore: 10, CorrectChoice: "b"}

	res, err := Grade(spec, Submission{Choice: "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 10 || !res.Passed {
		t.Errorf("correct choice: got %+v, want full score and passed", res)
	}

	res, err = Grade(spec, Submission{Choice: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 || res.Passed {
		t.Errorf("wrong choice: got %+v, want zero score", res)
	}

	if _, err := Grade(spec, Submission{}); err != ErrEmptySubmission {
		t.Errorf("empty choice: got err %v, want ErrEmptySubmission", err)
	}
}

func TestGradeScenarioSharesChoiceShape(t *testing.T) {
	for _, kind := range []Kind{KindScenario, KindStickerRepair} {
		spec := Spec{Kind: kind, MaxScore: 5, CorrectChoice: "sort-waste"}
		res, err := Grade(spec, Submission{Choice: "sort-waste"})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", kind, err)
		}
		if res.Score != 5 || !res.Passed {
			t.Errorf("%s: got %+v, want full score", kind, res)
		}
	}
}

func TestGradeMulti(t *testing.T) {
	spec := Spec{
		Kind:     KindMulti,
		MaxScore: 10,
		Options: []Option{
			{ID: "a", Correct: true},
			{ID: "b", Correct: true},
			{ID: "c", Correct: false},
			{ID: "d", Correct: false},
		},
	}

	tests := []struct {
		name     string
		selected []string
		want     int
	}{
		{"all correct none wrong", []string{"a", "b"}, 10},
		{"nothing selected", nil, 0},
		{"one correct one wrong of two correct", []string{"a", "c"}, 0},
		{"one correct only", []string{"b"}, 5},
		{"both correct one wrong", []string{"a", "b", "c"}, 5},
		{"all options selected", []string{"a", "b", "c", "d"}, 0},
		{"only wrong options", []string{"c", "d"}, 0},
		{"unknown ids ignored", []string{"a", "b", "zz"}, 10},
	}

	for _, tt := range tests {
		res, err := Grade(spec, Submission{Selected: tt.selected})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if res.Score != tt.want {
			t.Errorf("%s: score = %d, want %d", tt.name, res.Score, tt.want)
		}
		if res.Score < 0 || res.Score > spec.MaxScore {
			t.Errorf("%s: score %d out of bounds", tt.name, res.Score)
		}
	}
}

func TestGradeShort(t *testing.T) {
	spec := Spec{
		Kind:     KindShort,
		MaxScore: 12,
		Keywords: []string{"recycle", "compost", "Water"},
	}

	tests := []struct {
		name string
		text string
		want int
	}{
		{"all keywords", "We should RECYCLE, compost our food and save water.", 12},
		{"two of three", "Recycle paper and save water!", 8},
		{"one of three", "composting is great", 4},
		{"none", "plant trees", 0},
	}

	for _, tt := range tests {
		res, err := Grade(spec, Submission{Text: tt.text})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if res.Score != tt.want {
			t.Errorf("%s: score = %d, want %d", tt.name, res.Score, tt.want)
		}
	}

	if _, err := Grade(spec, Submission{Text: "   "}); err != ErrEmptySubmission {
		t.Errorf("blank text: got err %v, want ErrEmptySubmission", err)
	}
}

func TestGradeDragSequence(t *testing.T) {
	spec := Spec{
		Kind:         KindDragSequence,
		MaxScore:     10,
		CorrectOrder: []string{"seed", "sprout", "plant", "tree"},
	}

	tests := []struct {
		name  string
		order []string
		want  int
	}{
		{"perfect order", []string{"seed", "sprout", "plant", "tree"}, 10},
		{"two in place", []string{"seed", "plant", "sprout", "tree"}, 5},
		{"reversed", []string{"tree", "plant", "sprout", "seed"}, 0},
		{"short submission", []string{"seed"}, 3},
	}

	for _, tt := range tests {
		res, err := Grade(spec, Submission{Order: tt.order})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if res.Score != tt.want {
			t.Errorf("%s: score = %d, want %d", tt.name, res.Score, tt.want)
		}
	}
}

func TestGradeMCQSet(t *testing.T) {
	spec := Spec{
		Kind:     KindMCQSet,
		MaxScore: 9,
		SubQuestions: []SubQuestion{
			{ID: "q1", CorrectChoice: "a"},
			{ID: "q2", CorrectChoice: "b"},
			{ID: "q3", CorrectChoice: "c"},
		},
	}

	res, err := Grade(spec, Submission{SubAnswers: map[string]string{"q1": "a", "q2": "b", "q3": "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 6 {
		t.Errorf("two of three: score = %d, want 6", res.Score)
	}
	if res.Passed {
		t.Errorf("two of three at 6/9 must not pass the 70%% cutoff")
	}

	res, _ = Grade(spec, Submission{SubAnswers: map[string]string{"q1": "a", "q2": "b", "q3": "c"}})
	if res.Score != 9 || !res.Passed {
		t.Errorf("all correct: got %+v, want 9 and passed", res)
	}
}

func TestGradeMatchingAllOrNothing(t *testing.T) {
	spec := Spec{
		Kind:     KindMatching,
		MaxScore: 10,
		Pairs: []Pair{
			{Left: "bottle", Right: "plastic"},
			{Left: "peel", Right: "organic"},
			{Left: "jar", Right: "glass"},
		},
	}

	res, err := Grade(spec, Submission{Pairing: map[string]string{
		"bottle": "plastic", "peel": "organic", "jar": "glass",
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 10 || !res.Passed {
		t.Errorf("complete pairing: got %+v, want full score", res)
	}

	res, _ = Grade(spec, Submission{Pairing: map[string]string{
		"bottle": "plastic", "peel": "glass", "jar": "organic",
	}})
	if res.Score != 0 {
		t.Errorf("partial pairing: score = %d, want 0", res.Score)
	}
}

func TestGradeInvalidSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"unknown kind", Spec{Kind: "puzzle", MaxScore: 10}},
		{"zero max score", Spec{Kind: KindChoice, MaxScore: 0, CorrectChoice: "a"}},
		{"multi without correct options", Spec{Kind: KindMulti, MaxScore: 10, Options: []Option{{ID: "a"}}}},
		{"short without keywords", Spec{Kind: KindShort, MaxScore: 10}},
		{"empty sequence", Spec{Kind: KindDragSequence, MaxScore: 10}},
		{"empty mcq set", Spec{Kind: KindMCQSet, MaxScore: 10}},
	}

	for _, tt := range tests {
		if _, err := Grade(tt.spec, Submission{Choice: "a", Text: "x", Order: []string{"x"}}); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}
