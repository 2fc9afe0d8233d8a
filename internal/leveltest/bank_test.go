package leveltest

import "testing"

func TestBankShapes(t *testing.T) {
	tests := []struct {
		level string
		count int
	}{
		{"5eme", 10},
		{"6eme", 12},
	}

	for _, tt := range tests {
		bank, err := BankFor(tt.level)
		if err != nil {
			t.Fatalf("BankFor(%s): %v", tt.level, err)
		}
		if len(bank.Questions) != tt.count {
			t.Errorf("%s: %d questions, want %d", tt.level, len(bank.Questions), tt.count)
		}
		for _, q := range bank.Questions {
			found := false
			for _, c := range q.Choices {
				if c.ID == q.CorrectChoice {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s/%s: correct choice %q not among choices", tt.level, q.ID, q.CorrectChoice)
			}
		}
	}
}

func TestCategoryBreakpoints(t *testing.T) {
	g5, _ := BankFor("5eme")
	g6, _ := BankFor("6eme")

	tests := []struct {
		bank  *Bank
		score int
		want  string
	}{
		{g5, 0, CategoryExplorer},
		{g5, 4, CategoryExplorer},
		{g5, 5, CategoryFriend},
		{g5, 7, CategoryFriend},
		{g5, 8, CategoryExpert},
		{g5, 10, CategoryExpert},
		{g6, 5, CategoryExplorer},
		{g6, 6, CategoryFriend},
		{g6, 9, CategoryFriend},
		{g6, 10, CategoryExpert},
		{g6, 12, CategoryExpert},
	}

	for _, tt := range tests {
		if got := tt.bank.CategoryFor(tt.score); got != tt.want {
			t.Errorf("%s score %d: category = %q, want %q", tt.bank.Level, tt.score, got, tt.want)
		}
	}
}
