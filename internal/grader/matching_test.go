package grader

import "testing"

func newThreePairSpec() Spec {
	return Spec{
		Kind:     KindMatching,
		MaxScore: 15,
		Pairs: []Pair{
			{Left: "bottle", Right: "plastic"},
			{Left: "peel", Right: "organic"},
			{Left: "jar", Right: "glass"},
		},
	}
}

func TestMatchingSession_WrongAttemptDoesNotPenalize(t *testing.T) {
	s, err := NewMatchingSession(newThreePairSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.TryPair("bottle", "plastic") {
		t.Fatal("pair 1 should be correct")
	}
	if s.TryPair("peel", "glass") {
		t.Fatal("pair 2 first attempt should be wrong")
	}
	if got := s.Result(); got.Score != 0 {
		t.Errorf("score after wrong attempt = %d, want 0", got.Score)
	}
	if !s.TryPair("peel", "organic") {
		t.Fatal("pair 2 retry should be correct")
	}
	if !s.TryPair("jar", "glass") {
		t.Fatal("pair 3 should be correct")
	}

	res := s.Result()
	if res.Score != res.MaxScore {
		t.Errorf("final score = %d, want %d", res.Score, res.MaxScore)
	}
	if !res.Passed {
		t.Error("completed matching must pass")
	}
}

func TestMatchingSession_LockedPairCannotBeRematched(t *testing.T) {
	s, _ := NewMatchingSession(newThreePairSpec())

	s.TryPair("bottle", "plastic")
	if !s.Locked("bottle") {
		t.Fatal("bottle should be locked after a correct match")
	}
	// Re-matching a locked item is a no-op reported as correct.
	if !s.TryPair("bottle", "glass") {
		t.Error("locked item re-match should report true")
	}
	if s.Complete() {
		t.Error("session should not be complete with two pairs open")
	}
}

func TestMatchingSession_IncompleteScoresZero(t *testing.T) {
	s, _ := NewMatchingSession(newThreePairSpec())
	s.TryPair("bottle", "plastic")
	s.TryPair("peel", "organic")

	res := s.Result()
	if res.Score != 0 || res.Passed {
		t.Errorf("incomplete session: got %+v, want zero unscored", res)
	}
}
