package grader

// MatchingSession drives the interactive matching flow: a correct pair is
// locked in and cannot be re-matched, a wrong pair produces transient
// feedback without touching the score. Score stays at zero until every left
// item is locked, then jumps to full marks.
type MatchingSession struct {
	spec   Spec
	want   map[string]string // left -> correct right
	locked map[string]bool   // left items already matched
}

func NewMatchingSession(spec Spec) (*MatchingSession, error) {
	if spec.Kind != KindMatching || len(spec.Pairs) == 0 || spec.MaxScore <= 0 {
		return nil, ErrInvalidSpec
	}
	want := make(map[string]string, len(spec.Pairs))
	for _, p := range spec.Pairs {
		want[p.Left] = p.Right
	}
	return &MatchingSession{
		spec:   spec,
		want:   want,
		locked: make(map[string]bool, len(spec.Pairs)),
	}, nil
}

// TryPair attempts to match left with right. It reports whether the pair was
// correct; an already-locked left item is a no-op reported as correct.
func (s *MatchingSession) TryPair(left, right string) bool {
	if s.locked[left] {
		return true
	}
	if s.want[left] == right {
		s.locked[left] = true
		return true
	}
	return false
}

// Locked reports whether a left item has been correctly matched.
func (s *MatchingSession) Locked(left string) bool {
	return s.locked[left]
}

// Complete reports whether every left item is matched.
func (s *MatchingSession) Complete() bool {
	return len(s.locked) == len(s.want)
}

// Result returns the current score: zero until complete, full marks after.
func (s *MatchingSession) Result() Result {
	if s.Complete() {
		return result(s.spec.MaxScore, s.spec.MaxScore)
	}
	return result(0, s.spec.MaxScore)
}
