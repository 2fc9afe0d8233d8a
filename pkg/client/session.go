package client

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Route tells the caller where to send the user after an auth operation.
type Route string

const (
	RouteLogin            Route = "login"
	RouteLevelSelect      Route = "level-select"
	RouteStudentDashboard Route = "student-dashboard"
	RouteTeacherDashboard Route = "teacher-dashboard"
	RouteParentDashboard  Route = "parent-dashboard"
)

// Session is the client-side view of the authenticated user. Badges are
// carried as a set of codes.
type Session struct {
	UserID      uint     `json:"userId"`
	Role        string   `json:"role"`
	DisplayName string   `json:"displayName"`
	Points      int      `json:"points"`
	Level       int      `json:"level"`
	Badges      []string `json:"badges,omitempty"`
	GradeLevel  string   `json:"gradeLevel,omitempty"`
}

func sessionFromUser(u *User) *Session {
	s := &Session{
		UserID:      u.ID,
		Role:        u.Role,
		DisplayName: u.Name,
		Points:      u.Points,
		Level:       u.Level,
		GradeLevel:  u.GradeLevel,
	}
	for _, b := range u.Badges {
		s.Badges = append(s.Badges, b.Code)
	}
	sort.Strings(s.Badges)
	return s
}

// Equal compares field by field; badge order is irrelevant.
func (s *Session) Equal(o *Session) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.UserID != o.UserID || s.Role != o.Role || s.DisplayName != o.DisplayName ||
		s.Points != o.Points || s.Level != o.Level || s.GradeLevel != o.GradeLevel {
		return false
	}
	if len(s.Badges) != len(o.Badges) {
		return false
	}
	a := append([]string(nil), s.Badges...)
	b := append([]string(nil), o.Badges...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Badges = append([]string(nil), s.Badges...)
	return &c
}

// SessionPatch is a partial session update; nil fields are left untouched.
type SessionPatch struct {
	DisplayName *string
	Points      *int
	Level       *int
	Badges      []string
	GradeLevel  *string
}

const (
	sessionStaleAfter = 30 * time.Second
	dashboardTimeout  = 10 * time.Second
)

// SessionStore is the single source of truth for "who is logged in". It
// hydrates instantly from the persisted snapshot and reconciles with the
// server in the background, so callers never block on the network to render.
type SessionStore struct {
	api   *Client
	store StateStore
	now   func() time.Time

	mu       sync.Mutex
	session  *Session
	fetching bool
	epoch    uint64
	subs     map[int]func(*Session)
	nextSub  int
}

func NewSessionStore(api *Client, store StateStore) *SessionStore {
	return &SessionStore{
		api:   api,
		store: store,
		now:   time.Now,
		subs:  map[int]func(*Session){},
	}
}

// Subscribe registers a callback invoked on every session change; a nil
// session means logged out. The returned function unsubscribes.
func (s *SessionStore) Subscribe(fn func(*Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) notifyLocked() []func(*Session) {
	fns := make([]func(*Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return fns
}

func (s *SessionStore) notify(session *Session) {
	s.mu.Lock()
	fns := s.notifyLocked()
	s.mu.Unlock()
	for _, fn := range fns {
		fn(session)
	}
}

// Current returns the in-memory session, nil when logged out.
func (s *SessionStore) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Restore hydrates the session on startup. With no persisted token the
// session is nil. With a token, the cached snapshot is applied immediately;
// when the snapshot is older than 30 seconds an authoritative fetch runs in
// the background. Concurrent calls while a fetch is in flight are dropped,
// not queued.
func (s *SessionStore) Restore(ctx context.Context) *Session {
	token, ok := s.store.Get(KeyToken)
	if !ok || token == "" {
		s.mu.Lock()
		s.session = nil
		s.mu.Unlock()
		return nil
	}
	s.api.SetToken(token)

	var cached *Session
	if raw, ok := s.store.Get(KeyUser); ok {
		var snap Session
		if err := json.Unmarshal([]byte(raw), &snap); err == nil {
			cached = &snap
		}
	}

	s.mu.Lock()
	s.session = cached
	s.mu.Unlock()

	if cached == nil || s.snapshotStale() {
		s.refreshInBackground(ctx)
	}
	return cached
}

func (s *SessionStore) snapshotStale() bool {
	raw, ok := s.store.Get(KeyLastFetch)
	if !ok {
		return true
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	return s.now().Sub(time.Unix(unix, 0)) > sessionStaleAfter
}

// refreshInBackground runs one authoritative fetch. The guard ensures at
// most one is in flight; later callers are ignored, first wins.
func (s *SessionStore) refreshInBackground(ctx context.Context) {
	s.mu.Lock()
	if s.fetching {
		s.mu.Unlock()
		return
	}
	s.fetching = true
	started := s.epoch
	s.mu.Unlock()

	go s.refresh(ctx, started)
}

// refresh resolves the in-flight authoritative fetch. The epoch captured at
// launch fences it: a logout or login that landed in the meantime makes the
// result stale, and a stale result must not touch the store or the session.
func (s *SessionStore) refresh(ctx context.Context, started uint64) {
	user, err := s.api.Me(ctx)

	s.mu.Lock()
	s.fetching = false
	stale := s.epoch != started
	s.mu.Unlock()
	if stale {
		return
	}

	if err != nil {
		if IsUnauthorized(err) {
			s.Logout()
		}
		// other failures keep the stale-but-available snapshot
		return
	}

	next := sessionFromUser(user)

	s.mu.Lock()
	if s.epoch != started {
		s.mu.Unlock()
		return
	}
	s.persistSnapshot(next)
	changed := !next.Equal(s.session)
	if changed {
		s.session = next
	}
	s.mu.Unlock()

	if changed {
		s.notify(next)
	}
}

func (s *SessionStore) persistUser(session *Session) {
	raw, _ := json.Marshal(session)
	s.store.Set(KeyUser, string(raw))
	if session.GradeLevel != "" {
		s.store.Set(KeyGradeLevel, session.GradeLevel)
	}
}

// persistSnapshot additionally stamps the last-fetch time, so it is only
// for sessions that came from the server. Local merges go through
// persistUser and leave the staleness clock alone.
func (s *SessionStore) persistSnapshot(session *Session) {
	s.persistUser(session)
	s.store.Set(KeyLastFetch, strconv.FormatInt(s.now().Unix(), 10))
}

func (s *SessionStore) adopt(token string, user *User) *Session {
	s.api.SetToken(token)
	s.store.Set(KeyToken, token)

	session := sessionFromUser(user)
	s.persistSnapshot(session)

	s.mu.Lock()
	s.session = session
	s.epoch++ // invalidate any fetch still in flight for the previous identity
	s.mu.Unlock()
	s.notify(session)
	return session
}

func routeFor(session *Session) Route {
	switch session.Role {
	case "teacher":
		return RouteTeacherDashboard
	case "parent":
		return RouteParentDashboard
	default:
		if session.GradeLevel == "" {
			return RouteLevelSelect
		}
		return RouteStudentDashboard
	}
}

// Login authenticates and persists the session, returning where to send the
// user next. On failure any partial state is cleared.
func (s *SessionStore) Login(ctx context.Context, email, password string) (Route, error) {
	token, user, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.Logout()
		return RouteLogin, err
	}
	return routeFor(s.adopt(token, user)), nil
}

// Register creates the account, persists the session and routes onward,
// mirroring Login.
func (s *SessionStore) Register(ctx context.Context, req RegisterRequest) (Route, error) {
	token, user, err := s.api.Register(ctx, req)
	if err != nil {
		s.Logout()
		return RouteLogin, err
	}
	return routeFor(s.adopt(token, user)), nil
}

// Logout clears credential, cache and in-memory session. Idempotent.
func (s *SessionStore) Logout() {
	s.store.Delete(KeyToken)
	s.store.Delete(KeyUser)
	s.store.Delete(KeyGradeLevel)
	s.store.Delete(KeyLastFetch)
	s.api.SetToken("")

	s.mu.Lock()
	hadSession := s.session != nil
	s.session = nil
	s.epoch++ // a fetch resolving after this point must be discarded
	s.mu.Unlock()

	if hadSession {
		s.notify(nil)
	}
}

// UpdateSession merges a partial record into the current session. When the
// merge changes nothing the identical pointer comes back, so callers can
// skip redundant re-renders on pointer equality.
func (s *SessionStore) UpdateSession(patch SessionPatch) *Session {
	s.mu.Lock()
	current := s.session
	s.mu.Unlock()
	if current == nil {
		return nil
	}

	next := current.clone()
	if patch.DisplayName != nil {
		next.DisplayName = *patch.DisplayName
	}
	if patch.Points != nil {
		next.Points = *patch.Points
	}
	if patch.Level != nil {
		next.Level = *patch.Level
	}
	if patch.Badges != nil {
		next.Badges = append([]string(nil), patch.Badges...)
		sort.Strings(next.Badges)
	}
	if patch.GradeLevel != nil {
		next.GradeLevel = *patch.GradeLevel
	}

	if next.Equal(current) {
		return current
	}

	// a local merge is not an authoritative fetch; the staleness clock
	// keeps running so the next reconcile still happens on schedule
	s.persistUser(next)
	s.mu.Lock()
	s.session = next
	s.mu.Unlock()
	s.notify(next)
	return next
}

// LoadDashboard fetches the student dashboard under the fixed 10 second
// budget. A timeout is terminal; the caller offers a manual retry, the SDK
// never retries on its own.
func (s *SessionStore) LoadDashboard(ctx context.Context) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, dashboardTimeout)
	defer cancel()

	raw, err := s.api.Dashboard(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			s.Logout()
		}
		return nil, err
	}
	return raw, nil
}
