package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": http.StatusText(status),
		"data":    data,
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func seedStore(store StateStore, session *Session, fetchedAt time.Time) {
	raw, _ := json.Marshal(session)
	store.Set(KeyToken, "tok-abc")
	store.Set(KeyUser, string(raw))
	store.Set(KeyLastFetch, strconv.FormatInt(fetchedAt.Unix(), 10))
}

func TestRestoreWithoutTokenIsLoggedOut(t *testing.T) {
	api := New("http://unused.invalid")
	ss := NewSessionStore(api, NewMemoryStore())

	if got := ss.Restore(context.Background()); got != nil {
		t.Errorf("Restore = %+v, want nil", got)
	}
	if ss.Current() != nil {
		t.Error("Current is not nil after tokenless restore")
	}
}

func TestRestoreFreshSnapshotSkipsFetch(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeEnvelope(w, http.StatusOK, User{ID: 1, Name: "Sara", Role: "student"})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	seedStore(store, &Session{UserID: 1, Role: "student", DisplayName: "Sara", GradeLevel: "5eme"}, time.Now())

	ss := NewSessionStore(New(srv.URL), store)
	got := ss.Restore(context.Background())
	if got == nil || got.DisplayName != "Sara" {
		t.Fatalf("Restore = %+v, want cached Sara session", got)
	}

	time.Sleep(150 * time.Millisecond)
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("authoritative fetch ran %d times for a fresh snapshot", n)
	}
}

func TestRestoreStaleSnapshotRefreshesInBackground(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			http.NotFound(w, r)
			return
		}
		writeEnvelope(w, http.StatusOK, User{
			ID: 1, Name: "Sara", Role: "student", Points: 120, GradeLevel: "5eme",
		})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	seedStore(store, &Session{UserID: 1, Role: "student", DisplayName: "Sara", Points: 50, GradeLevel: "5eme"},
		time.Now().Add(-time.Minute))

	ss := NewSessionStore(New(srv.URL), store)

	updates := make(chan *Session, 4)
	ss.Subscribe(func(s *Session) { updates <- s })

	got := ss.Restore(context.Background())
	if got == nil || got.Points != 50 {
		t.Fatalf("Restore hydrated %+v, want the cached 50-point snapshot", got)
	}

	select {
	case next := <-updates:
		if next == nil || next.Points != 120 {
			t.Fatalf("update = %+v, want 120 points", next)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no update after stale restore")
	}

	// the refreshed snapshot must be persisted
	raw, _ := store.Get(KeyUser)
	var snap Session
	if err := json.Unmarshal([]byte(raw), &snap); err != nil || snap.Points != 120 {
		t.Errorf("persisted snapshot = %+v (%v), want 120 points", snap, err)
	}
}

func TestRestoreIdenticalFetchDoesNotNotify(t *testing.T) {
	session := &Session{UserID: 1, Role: "student", DisplayName: "Sara", Points: 50, GradeLevel: "5eme"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, User{
			ID: 1, Name: "Sara", Role: "student", Points: 50, GradeLevel: "5eme",
		})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	seedStore(store, session, time.Now().Add(-time.Minute))

	ss := NewSessionStore(New(srv.URL), store)
	updates := make(chan *Session, 4)
	ss.Subscribe(func(s *Session) { updates <- s })

	ss.Restore(context.Background())

	// wait for the background fetch to land, then check nothing was emitted
	waitFor(t, "refreshed last-fetch stamp", func() bool {
		raw, _ := store.Get(KeyLastFetch)
		unix, _ := strconv.ParseInt(raw, 10, 64)
		return time.Since(time.Unix(unix, 0)) < 10*time.Second
	})
	select {
	case s := <-updates:
		t.Errorf("got update %+v for an identical fetch", s)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRestoreUnauthorizedTearsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil)
	}))
	defer srv.Close()

	store := NewMemoryStore()
	seedStore(store, &Session{UserID: 1, Role: "student", DisplayName: "Sara"}, time.Now().Add(-time.Minute))

	api := New(srv.URL)
	ss := NewSessionStore(api, store)

	updates := make(chan *Session, 4)
	ss.Subscribe(func(s *Session) { updates <- s })

	ss.Restore(context.Background())

	select {
	case s := <-updates:
		if s != nil {
			t.Fatalf("update = %+v, want nil logged-out signal", s)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no logged-out signal after 401")
	}

	if _, ok := store.Get(KeyToken); ok {
		t.Error("token survived teardown")
	}
	if _, ok := store.Get(KeyUser); ok {
		t.Error("snapshot survived teardown")
	}
	if ss.Current() != nil {
		t.Error("session survived teardown")
	}
	if api.Token() != "" {
		t.Error("transport token survived teardown")
	}
}

func TestRestoreTransientFailureKeepsStaleSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, nil)
	}))
	defer srv.Close()

	store := NewMemoryStore()
	seedStore(store, &Session{UserID: 1, Role: "student", DisplayName: "Sara", GradeLevel: "5eme"},
		time.Now().Add(-time.Minute))

	ss := NewSessionStore(New(srv.URL), store)
	got := ss.Restore(context.Background())
	if got == nil {
		t.Fatal("Restore returned nil, want cached session")
	}

	time.Sleep(150 * time.Millisecond)
	if ss.Current() == nil {
		t.Error("session dropped on a transient failure")
	}
	if _, ok := store.Get(KeyToken); !ok {
		t.Error("token dropped on a transient failure")
	}
}

func TestRestoreReentrancyGuard(t *testing.T) {
	var hits int32
	gate := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-gate
		writeEnvelope(w, http.StatusOK, User{ID: 1, Name: "Sara", Role: "student", GradeLevel: "5eme"})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	seedStore(store, &Session{UserID: 1, Role: "student", DisplayName: "Sara", GradeLevel: "5eme"},
		time.Now().Add(-time.Minute))

	ss := NewSessionStore(New(srv.URL), store)

	ss.Restore(context.Background())
	waitFor(t, "first fetch in flight", func() bool { return atomic.LoadInt32(&hits) == 1 })

	// while the first fetch is blocked, further restores must be dropped
	ss.Restore(context.Background())
	ss.Restore(context.Background())
	time.Sleep(100 * time.Millisecond)
	close(gate)

	waitFor(t, "fetch completion", func() bool {
		raw, _ := store.Get(KeyLastFetch)
		unix, _ := strconv.ParseInt(raw, 10, 64)
		return time.Since(time.Unix(unix, 0)) < 10*time.Second
	})
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("%d authoritative fetches ran, want exactly 1", n)
	}
}

func authServer(t *testing.T, user User) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login", "/api/auth/register":
			writeEnvelope(w, http.StatusOK, map[string]interface{}{"token": "tok-new", "user": user})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestLoginRouting(t *testing.T) {
	tests := []struct {
		name string
		user User
		want Route
	}{
		{"student with grade level", User{ID: 1, Role: "student", GradeLevel: "5eme"}, RouteStudentDashboard},
		{"student without grade level", User{ID: 2, Role: "student"}, RouteLevelSelect},
		{"teacher", User{ID: 3, Role: "teacher"}, RouteTeacherDashboard},
		{"parent", User{ID: 4, Role: "parent"}, RouteParentDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := authServer(t, tt.user)
			defer srv.Close()

			store := NewMemoryStore()
			ss := NewSessionStore(New(srv.URL), store)

			route, err := ss.Login(context.Background(), "x@y.z", "secret")
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if route != tt.want {
				t.Errorf("route = %q, want %q", route, tt.want)
			}
			if tok, _ := store.Get(KeyToken); tok != "tok-new" {
				t.Errorf("persisted token = %q, want tok-new", tok)
			}
			if ss.Current() == nil || ss.Current().UserID != tt.user.ID {
				t.Errorf("session = %+v, want user %d", ss.Current(), tt.user.ID)
			}
		})
	}
}

func TestLoginFailureClearsState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil)
	}))
	defer srv.Close()

	store := NewMemoryStore()
	store.Set(KeyToken, "leftover")
	ss := NewSessionStore(New(srv.URL), store)

	if _, err := ss.Login(context.Background(), "x@y.z", "wrong"); err == nil {
		t.Fatal("Login succeeded against a 401 server")
	}
	if _, ok := store.Get(KeyToken); ok {
		t.Error("partial state kept after failed login")
	}
	if ss.Current() != nil {
		t.Error("session set after failed login")
	}
}

func TestUpdateSessionNoopReturnsSamePointer(t *testing.T) {
	srv := authServer(t, User{ID: 1, Role: "student", Name: "Sara", Points: 50, GradeLevel: "5eme"})
	defer srv.Close()

	ss := NewSessionStore(New(srv.URL), NewMemoryStore())
	if _, err := ss.Login(context.Background(), "x@y.z", "secret"); err != nil {
		t.Fatal(err)
	}
	current := ss.Current()

	points := 50
	same := ss.UpdateSession(SessionPatch{Points: &points})
	if same != current {
		t.Error("no-op merge returned a different pointer")
	}

	higher := 80
	next := ss.UpdateSession(SessionPatch{Points: &higher})
	if next == current {
		t.Error("real merge returned the old pointer")
	}
	if next.Points != 80 {
		t.Errorf("Points = %d, want 80", next.Points)
	}
	if next.DisplayName != "Sara" {
		t.Errorf("merge lost DisplayName: %+v", next)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	srv := authServer(t, User{ID: 1, Role: "teacher", Name: "Mme K"})
	defer srv.Close()

	store := NewMemoryStore()
	ss := NewSessionStore(New(srv.URL), store)
	if _, err := ss.Login(context.Background(), "x@y.z", "secret"); err != nil {
		t.Fatal(err)
	}

	var notified int32
	ss.Subscribe(func(s *Session) {
		if s == nil {
			atomic.AddInt32(&notified, 1)
		}
	})

	ss.Logout()
	ss.Logout()

	if ss.Current() != nil {
		t.Error("session survived logout")
	}
	if _, ok := store.Get(KeyToken); ok {
		t.Error("token survived logout")
	}
	if n := atomic.LoadInt32(&notified); n != 1 {
		t.Errorf("logged-out signal fired %d times, want once", n)
	}
}

func TestLogoutDuringRefreshStaysLoggedOut(t *testing.T) {
	var hits int32
	gate := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-gate
		writeEnvelope(w, http.StatusOK, User{ID: 1, Name: "Sara", Role: "student", GradeLevel: "5eme"})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	seedStore(store, &Session{UserID: 1, Role: "student", DisplayName: "Sara", GradeLevel: "5eme"},
		time.Now().Add(-time.Minute))

	api := New(srv.URL)
	ss := NewSessionStore(api, store)

	updates := make(chan *Session, 4)
	ss.Subscribe(func(s *Session) { updates <- s })

	ss.Restore(context.Background())
	waitFor(t, "authoritative fetch in flight", func() bool { return atomic.LoadInt32(&hits) == 1 })

	// teardown lands while the fetch is blocked; its late result must not
	// resurrect the session or re-persist the snapshot
	ss.Logout()
	close(gate)
	time.Sleep(150 * time.Millisecond)

	if got := ss.Current(); got != nil {
		t.Errorf("session resurrected after logout: %+v", got)
	}
	if _, ok := store.Get(KeyUser); ok {
		t.Error("snapshot re-persisted after logout")
	}
	if _, ok := store.Get(KeyToken); ok {
		t.Error("token re-persisted after logout")
	}
	if _, ok := store.Get(KeyLastFetch); ok {
		t.Error("last-fetch stamp re-persisted after logout")
	}
	if api.Token() != "" {
		t.Error("transport token survived logout")
	}

	// exactly one notification: the logged-out signal
	select {
	case s := <-updates:
		if s != nil {
			t.Errorf("first notification = %+v, want nil logged-out signal", s)
		}
	default:
		t.Fatal("no logged-out signal")
	}
	select {
	case s := <-updates:
		t.Errorf("late fetch notified subscribers with %+v", s)
	default:
	}
}

func TestUpdateSessionKeepsStalenessClock(t *testing.T) {
	srv := authServer(t, User{ID: 1, Role: "student", Name: "Sara", Points: 50, GradeLevel: "5eme"})
	defer srv.Close()

	store := NewMemoryStore()
	ss := NewSessionStore(New(srv.URL), store)
	if _, err := ss.Login(context.Background(), "x@y.z", "secret"); err != nil {
		t.Fatal(err)
	}

	// age the snapshot, then merge locally; the merge must not make the
	// cache look authoritative-fresh again
	oldStamp := strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10)
	store.Set(KeyLastFetch, oldStamp)

	points := 80
	next := ss.UpdateSession(SessionPatch{Points: &points})
	if next == nil || next.Points != 80 {
		t.Fatalf("UpdateSession = %+v, want 80 points", next)
	}

	if stamp, _ := store.Get(KeyLastFetch); stamp != oldStamp {
		t.Errorf("last-fetch stamp = %q, want untouched %q", stamp, oldStamp)
	}
	raw, _ := store.Get(KeyUser)
	var snap Session
	if err := json.Unmarshal([]byte(raw), &snap); err != nil || snap.Points != 80 {
		t.Errorf("persisted snapshot = %+v (%v), want the merged 80 points", snap, err)
	}
}

func TestLoadDashboardTimeout(t *testing.T) {
	// the handler outlives the 10s budget; the client must give
	// up on its own rather than wait
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		writeEnvelope(w, http.StatusOK, map[string]int{"points": 1})
	}))
	defer srv.Close()
	defer close(release)

	ss := NewSessionStore(New(srv.URL), NewMemoryStore())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := ss.LoadDashboard(ctx)
	if err == nil {
		t.Fatal("LoadDashboard succeeded against a hung server")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("LoadDashboard did not respect the caller deadline")
	}
}
