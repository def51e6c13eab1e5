package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	pending := !t.stopped && !t.fired
	t.stopped = true
	return pending
}

// pending counts timers that have neither fired nor been stopped.
func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves time forward and runs every due timer in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.fn()
	}
}

// fakeBackend answers JSON routes and counts calls per path.
type fakeBackend struct {
	mu      sync.Mutex
	routes  map[string]http.HandlerFunc
	calls   map[string]int
	queries map[string][]string
	headers map[string]http.Header
	bodies  map[string][]string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{
		routes:  make(map[string]http.HandlerFunc),
		calls:   make(map[string]int),
		queries: make(map[string][]string),
		headers: make(map[string]http.Header),
		bodies:  make(map[string][]string),
	}
	srv := httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) handle(path string, h http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[path] = h
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	fb.mu.Lock()
	fb.calls[r.URL.Path]++
	fb.queries[r.URL.Path] = append(fb.queries[r.URL.Path], r.URL.RawQuery)
	fb.headers[r.URL.Path] = r.Header.Clone()
	fb.bodies[r.URL.Path] = append(fb.bodies[r.URL.Path], string(body))
	h, ok := fb.routes[r.URL.Path]
	fb.mu.Unlock()
	if !ok {
		jsonReply(http.StatusNotFound, `{"message":"no route"}`)(w, r)
		return
	}
	h(w, r)
}

func (fb *fakeBackend) count(path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[path]
}

func (fb *fakeBackend) lastQuery(path string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	q := fb.queries[path]
	if len(q) == 0 {
		return ""
	}
	return q[len(q)-1]
}

func (fb *fakeBackend) lastBody(path string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	b := fb.bodies[path]
	if len(b) == 0 {
		return ""
	}
	return b[len(b)-1]
}

func (fb *fakeBackend) lastHeader(path string) http.Header {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.headers[path]
}

func jsonReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func htmlReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var testNow = time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)

func newTestDashboard(t *testing.T, srv *httptest.Server, owner callStatsOwner, c clock) *dashboard {
	t.Helper()
	if c == nil {
		c = newFakeClock(testNow)
	}
	client := newBackendClient(srv.URL, 0, func() string { return "session=abc" }, nil)
	d := newDashboard(client, dashboardOptions{
		owner:             owner,
		managerID:         7,
		currentPath:       "/dashboard",
		scorecardTimezone: "America/Los_Angeles",
	}, c, quietLogger(), nil)
	t.Cleanup(d.close)
	return d
}
