package browse

import (
	"context"
	"sync"

	"course-catalog/internal/model"
)

// Searcher runs one catalog query for a selection, returning the page rows
// and the exact total match count.
type Searcher interface {
	SearchCourses(ctx context.Context, sel Selection) ([]model.Course, int, error)
}

// Result is the state pushed to the session owner after every fetch cycle.
// On a failed fetch Courses is empty, TotalCount zero and Err carries the
// message; rows and count are never half-updated.
type Result struct {
	// Seq orders notifications: it increases with every snapshot, so a
	// consumer writing results to a client can drop any result whose Seq is
	// below the last one it delivered.
	Seq        uint64
	Selection  Selection
	Courses    []model.Course
	TotalCount int
	TotalPages int
	Loading    bool
	Err        error
}

// Session owns the mutable selection state of one browsing client and runs
// the fetch cycle on every transition. All mutations run under one mutex;
// every fetch is tagged with a generation and given its own context, and a
// newer fetch cancels and supersedes any in-flight one, so a slow earlier
// response can never overwrite a later selection's result.
type Session struct {
	store  Searcher
	notify func(Result)

	mu      sync.Mutex
	sel     Selection
	gen     uint64
	seq     uint64
	cancel  context.CancelFunc
	courses []model.Course
	total   int
	loading bool
	err     error
	closed  bool
}

// NewSession starts a session at the default selection. notify is called
// (outside the session lock) after every state change, including the
// loading transition at the start of each fetch; it may be nil.
func NewSession(store Searcher, notify func(Result)) *Session {
	if notify == nil {
		notify = func(Result) {}
	}
	return &Session{
		store:  store,
		notify: notify,
		sel:    DefaultSelection(),
	}
}

// Current returns a snapshot of the session state.
func (s *Session) Current() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultLocked()
}

func (s *Session) resultLocked() Result {
	s.seq++
	return Result{
		Seq:        s.seq,
		Selection:  s.sel,
		Courses:    s.courses,
		TotalCount: s.total,
		TotalPages: TotalPages(s.total),
		Loading:    s.loading,
		Err:        s.err,
	}
}

// Apply runs one pure transition against the current selection and, if it
// changed anything, starts a fetch for the new state.
func (s *Session) Apply(transition func(Selection) Selection) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	next := transition(s.sel).Sanitize()
	if next == s.sel {
		s.mu.Unlock()
		return
	}
	s.sel = next
	s.fetchLocked()
}

// Refresh re-runs the fetch cycle for the current selection, used once at
// session start to load the initial page.
func (s *Session) Refresh() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.fetchLocked()
}

// fetchLocked supersedes any in-flight fetch and starts a new one for the
// current selection. Called with s.mu held; releases it.
func (s *Session) fetchLocked() {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.gen++
	gen := s.gen
	sel := s.sel
	s.loading = true
	out := s.resultLocked()
	s.mu.Unlock()

	s.notify(out)

	go func() {
		defer cancel()
		courses, total, err := s.store.SearchCourses(ctx, sel)

		s.mu.Lock()
		if s.closed || gen != s.gen {
			// A newer fetch owns the state now; drop this result.
			s.mu.Unlock()
			return
		}
		s.loading = false
		if err != nil {
			s.courses = nil
			s.total = 0
			s.err = err
		} else {
			s.courses = courses
			s.total = total
			s.err = nil
		}
		out := s.resultLocked()
		s.mu.Unlock()

		s.notify(out)
	}()
}

// Close cancels any in-flight fetch and retires the session; late results
// are dropped silently and no further notifications fire.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
