package browse

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-catalog/internal/model"
)

// stubSearcher blocks every query until the test releases it, so tests can
// resolve fetches in any order they like.
type stubSearcher struct {
	mu    sync.Mutex
	calls []*stubCall
}

type stubCall struct {
	sel     Selection
	release chan struct{}
	courses []model.Course
	total   int
	err     error
}

func (s *stubSearcher) SearchCourses(ctx context.Context, sel Selection) ([]model.Course, int, error) {
	call := &stubCall{sel: sel, release: make(chan struct{})}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	<-call.release
	return call.courses, call.total, call.err
}

// call waits until the nth query has been issued and returns it.
func (s *stubSearcher) call(t *testing.T, n int) *stubCall {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		if len(s.calls) > n {
			call := s.calls[n]
			s.mu.Unlock()
			return call
		}
		s.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("query %d was never issued", n)
	return nil
}

func (c *stubCall) resolve(courses []model.Course, total int, err error) {
	c.courses = courses
	c.total = total
	c.err = err
	close(c.release)
}

func namedCourse(name string) model.Course {
	return model.Course{CourseName: sql.NullString{String: name, Valid: true}}
}

// collect returns a notify func feeding a channel plus the channel itself.
func collect() (func(Result), chan Result) {
	ch := make(chan Result, 32)
	return func(res Result) { ch <- res }, ch
}

// settled waits for the next notification that is not a loading marker.
func settled(t *testing.T, ch chan Result) Result {
	t.Helper()
	for {
		select {
		case res := <-ch:
			if !res.Loading {
				return res
			}
		case <-time.After(2 * time.Second):
			t.Fatal("no settled result arrived")
		}
	}
}

func TestSessionFetchCycle(t *testing.T) {
	store := &stubSearcher{}
	notify, results := collect()
	session := NewSession(store, notify)
	defer session.Close()

	session.Apply(func(sel Selection) Selection { return sel.WithQuery("용접") })

	store.call(t, 0).resolve([]model.Course{namedCourse("특수용접기능사")}, 41, nil)

	res := settled(t, results)
	assert.Equal(t, "용접", res.Selection.Query)
	assert.Equal(t, 41, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Courses, 1)
	assert.NoError(t, res.Err)
}

func TestStaleFetchNeverOverwritesNewer(t *testing.T) {
	store := &stubSearcher{}
	notify, results := collect()
	session := NewSession(store, notify)
	defer session.Close()

	// Two quick transitions, as when typing two characters.
	session.Apply(func(sel Selection) Selection { return sel.WithQuery("용") })
	first := store.call(t, 0)
	session.Apply(func(sel Selection) Selection { return sel.WithQuery("용접") })
	second := store.call(t, 1)

	// The second fetch resolves first; the first resolves late.
	second.resolve([]model.Course{namedCourse("특수용접기능사")}, 1, nil)
	res := settled(t, results)
	assert.Equal(t, "용접", res.Selection.Query)
	assert.Equal(t, 1, res.TotalCount)

	first.resolve([]model.Course{namedCourse("stale"), namedCourse("rows")}, 99, nil)

	// The late result must be dropped, not applied.
	time.Sleep(50 * time.Millisecond)
	current := session.Current()
	assert.Equal(t, "용접", current.Selection.Query)
	assert.Equal(t, 1, current.TotalCount)
	require.Len(t, current.Courses, 1)
	assert.Equal(t, "특수용접기능사", current.Courses[0].CourseName.String)
}

func TestFailedFetchClearsResults(t *testing.T) {
	store := &stubSearcher{}
	notify, results := collect()
	session := NewSession(store, notify)
	defer session.Close()

	session.Refresh()
	store.call(t, 0).resolve([]model.Course{namedCourse("헤어디자인")}, 21, nil)
	res := settled(t, results)
	assert.Equal(t, 21, res.TotalCount)

	session.Apply(func(sel Selection) Selection { return sel.WithPage(2) })
	store.call(t, 1).resolve(nil, 0, errors.New("store unavailable"))

	res = settled(t, results)
	assert.Error(t, res.Err)
	assert.Empty(t, res.Courses)
	assert.Equal(t, 0, res.TotalCount)
	assert.Equal(t, 1, res.TotalPages)
}

func TestNoopTransitionDoesNotFetch(t *testing.T) {
	store := &stubSearcher{}
	session := NewSession(store, nil)
	defer session.Close()

	session.Apply(func(sel Selection) Selection { return sel })

	time.Sleep(20 * time.Millisecond)
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.calls)
}

func TestClosedSessionDropsLateResults(t *testing.T) {
	store := &stubSearcher{}
	notify, results := collect()
	session := NewSession(store, notify)

	session.Refresh()
	call := store.call(t, 0)

	session.Close()
	for len(results) > 0 {
		<-results
	}

	call.resolve([]model.Course{namedCourse("late")}, 7, nil)

	select {
	case res := <-results:
		t.Fatalf("retired session notified: %+v", res)
	case <-time.After(50 * time.Millisecond):
	}

	assert.Empty(t, session.Current().Courses)
}

func TestResultSequenceIsMonotonic(t *testing.T) {
	store := &stubSearcher{}
	notify, results := collect()
	session := NewSession(store, notify)
	defer session.Close()

	recv := func() Result {
		t.Helper()
		select {
		case res := <-results:
			return res
		case <-time.After(2 * time.Second):
			t.Fatal("missing notification")
			return Result{}
		}
	}

	session.Refresh()
	loading1 := recv()
	store.call(t, 0).resolve(nil, 0, nil)
	settled1 := recv()

	session.Apply(func(sel Selection) Selection { return sel.WithQuery("간호") })
	loading2 := recv()
	store.call(t, 1).resolve(nil, 0, nil)
	settled2 := recv()

	assert.True(t, loading1.Loading)
	assert.False(t, settled1.Loading)
	assert.Less(t, loading1.Seq, settled1.Seq)
	assert.Less(t, settled1.Seq, loading2.Seq)
	assert.Less(t, loading2.Seq, settled2.Seq)
}
