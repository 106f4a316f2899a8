package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-catalog/internal/model"
)

func dialLive(t *testing.T, server *Server) (*websocket.Conn, func()) {
	t.Helper()
	ts := httptest.NewServer(server.router())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

// readSettled reads messages until one that is neither a loading marker nor
// stale, then returns it.
func readSettled(t *testing.T, conn *websocket.Conn) liveMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg liveMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if !msg.Loading {
			return msg
		}
	}
}

func TestLiveBrowseSession(t *testing.T) {
	store := &fakeStore{
		courses: []model.Course{testCourse(1, "특수용접기능사 양성과정")},
		total:   21,
		pairs:   []model.CategoryPair{{MajorCategory: "기계", SubCategory: "용접"}},
	}
	server := testServer(t, store, &fakePrefs{})
	conn, teardown := dialLive(t, server)
	defer teardown()

	// The session pushes the initial page without any event.
	msg := readSettled(t, conn)
	assert.Equal(t, 21, msg.TotalCount)
	assert.Equal(t, 2, msg.TotalPages)
	assert.Equal(t, 0, msg.ActiveFilters)
	require.Len(t, msg.Courses, 1)
	assert.Equal(t, "500,000원", msg.Courses[0].CostDisplay)

	require.NoError(t, conn.WriteJSON(liveEvent{Field: "query", Value: "용접"}))
	msg = readSettled(t, conn)
	assert.Equal(t, "용접", msg.Selection.Query)
	assert.Equal(t, 1, msg.Selection.Page)
	assert.Equal(t, 1, msg.ActiveFilters)

	require.NoError(t, conn.WriteJSON(liveEvent{Field: "page", Value: "2"}))
	msg = readSettled(t, conn)
	assert.Equal(t, 2, msg.Selection.Page)

	require.NoError(t, conn.WriteJSON(liveEvent{Field: "major", Value: "기계"}))
	msg = readSettled(t, conn)
	assert.Equal(t, "기계", msg.Selection.MajorCategory)
	assert.Equal(t, 1, msg.Selection.Page, "filter change resets the page")

	require.NoError(t, conn.WriteJSON(liveEvent{Reset: true}))
	msg = readSettled(t, conn)
	assert.Equal(t, 0, msg.ActiveFilters)
	assert.Empty(t, msg.Selection.Query)
}

func TestLiveBrowseUnconfigured(t *testing.T) {
	server := testServer(t, nil, &fakePrefs{})
	ts := httptest.NewServer(server.router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 503, resp.StatusCode)
}
