package main

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"course-catalog/internal/browse"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// liveEvent is one filter mutation sent by the client. Field selects the
// transition; Value carries the new value ("sort" takes "field:dir", "page"
// a number). Reset clears all six filter fields.
type liveEvent struct {
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
	Reset bool   `json:"reset,omitempty"`
}

// liveMessage is one state push: the selection it belongs to plus either a
// loading marker, a result page, or an error with rows cleared.
type liveMessage struct {
	Seq           uint64           `json:"seq"`
	Loading       bool             `json:"loading"`
	Error         string           `json:"error,omitempty"`
	Selection     browse.Selection `json:"selection"`
	ActiveFilters int              `json:"active_filters"`
	Courses       []CourseView     `json:"courses"`
	TotalCount    int              `json:"total_count"`
	TotalPages    int              `json:"total_pages"`
}

// liveBrowse upgrades the connection and runs one browse session over it.
// The session owns the selection; every event triggers a fetch cycle and
// every state change is pushed back. Closing the socket tears the session
// down and any in-flight query is cancelled and dropped.
func (s *Server) liveBrowse(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, http.StatusServiceUnavailable, s.unconfiguredMessage())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("upgrading live session: %v", err)
		return
	}
	defer conn.Close()

	liveSessions.Inc()
	defer liveSessions.Dec()

	var writeMu sync.Mutex
	var lastSeq uint64

	session := browse.NewSession(s.db, func(res browse.Result) {
		writeMu.Lock()
		defer writeMu.Unlock()
		// Notifications from superseded fetches may arrive late; the
		// sequence keeps the socket monotonic.
		if res.Seq <= lastSeq {
			return
		}
		lastSeq = res.Seq
		if err := conn.WriteJSON(newLiveMessage(res)); err != nil {
			log.Debugf("writing to live session: %v", err)
		}
	})
	defer session.Close()

	session.Refresh()

	for {
		var ev liveEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debugf("live session closed: %v", err)
			}
			return
		}
		s.applyLiveEvent(session, ev)
	}
}

func (s *Server) applyLiveEvent(session *browse.Session, ev liveEvent) {
	if ev.Reset {
		session.Apply(browse.Selection.WithoutFilters)
		return
	}

	switch ev.Field {
	case "query":
		session.Apply(func(sel browse.Selection) browse.Selection {
			return sel.WithQuery(ev.Value)
		})
	case "major":
		session.Apply(func(sel browse.Selection) browse.Selection {
			sel = sel.WithMajorCategory(ev.Value)
			if s.catalog != nil {
				sel = s.catalog.Scope(sel)
			}
			return sel
		})
	case "sub":
		session.Apply(func(sel browse.Selection) browse.Selection {
			sel = sel.WithSubCategory(ev.Value)
			if s.catalog != nil {
				sel = s.catalog.Scope(sel)
			}
			return sel
		})
	case "institution":
		session.Apply(func(sel browse.Selection) browse.Selection {
			return sel.WithInstitution(ev.Value)
		})
	case "month":
		session.Apply(func(sel browse.Selection) browse.Selection {
			return sel.WithMonth(ev.Value)
		})
	case "cost":
		session.Apply(func(sel browse.Selection) browse.Selection {
			return sel.WithCostBand(ev.Value)
		})
	case "sort":
		field, dir, _ := strings.Cut(ev.Value, ":")
		session.Apply(func(sel browse.Selection) browse.Selection {
			return sel.WithSort(browse.SortField(field), browse.SortDirection(dir))
		})
	case "page":
		page, err := strconv.Atoi(ev.Value)
		if err != nil {
			return
		}
		session.Apply(func(sel browse.Selection) browse.Selection {
			return sel.WithPage(page)
		})
	}
}

func newLiveMessage(res browse.Result) liveMessage {
	msg := liveMessage{
		Seq:           res.Seq,
		Loading:       res.Loading,
		Selection:     res.Selection,
		ActiveFilters: res.Selection.ActiveFilterCount(),
		Courses:       make([]CourseView, 0, len(res.Courses)),
		TotalCount:    res.TotalCount,
		TotalPages:    res.TotalPages,
	}
	if res.Err != nil {
		msg.Error = res.Err.Error()
	}
	for _, c := range res.Courses {
		msg.Courses = append(msg.Courses, newCourseView(c))
	}
	return msg
}
