package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/logging"
	"github.com/teemow/calgrid/internal/theme"
)

const (
	surfaceWeb = "web"
	surfaceAPI = "api"
)

var errNotSignedIn = errors.New("not signed in")

// viewState reads the date and view query parameters. Missing values
// mean today and the configured default view. With strict unset,
// unparseable values fall back to those defaults as well.
func (s *WebServer) viewState(r *http.Request, strict bool) (grid.ViewState, error) {
	now := s.sc.Now()
	ref := now
	view := s.sc.DefaultView()

	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.ParseInLocation(queryDateLayout, v, now.Location())
		switch {
		case err == nil:
			ref = d
		case strict:
			return grid.ViewState{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", v)
		}
	}
	if v := r.URL.Query().Get("view"); v != "" {
		pv, err := grid.ParseView(v)
		switch {
		case err == nil:
			view = pv
		case strict:
			return grid.ViewState{}, err
		}
	}
	return grid.NewViewState(ref, view), nil
}

// session returns the caller's live session, if any.
func (s *WebServer) session(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil, false
	}
	return s.sessions.Get(r.Context(), c.Value)
}

func (s *WebServer) themeStore(w http.ResponseWriter, r *http.Request) cookieStore {
	return cookieStore{r: r, w: w, secure: s.secure}
}

func (s *WebServer) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, _ := s.viewState(r, false)
	layout := s.sc.RenderGrid(ctx, nil, surfaceWeb, state)

	mode, err := theme.LoadMode(s.themeStore(w, r))
	if err != nil {
		s.sc.Logger().Warn("failed to read theme mode", logging.Err(err))
	}

	var placement calendar.Placement
	var alert string
	sess, signedIn := s.session(r)
	if signedIn {
		events, err := sess.Events.ListEvents(ctx, layout.Start, layout.End)
		if err != nil {
			alert = calendar.Alert(err)
			s.sc.Logger().Error("failed to fetch events",
				logging.View(layout.View.Days()),
				logging.Date(layout.Start),
				logging.Err(err),
				slog.String("trace_id", instrumentation.GetTraceID(ctx)))
		}
		placement = calendar.Place(layout, events)
	}

	data := newPageData(state, layout, s.sc.Now(), s.sc.Theme(), mode, placement)
	data.Alert = alert
	data.SignInEnabled = s.sc.Config().GoogleConfigured()
	if signedIn {
		data.Profile = sess.Profile
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.sc.Logger().Error("failed to render page", logging.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *WebServer) handleStylesheet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(theme.Stylesheet(s.sc.Theme())))
}

// handleThemeToggle flips the dark mode cookie and sends the browser
// back to the page it came from.
func (s *WebServer) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	mode, err := theme.ToggleMode(s.themeStore(w, r))
	if err != nil {
		s.sc.Logger().Error("failed to toggle theme", logging.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.sc.Metrics().RecordThemeToggle(r.Context(), mode.String())
	s.sc.Logger().Debug("theme toggled", logging.Mode(mode.String()))
	http.Redirect(w, r, localRedirect(r.FormValue("return_to")), http.StatusSeeOther)
}

// localRedirect accepts only same-origin absolute paths.
func localRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func (s *WebServer) handleGrid(w http.ResponseWriter, r *http.Request) {
	state, err := s.viewState(r, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	layout := s.sc.RenderGrid(r.Context(), nil, surfaceAPI, state)
	writeJSON(w, http.StatusOK, layout)
}

// themeResponse is the derived theme plus the caller's active mode.
type themeResponse struct {
	theme.Theme
	Mode string `json:"mode"`
}

func (s *WebServer) handleTheme(w http.ResponseWriter, r *http.Request) {
	mode, _ := theme.LoadMode(s.themeStore(w, r))
	writeJSON(w, http.StatusOK, themeResponse{Theme: s.sc.Theme(), Mode: mode.String()})
}

type eventsResponse struct {
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Events []calendar.Event `json:"events"`
}

func (s *WebServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errNotSignedIn.Error())
		return
	}
	state, err := s.viewState(r, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	layout := s.sc.Renderer().Render(state)

	events, err := sess.Events.ListEvents(r.Context(), layout.Start, layout.End)
	if err != nil {
		s.writeCalendarError(r.Context(), w, err)
		return
	}
	if events == nil {
		events = []calendar.Event{}
	}
	writeJSON(w, http.StatusOK, eventsResponse{Start: layout.Start, End: layout.End, Events: events})
}

func (s *WebServer) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	sess, in, ok := s.eventRequest(w, r)
	if !ok {
		return
	}
	ev, err := sess.Events.CreateEvent(r.Context(), in)
	if err != nil {
		s.writeCalendarError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *WebServer) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	sess, in, ok := s.eventRequest(w, r)
	if !ok {
		return
	}
	ev, err := sess.Events.UpdateEvent(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.writeCalendarError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *WebServer) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errNotSignedIn.Error())
		return
	}
	if err := sess.Events.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		s.writeCalendarError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// eventRequest resolves the session and decodes an EventInput body,
// answering the request itself when either fails.
func (s *WebServer) eventRequest(w http.ResponseWriter, r *http.Request) (*Session, calendar.EventInput, bool) {
	var in calendar.EventInput
	sess, ok := s.session(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errNotSignedIn.Error())
		return nil, in, false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return nil, in, false
	}
	return sess, in, true
}

// writeCalendarError answers 400 for rejected input and 502 with the
// operation's alert for failed Google calls.
func (s *WebServer) writeCalendarError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, calendar.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.sc.Logger().Error("calendar request failed",
		logging.Err(err),
		slog.String("trace_id", instrumentation.GetTraceID(ctx)))
	writeError(w, http.StatusBadGateway, calendar.Alert(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
