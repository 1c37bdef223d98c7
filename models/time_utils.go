package models

import (
	"fmt"
	"strings"
	"time"
)

// Session is the user's preferred trading session.
type Session string

const (
	SessionAll      Session = "all"
	SessionAsian    Session = "asian"
	SessionEuropean Session = "european"
	SessionUS       Session = "us"
)

// Sessions lists the accepted values in display order.
var Sessions = []Session{SessionAll, SessionAsian, SessionEuropean, SessionUS}

func ParseSession(s string) (Session, error) {
	v := Session(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sessions {
		if v == known {
			return v, nil
		}
	}
	return "", &InvalidRequestError{Field: "session", Reason: fmt.Sprintf("%q is not one of all, asian, european, us", s)}
}

// SessionWindow is an interval of the UTC day, [Open, Close).
type SessionWindow struct {
	Open  time.Duration
	Close time.Duration
}

var sessionWindows = map[Session]SessionWindow{
	SessionAsian:    {Open: 0, Close: 9 * time.Hour},
	SessionEuropean: {Open: 7 * time.Hour, Close: 16 * time.Hour},
	SessionUS:       {Open: 12 * time.Hour, Close: 21 * time.Hour},
}

// Window returns the UTC window of the session; "all" covers the whole day.
func (s Session) Window() SessionWindow {
	if w, ok := sessionWindows[s]; ok {
		return w
	}
	return SessionWindow{Open: 0, Close: 24 * time.Hour}
}

// Contains reports whether t (in any zone) falls inside the session window.
func (s Session) Contains(t time.Time) bool {
	u := t.UTC()
	offset := time.Duration(u.Hour())*time.Hour + time.Duration(u.Minute())*time.Minute
	w := s.Window()
	return offset >= w.Open && offset < w.Close
}

// Label renders e.g. "EUROPEAN (07:00-16:00 UTC)".
func (s Session) Label() string {
	if s == SessionAll || s == "" {
		return "ALL"
	}
	w := s.Window()
	return fmt.Sprintf("%s (%s-%s UTC)", strings.ToUpper(string(s)), clock(w.Open), clock(w.Close))
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
