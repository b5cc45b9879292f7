// Package session holds the front-end state of a weather search as an
// explicit state machine. Each submitted search gets a new token and only
// the completion carrying the latest token is accepted, so a slow lookup
// can never overwrite the result of a newer one.
package session

import (
	"strings"

	"github.com/vzahanych/weathernow/internal/lookup"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a value; Next returns a new one and never mutates the receiver.
type State struct {
	Phase  Phase
	Query  string
	Token  uint64
	Report *lookup.WeatherReport
	Err    error
}

type Event interface {
	isEvent()
}

// Submitted is the user asking for the weather of Query.
type Submitted struct {
	Query string
}

// Completed is a lookup finishing. Token must be the one from its Request.
type Completed struct {
	Token  uint64
	Report *lookup.WeatherReport
	Err    error
}

// InputCleared is the user emptying the search box.
type InputCleared struct{}

func (Submitted) isEvent()    {}
func (Completed) isEvent()    {}
func (InputCleared) isEvent() {}

// Request asks the caller to run a lookup and report back with Completed.
type Request struct {
	Token uint64
	Query string
}

// Next applies ev. The returned Request is non-nil only when a lookup must
// be started.
func (s State) Next(ev Event) (State, *Request) {
	switch ev := ev.(type) {
	case Submitted:
		next := State{Query: ev.Query, Token: s.Token + 1}
		if strings.TrimSpace(ev.Query) == "" {
			next.Phase = Failed
			next.Err = lookup.ErrEmptyQuery
			return next, nil
		}
		next.Phase = Loading
		return next, &Request{Token: next.Token, Query: ev.Query}

	case Completed:
		if s.Phase != Loading || ev.Token != s.Token {
			return s, nil
		}
		next := State{Query: s.Query, Token: s.Token}
		switch {
		case ev.Err != nil:
			next.Phase = Failed
			next.Err = ev.Err
		case ev.Report == nil:
			next.Phase = Failed
			next.Err = lookup.ErrNoMatchingLocation
		default:
			next.Phase = Success
			next.Report = ev.Report
		}
		return next, nil

	case InputCleared:
		// bumping the token drops whatever is still in flight
		return State{Phase: Idle, Token: s.Token + 1}, nil
	}

	return s, nil
}

// Stale reports whether a completion for token would be discarded.
func (s State) Stale(token uint64) bool {
	return s.Phase != Loading || token != s.Token
}
