package binding

import (
	"fmt"
	"sync"

	"launchdash/pkg/contracts/domain"
)

// Session holds the control state of one dashboard client. Changes are
// applied one at a time; readers get snapshots.
type Session struct {
	id    string
	graph *Graph

	mu  sync.Mutex
	sel domain.Selection
}

// NewSession creates a session over graph starting at initial.
func NewSession(id string, graph *Graph, initial domain.Selection) *Session {
	return &Session{id: id, graph: graph, sel: initial}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Selection returns a snapshot of the current control state.
func (s *Session) Selection() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Apply updates the state from change and returns the bindings to
// recompute together with the new state. The state is left untouched on
// error.
func (s *Session) Apply(change domain.ControlChange) ([]Binding, domain.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(change)
}

func (s *Session) applyLocked(change domain.ControlChange) ([]Binding, domain.Selection, error) {
	if !s.graph.Knows(change.Control) {
		return nil, s.sel, fmt.Errorf("%w: %q", ErrUnknownControl, change.Control)
	}

	next, err := ApplyChange(s.sel, change)
	if err != nil {
		return nil, s.sel, err
	}
	s.sel = next
	return s.graph.Subscribers(change.Control), next, nil
}

// ApplyChange returns sel with change applied.
//
// The site dropdown takes a string; an empty or null value selects every
// site rather than filtering on a missing site, so a cleared dropdown shows
// all launches instead of empty charts. The payload slider takes a
// [low, high] pair.
func ApplyChange(sel domain.Selection, change domain.ControlChange) (domain.Selection, error) {
	switch change.Control {
	case domain.ControlSiteDropdown:
		site, err := siteValue(change.Value)
		if err != nil {
			return sel, err
		}
		sel.Site = site
	case domain.ControlPayloadSlider:
		r, err := rangeValue(change.Value)
		if err != nil {
			return sel, err
		}
		sel.Payload = r
	default:
		return sel, fmt.Errorf("%w: %q", ErrUnknownControl, change.Control)
	}
	return sel, nil
}

func siteValue(v interface{}) (string, error) {
	switch site := v.(type) {
	case nil:
		return domain.SiteAll, nil
	case string:
		if site == "" {
			return domain.SiteAll, nil
		}
		return site, nil
	default:
		return "", fmt.Errorf("%w: site must be a string, got %T", ErrInvalidValue, v)
	}
}

func rangeValue(v interface{}) (domain.PayloadRange, error) {
	var pair []float64
	switch r := v.(type) {
	case domain.PayloadRange:
		return r, nil
	case []float64:
		pair = r
	case [2]float64:
		pair = r[:]
	case []interface{}:
		for _, e := range r {
			f, ok := toFloat(e)
			if !ok {
				return domain.PayloadRange{}, fmt.Errorf("%w: payload bound %v is not a number", ErrInvalidValue, e)
			}
			pair = append(pair, f)
		}
	default:
		return domain.PayloadRange{}, fmt.Errorf("%w: payload must be a [low, high] pair, got %T", ErrInvalidValue, v)
	}

	if len(pair) != 2 {
		return domain.PayloadRange{}, fmt.Errorf("%w: payload must have 2 bounds, got %d", ErrInvalidValue, len(pair))
	}
	return domain.PayloadRange{Low: pair[0], High: pair[1]}, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
