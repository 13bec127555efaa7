// Package binding connects dashboard controls to the outputs they drive.
//
// A Graph is an explicit subscription map from control id to the bindings
// that read it. A Dispatcher applies a control change to a Session and
// synchronously recomputes every subscribed output against the shared,
// read-only dataset.
package binding

import (
	"errors"
	"fmt"

	"launchdash/internal/dataset"
	"launchdash/internal/filter"
	"launchdash/pkg/contracts/domain"
)

var (
	// ErrUnknownControl is returned for a change on a control no binding reads.
	ErrUnknownControl = errors.New("unknown control")
	// ErrInvalidValue is returned when a control value has the wrong shape.
	ErrInvalidValue = errors.New("invalid control value")
	// ErrInvalidBinding is returned by Subscribe for incomplete bindings.
	ErrInvalidBinding = errors.New("invalid binding")
)

// RecomputeFunc produces an output figure from the dataset and a selection
// snapshot. Implementations must not retain or mutate either argument.
type RecomputeFunc func(ds *dataset.Dataset, sel domain.Selection) interface{}

// Binding declares one output, the controls it reads and how to compute it.
type Binding struct {
	Output    string
	Inputs    []string
	Recompute RecomputeFunc
}

// Graph maps control ids to the bindings subscribed to them.
type Graph struct {
	bindings []Binding
	subs     map[string][]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{subs: make(map[string][]int)}
}

// Subscribe registers b under each of its input controls.
func (g *Graph) Subscribe(b Binding) error {
	if b.Output == "" || len(b.Inputs) == 0 || b.Recompute == nil {
		return fmt.Errorf("%w: output %q", ErrInvalidBinding, b.Output)
	}
	for _, existing := range g.bindings {
		if existing.Output == b.Output {
			return fmt.Errorf("%w: output %q already bound", ErrInvalidBinding, b.Output)
		}
	}

	idx := len(g.bindings)
	g.bindings = append(g.bindings, b)
	for _, in := range b.Inputs {
		g.subs[in] = append(g.subs[in], idx)
	}
	return nil
}

// Subscribers returns the bindings reading control, in registration order.
func (g *Graph) Subscribers(control string) []Binding {
	idxs := g.subs[control]
	out := make([]Binding, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.bindings[i])
	}
	return out
}

// Knows reports whether any binding reads control.
func (g *Graph) Knows(control string) bool {
	return len(g.subs[control]) > 0
}

// Bindings returns every binding in registration order.
func (g *Graph) Bindings() []Binding {
	out := make([]Binding, len(g.bindings))
	copy(out, g.bindings)
	return out
}

// NewDashboardGraph wires the launch dashboard: the site dropdown drives the
// pie chart, and the site dropdown together with the payload slider drive the
// scatter chart.
func NewDashboardGraph() *Graph {
	g := NewGraph()
	// Both bindings are well formed; Subscribe cannot fail here.
	_ = g.Subscribe(Binding{
		Output: domain.OutputPieChart,
		Inputs: []string{domain.ControlSiteDropdown},
		Recompute: func(ds *dataset.Dataset, sel domain.Selection) interface{} {
			return filter.Pie(ds, sel.NormalizedSite())
		},
	})
	_ = g.Subscribe(Binding{
		Output: domain.OutputScatterChart,
		Inputs: []string{domain.ControlSiteDropdown, domain.ControlPayloadSlider},
		Recompute: func(ds *dataset.Dataset, sel domain.Selection) interface{} {
			return filter.Scatter(ds, sel.NormalizedSite(), sel.Payload)
		},
	})
	return g
}

// DefaultSelection is the initial control state: every site, full payload range.
func DefaultSelection(ds *dataset.Dataset) domain.Selection {
	return domain.Selection{Site: domain.SiteAll, Payload: filter.FullRange(ds)}
}
