package labelfilter

import (
	"github.com/iancoleman/orderedmap"
)

// Reserved trace keys. Stage results are recorded under the stage's own
// name between these two.
const (
	TraceKeySource = "source"
	TraceKeyFinal  = "final"
)

// Trace records the working label set after every pipeline stage, in
// execution order: the unmodified source under "source", each stage's
// output under the stage name, and the terminal result under "final".
//
// The insertion order is preserved through JSON marshaling, so a
// serialized trace reads top-to-bottom in pipeline order.
type Trace struct {
	om *orderedmap.OrderedMap
}

func newTrace() *Trace {
	return &Trace{om: orderedmap.New()}
}

func (t *Trace) record(name string, labels []string) {
	t.om.Set(name, labels)
}

// Get returns the label set recorded under name and whether it exists.
func (t *Trace) Get(name string) ([]string, bool) {
	v, ok := t.om.Get(name)
	if !ok {
		return nil, false
	}
	labels, ok := v.([]string)
	return labels, ok
}

// Keys returns the recorded names in execution order, starting with
// "source" and ending with "final".
func (t *Trace) Keys() []string {
	return t.om.Keys()
}

// Final returns the terminal label set of the run.
func (t *Trace) Final() []string {
	labels, _ := t.Get(TraceKeyFinal)
	return labels
}

// MarshalJSON serializes the trace as a JSON object whose keys appear in
// execution order.
func (t *Trace) MarshalJSON() ([]byte, error) {
	return t.om.MarshalJSON()
}
