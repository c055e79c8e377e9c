// Package timex assigns TIMEX3 ids to temporal values and serializes them as
// TIMEX3 attributes and elements.
package timex

import (
	"strconv"

	"github.com/hrygo/timenorm/plugin/temporal"
)

// Id prefixes of the two namespaces.
const (
	TIDPrefix  = "t"
	TFIDPrefix = "tf"
)

// namespace maps values to ids by identity. Two values that format alike are
// still different entries.
type namespace struct {
	ids    map[temporal.Temporal]int
	values []temporal.Temporal
}

func (n *namespace) reset() {
	n.ids = make(map[temporal.Temporal]int)
	n.values = n.values[:0]
}

func (n *namespace) indexOf(t temporal.Temporal, add bool) (int, bool) {
	if t == nil {
		return 0, false
	}
	if id, ok := n.ids[t]; ok {
		return id, true
	}
	if !add {
		return 0, false
	}
	id := len(n.values)
	n.ids[t] = id
	n.values = append(n.values, t)
	return id, true
}

func (n *namespace) lookup(id int) (temporal.Temporal, bool) {
	if id < 0 || id >= len(n.values) {
		return nil, false
	}
	return n.values[id], true
}

// TimeIndex hands out stable ids for the values of one document: "t" ids for
// temporal values and "tf" ids for the temporal functions that produced
// them. The reference time is always t0.
//
// A TimeIndex is not safe for concurrent use.
type TimeIndex struct {
	temporals namespace
	funcs     namespace
}

// NewTimeIndex returns an index holding only the reference time.
func NewTimeIndex() *TimeIndex {
	idx := &TimeIndex{}
	idx.Clear()
	return idx
}

// Clear forgets every id except that of the reference time.
func (x *TimeIndex) Clear() {
	x.temporals.reset()
	x.funcs.reset()
	x.temporals.indexOf(temporal.TimeRef(), true)
}

// IndexOf returns the id of t, registering it when add is set. It reports
// false when t is unknown and add is not set.
func (x *TimeIndex) IndexOf(t temporal.Temporal, add bool) (int, bool) {
	return x.temporals.indexOf(t, add)
}

// FuncIndexOf is IndexOf for the temporal function namespace.
func (x *TimeIndex) FuncIndexOf(t temporal.Temporal, add bool) (int, bool) {
	return x.funcs.indexOf(t, add)
}

// Lookup returns the value with the given id.
func (x *TimeIndex) Lookup(id int) (temporal.Temporal, bool) {
	return x.temporals.lookup(id)
}

// LookupFunc returns the temporal function with the given id.
func (x *TimeIndex) LookupFunc(id int) (temporal.Temporal, bool) {
	return x.funcs.lookup(id)
}

// Len returns the number of registered values, the reference time included.
func (x *TimeIndex) Len() int { return len(x.temporals.values) }

// TID registers t and returns its id string, e.g. "t3".
func (x *TimeIndex) TID(t temporal.Temporal) string {
	id, ok := x.IndexOf(t, true)
	if !ok {
		return ""
	}
	return TIDPrefix + strconv.Itoa(id)
}

// TFID registers t as a temporal function and returns its id string, e.g.
// "tf1".
func (x *TimeIndex) TFID(t temporal.Temporal) string {
	id, ok := x.FuncIndexOf(t, true)
	if !ok {
		return ""
	}
	return TFIDPrefix + strconv.Itoa(id)
}
