package timex

import (
	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/plugin/temporal"
)

// TIMEX3 attribute names.
const (
	AttrTID               = "tid"
	AttrType              = "type"
	AttrValue             = "value"
	AttrAltValue          = "alt_value"
	AttrMod               = "mod"
	AttrBeginPoint        = "beginPoint"
	AttrEndPoint          = "endPoint"
	AttrQuant             = "quant"
	AttrFreq              = "freq"
	AttrAnchorTimeID      = "anchorTimeID"
	AttrTemporalFunction  = "temporalFunction"
	AttrValueFromFunction = "valueFromFunction"
	AttrComment           = "comment"
)

// attrOrder is the order attributes are written in.
var attrOrder = []string{
	AttrTID, AttrType, AttrValue, AttrAltValue, AttrMod,
	AttrBeginPoint, AttrEndPoint, AttrQuant, AttrFreq,
	AttrAnchorTimeID, AttrTemporalFunction, AttrValueFromFunction, AttrComment,
}

// ErrNoTemporal is returned when there is nothing to annotate.
var ErrNoTemporal = errors.New("no temporal value to annotate")

// Options adjust the attributes produced for a value.
type Options struct {
	// ResolvedFrom is the unresolved expression the value was computed from.
	// When it is a temporal function (a RelativeTime) the value links back to
	// it with temporalFunction and valueFromFunction.
	ResolvedFrom temporal.Temporal
	Comment      string
}

// Attributes returns the TIMEX3 attributes of t. Ids are taken from idx,
// registering t and the values it refers to.
func Attributes(t temporal.Temporal, idx *TimeIndex, opts Options) (map[string]string, error) {
	if t == nil {
		return nil, ErrNoTemporal
	}
	if idx == nil {
		return nil, errors.New("time index is required")
	}

	m := make(map[string]string, 8)
	// endpoints are numbered before the range itself
	if r, ok := t.(*temporal.Range); ok {
		if r.Begin() != nil {
			m[AttrBeginPoint] = idx.TID(r.Begin())
		}
		if r.End() != nil {
			m[AttrEndPoint] = idx.TID(r.End())
		}
	}
	m[AttrTID] = idx.TID(t)

	value := temporal.TimexValue(t)
	if value != "" {
		m[AttrValue] = value
	}
	if value == "" || temporal.IncludeTimexAltValue(t) {
		if full := t.Format(temporal.FormatFull); full != "" {
			m[AttrAltValue] = full
		}
	}
	if typ := t.TimexType(); typ != temporal.TimexNone {
		m[AttrType] = string(typ)
	}
	if mod := t.Mod(); mod != "" {
		m[AttrMod] = mod
	}

	switch v := t.(type) {
	case *temporal.PeriodicTemporalSet:
		if v.Quant() != "" {
			m[AttrQuant] = v.Quant()
		}
		if v.Freq() != "" {
			m[AttrFreq] = v.Freq()
		}
	case *temporal.RelativeTime:
		linkFunction(m, idx, v)
	}
	if rt, ok := opts.ResolvedFrom.(*temporal.RelativeTime); ok && rt != t {
		linkFunction(m, idx, rt)
	}
	if opts.Comment != "" {
		m[AttrComment] = opts.Comment
	}
	return m, nil
}

func linkFunction(m map[string]string, idx *TimeIndex, fn *temporal.RelativeTime) {
	m[AttrTemporalFunction] = "true"
	m[AttrValueFromFunction] = idx.TFID(fn)
	if fn.Base() != nil {
		m[AttrAnchorTimeID] = idx.TID(fn.Base())
	}
}
