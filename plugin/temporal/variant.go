package temporal

// withAttrs returns a copy of t with f applied to its attributes. The
// switch covers every variant of the package.
func withAttrs(t Temporal, f func(attrs) attrs) Temporal {
	switch v := t.(type) {
	case *PartialTime:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *CompositePartialTime:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *GroundedTime:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *InexactTime:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *TimeWithRange:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *RelativeTime:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *RefTime:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *SimpleTime:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *OrdinalTime:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *DurationWithFields:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *DurationWithMillis:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *InexactDuration:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *DurationRange:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *Range:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *PeriodicTemporalSet:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	case *ExplicitTemporalSet:
		c := *v
		c.attrs = f(c.attrs)
		return &c
	}
	return t
}
