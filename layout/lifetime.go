package layout

// Lifetime is a region a reference is valid for. Lifetimes form a tree rooted
// at Static; a lifetime outlives every lifetime nested inside it.
type Lifetime struct {
	outer *Lifetime
	name  string
}

// Static outlives every other lifetime.
var Static = &Lifetime{name: "'static"}

// Inner returns a new lifetime nested in l.
func (l *Lifetime) Inner(name string) *Lifetime {
	return &Lifetime{outer: orStatic(l), name: name}
}

// Outlives reports whether l outlives or equals u. A nil lifetime is Static.
func (l *Lifetime) Outlives(u *Lifetime) bool {
	l, u = orStatic(l), orStatic(u)
	for v := u; v != nil; v = v.outer {
		if v == l {
			return true
		}
	}
	return false
}

func (l *Lifetime) String() string {
	if l == nil {
		return Static.name
	}
	if len(l.name) > 0 && l.name[0] == '\'' {
		return l.name
	}
	return "'" + l.name
}

func orStatic(l *Lifetime) *Lifetime {
	if l == nil {
		return Static
	}
	return l
}
