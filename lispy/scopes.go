package lispy

import (
	"fmt"
	"sort"
	"strings"
)

// A Scope is one frame of bindings. Frames chain through Parent;
// lookup walks outward and the first match wins. Closures own a
// parentless frame that is temporarily re-parented to the caller's
// scope while their body runs.
type Scope struct {
	Map      map[string]Sexp
	Parent   *Scope
	Name     string
	IsGlobal bool
}

func NewScope() *Scope {
	return &Scope{
		Map: make(map[string]Sexp),
	}
}

func NewNamedScope(name string) *Scope {
	return &Scope{
		Map:  make(map[string]Sexp),
		Name: name,
	}
}

// LookupSymbol returns a copy of the innermost binding of name.
func (s *Scope) LookupSymbol(name string) (Sexp, error) {
	for scop := s; scop != nil; scop = scop.Parent {
		if v, ok := scop.Map[name]; ok {
			return Copy(v), nil
		}
	}
	return nil, &UnboundSymbolError{Name: name}
}

// BindSymbol stores a copy of v in this frame, replacing any previous
// binding of name here. Outer frames are untouched.
func (s *Scope) BindSymbol(name string, v Sexp) {
	s.Map[name] = Copy(v)
}

// DefineGlobal binds name in the outermost frame of the chain.
func (s *Scope) DefineGlobal(name string, v Sexp) {
	s.Root().BindSymbol(name, v)
}

func (s *Scope) Root() *Scope {
	scop := s
	for scop.Parent != nil {
		scop = scop.Parent
	}
	return scop
}

// Clone deep-copies the bindings and keeps the same Parent.
func (s *Scope) Clone() *Scope {
	n := &Scope{
		Map:      make(map[string]Sexp, len(s.Map)),
		Parent:   s.Parent,
		Name:     s.Name,
		IsGlobal: s.IsGlobal,
	}
	for k, v := range s.Map {
		n.Map[k] = Copy(v)
	}
	return n
}

// Depth counts the frames from s out to the root, inclusive.
func (s *Scope) Depth() int {
	d := 0
	for scop := s; scop != nil; scop = scop.Parent {
		d++
	}
	return d
}

// SortedNames lists the names bound directly in s.
func (s *Scope) SortedNames() []string {
	names := make([]string, 0, len(s.Map))
	for k := range s.Map {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type SymtabE struct {
	Key string
	Val string
}

type SymtabSorter []*SymtabE

func (a SymtabSorter) Len() int           { return len(a) }
func (a SymtabSorter) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a SymtabSorter) Less(i, j int) bool { return a[i].Key < a[j].Key }

// Show renders the frame, one binding per line, sorted by name.
// Builtins are skipped unless showBuiltins is set, since the global
// frame holds dozens of them.
func (s *Scope) Show(label string, showBuiltins bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s (%p)\n", label, s.Name, s)
	sortme := []*SymtabE{}
	for name, val := range s.Map {
		if f, isFn := val.(*SexpFunction); isFn && f.IsBuiltin() && !showBuiltins {
			continue
		}
		sortme = append(sortme, &SymtabE{Key: name, Val: val.SexpString()})
	}
	if len(sortme) == 0 {
		b.WriteString("     empty-scope: no symbols\n")
		return b.String()
	}
	sort.Sort(SymtabSorter(sortme))
	for i := range sortme {
		fmt.Fprintf(&b, "     %s -> %s\n", sortme[i].Key, sortme[i].Val)
	}
	return b.String()
}
