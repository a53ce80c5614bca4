package basic

import (
	"iter"
	"slices"

	"github.com/google/btree"
)

// Variable is a named value referenced from source as @Name. Labels and
// injected constants share this type.
type Variable struct {
	Name     string
	Value    string
	Resolved bool
}

func NewVariable(name string) Variable {
	return Variable{
		Name: name,
	}
}

func NewConstant(name, value string) Variable {
	return Variable{
		Name:     name,
		Value:    value,
		Resolved: true,
	}
}

func (v *Variable) SetValue(value string) {
	v.Value = value
	v.Resolved = true
}

// Constants are the values injected into every compiled program.
type Constants []Variable

// Merge returns c with every constant of other whose name c does not have.
func (c Constants) Merge(other Constants) Constants {
	ret := slices.Clone(c)
	for _, v := range other {
		if slices.ContainsFunc(ret, func(existing Variable) bool {
			return existing.Name == v.Name
		}) {
			continue
		}
		ret = append(ret, v)
	}
	return ret
}

// Symbols is a name-ordered set of variables.
type Symbols struct {
	tree *btree.BTreeG[*Variable]
}

func NewSymbols() *Symbols {
	return &Symbols{
		tree: btree.NewG(8, func(a, b *Variable) bool {
			return a.Name < b.Name
		}),
	}
}

func (s *Symbols) Get(name string) (*Variable, bool) {
	return s.tree.Get(&Variable{Name: name})
}

// Set inserts v, replacing any variable with the same name.
func (s *Symbols) Set(v Variable) *Variable {
	ptr := &v
	s.tree.ReplaceOrInsert(ptr)
	return ptr
}

func (s *Symbols) Len() int {
	return s.tree.Len()
}

func (s *Symbols) Clear() {
	s.tree.Clear(false)
}

// All yields variables in name order.
func (s *Symbols) All() iter.Seq[*Variable] {
	return func(yield func(*Variable) bool) {
		s.tree.Ascend(func(v *Variable) bool {
			return yield(v)
		})
	}
}
