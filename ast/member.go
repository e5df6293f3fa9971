package ast

import (
	"fmt"
	"strings"
)

// Member is a single postfix accessor applied by a MemberExpr: attribute
// (.name), index ([expr]), or message-construction field list
// (Name{field: v, ...}).
type Member interface {
	fmt.Stringer

	Equal(other Member) bool
	Clone() Member

	memberNode()
}

// Attribute is `.name`.
type Attribute struct {
	Name string
}

func NewAttribute(name string) Attribute { return Attribute{Name: name} }

func (Attribute) memberNode() {}

func (a Attribute) Equal(other Member) bool {
	o, ok := other.(Attribute)
	return ok && a.Name == o.Name
}

func (a Attribute) Clone() Member { return Attribute{Name: a.Name} }

func (a Attribute) String() string { return "." + a.Name }

// Index is `[expr]`.
type Index struct {
	Expr Expr
}

func NewIndex(expr Expr) Index { return Index{Expr: expr} }

func (Index) memberNode() {}

func (i Index) Equal(other Member) bool {
	o, ok := other.(Index)
	return ok && i.Expr.Equal(o.Expr)
}

func (i Index) Clone() Member { return Index{Expr: i.Expr.Clone()} }

func (i Index) String() string { return fmt.Sprintf("[%s]", i.Expr) }

// FieldInit is one `name: expr` entry of a Fields member.
type FieldInit struct {
	Name  string
	Value Expr
}

func (f FieldInit) Equal(o FieldInit) bool {
	return f.Name == o.Name && f.Value.Equal(o.Value)
}

func (f FieldInit) Clone() FieldInit {
	return FieldInit{Name: f.Name, Value: f.Value.Clone()}
}

// Fields is the message-construction form `{field: v, ...}` applied to an
// identifier-path receiver.
type Fields struct {
	Inits []FieldInit
}

func NewFields(inits []FieldInit) Fields { return Fields{Inits: inits} }

func (Fields) memberNode() {}

func (f Fields) Equal(other Member) bool {
	o, ok := other.(Fields)
	if !ok || len(f.Inits) != len(o.Inits) {
		return false
	}
	for i := range f.Inits {
		if !f.Inits[i].Equal(o.Inits[i]) {
			return false
		}
	}
	return true
}

func (f Fields) Clone() Member {
	inits := make([]FieldInit, len(f.Inits))
	for i, in := range f.Inits {
		inits[i] = in.Clone()
	}
	return Fields{Inits: inits}
}

func (f Fields) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, in := range f.Inits {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", in.Name, in.Value)
	}
	b.WriteString("}")
	return b.String()
}

var (
	_ Member = Attribute{}
	_ Member = Index{}
	_ Member = Fields{}
)
