package ast

import (
	"fmt"
	"strconv"
)

// AtomKind discriminates the cases of Atom.
type AtomKind int

const (
	AtomInt AtomKind = iota
	AtomUInt
	AtomFloat
	AtomString
	AtomBytes
	AtomBool
	AtomNull
)

func (k AtomKind) String() string {
	switch k {
	case AtomInt:
		return "Int"
	case AtomUInt:
		return "UInt"
	case AtomFloat:
		return "Float"
	case AtomString:
		return "String"
	case AtomBytes:
		return "Bytes"
	case AtomBool:
		return "Bool"
	case AtomNull:
		return "Null"
	default:
		return "AtomKind(?)"
	}
}

// Atom is a leaf literal value. Exactly one of its fields is meaningful,
// selected by Kind; empty String/Bytes atoms are allowed, unlike Ident
// names, which are never empty.
type Atom struct {
	Kind    AtomKind
	Int     int64
	UInt    uint64
	Float   float64
	Str     string
	Bytes   []byte
	Bool    bool
}

func Int(v int64) Atom     { return Atom{Kind: AtomInt, Int: v} }
func UInt(v uint64) Atom    { return Atom{Kind: AtomUInt, UInt: v} }
func Float(v float64) Atom { return Atom{Kind: AtomFloat, Float: v} }
func String(v string) Atom { return Atom{Kind: AtomString, Str: v} }
func Bytes(v []byte) Atom  { return Atom{Kind: AtomBytes, Bytes: v} }
func Bool(v bool) Atom     { return Atom{Kind: AtomBool, Bool: v} }
func Null() Atom           { return Atom{Kind: AtomNull} }

func (a Atom) Equal(o Atom) bool {
	if a.Kind != o.Kind {
		return false
	}
	switch a.Kind {
	case AtomInt:
		return a.Int == o.Int
	case AtomUInt:
		return a.UInt == o.UInt
	case AtomFloat:
		return a.Float == o.Float
	case AtomString:
		return a.Str == o.Str
	case AtomBytes:
		return string(a.Bytes) == string(o.Bytes)
	case AtomBool:
		return a.Bool == o.Bool
	case AtomNull:
		return true
	default:
		return false
	}
}

func (a Atom) Clone() Atom {
	if a.Kind == AtomBytes {
		cp := make([]byte, len(a.Bytes))
		copy(cp, a.Bytes)
		a.Bytes = cp
	}
	return a
}

func (a Atom) String() string {
	switch a.Kind {
	case AtomInt:
		return strconv.FormatInt(a.Int, 10)
	case AtomUInt:
		return strconv.FormatUint(a.UInt, 10) + "u"
	case AtomFloat:
		return strconv.FormatFloat(a.Float, 'g', -1, 64)
	case AtomString:
		return strconv.Quote(a.Str)
	case AtomBytes:
		return fmt.Sprintf("b%s", strconv.Quote(string(a.Bytes)))
	case AtomBool:
		return strconv.FormatBool(a.Bool)
	case AtomNull:
		return "null"
	default:
		return "<invalid atom>"
	}
}
