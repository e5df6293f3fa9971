package ast

import "github.com/davecgh/go-spew/spew"

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// goStringDump backs every Expr's GoString: a structural dump suitable
// for test failure output and debugging, rather than a hand-rolled
// recursive printer.
func goStringDump(e Expr) string {
	return dumpConfig.Sdump(e)
}
