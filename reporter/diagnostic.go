package reporter

// Diagnose converts an internal ErrorWithPos into the public Diagnostic,
// projecting its byte span through p. An error with no span (the
// unrecognized-eof case) is reported at the fixed (0,0)-(0,0) span, per
// the parser's public contract.
func Diagnose(p *Positioner, err ErrorWithPos) *Diagnostic {
	lo, hi, ok := err.Span()
	if !ok {
		zero := Position{}
		return &Diagnostic{Message: err.Error(), Span: Span{Start: &zero, End: &zero}}
	}
	return &Diagnostic{Message: err.Error(), Span: p.Span(lo, hi)}
}
