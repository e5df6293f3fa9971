package reporter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kralicky/cel-parser/reporter"
)

func TestPositionerFirstLine(t *testing.T) {
	p := reporter.NewPositioner("abc\ndef")
	assert.Equal(t, reporter.Position{Line: 0, Column: 0}, p.Position(0))
	assert.Equal(t, reporter.Position{Line: 0, Column: 2}, p.Position(2))
}

func TestPositionerAfterNewline(t *testing.T) {
	p := reporter.NewPositioner("abc\ndef")
	assert.Equal(t, reporter.Position{Line: 1, Column: 0}, p.Position(4))
	assert.Equal(t, reporter.Position{Line: 1, Column: 2}, p.Position(6))
}

func TestPositionerMultipleBlankLines(t *testing.T) {
	p := reporter.NewPositioner("\n\n\nx")
	assert.Equal(t, reporter.Position{Line: 3, Column: 0}, p.Position(3))
}

func TestDiagnoseWithSpan(t *testing.T) {
	p := reporter.NewPositioner("abc\ndef")
	err := reporter.Error("bad token", 4, 5)
	diag := reporter.Diagnose(p, err)
	assert.Equal(t, "bad token", diag.Message)
	assert.Equal(t, reporter.Position{Line: 1, Column: 0}, *diag.Span.Start)
	assert.Equal(t, reporter.Position{Line: 1, Column: 1}, *diag.Span.End)
}

func TestDiagnoseWithNoSpanUsesFixedZeroZero(t *testing.T) {
	p := reporter.NewPositioner("irrelevant")
	err := reporter.ErrorNoSpan("unrecognized eof")
	diag := reporter.Diagnose(p, err)
	assert.Equal(t, reporter.Position{}, *diag.Span.Start)
	assert.Equal(t, reporter.Position{}, *diag.Span.End)
}
