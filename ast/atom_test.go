package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kralicky/cel-parser/ast"
)

func TestAtomEqual(t *testing.T) {
	assert.True(t, ast.Int(1).Equal(ast.Int(1)))
	assert.False(t, ast.Int(1).Equal(ast.Int(2)))
	assert.False(t, ast.Int(1).Equal(ast.UInt(1)), "Int and UInt are distinct kinds even with the same magnitude")
	assert.True(t, ast.Null().Equal(ast.Null()))
	assert.True(t, ast.Bytes([]byte("ab")).Equal(ast.Bytes([]byte("ab"))))
}

func TestAtomCloneCopiesBytes(t *testing.T) {
	original := ast.Bytes([]byte{1, 2, 3})
	clone := original.Clone()
	clone.Bytes[0] = 9
	assert.Equal(t, byte(1), original.Bytes[0])
}

func TestAtomStringFormatting(t *testing.T) {
	assert.Equal(t, "3.5", ast.Float(3.5).String())
	assert.Equal(t, `b"ab"`, ast.Bytes([]byte("ab")).String())
	assert.Equal(t, "false", ast.Bool(false).String())
}
