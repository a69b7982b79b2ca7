package jcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvalConstIntExpr(t *testing.T) {
	lit := func(v int64) Expr { return &IntLiteral{Value: v} }
	un := func(op UnaryOp, e Expr) Expr { return &UnaryExpr{Op: op, Operand: e} }
	bin := func(op BinaryOp, l, r Expr) Expr { return &BinaryExpr{Op: op, Left: l, Right: r} }

	cases := []struct {
		name string
		e    Expr
		want int64
	}{
		{"literal", lit(4), 4},
		{"unary neg", un(UnaryNeg, lit(1)), -1},
		{"unary plus", un(UnaryPlus, lit(3)), 3},
		{"unary bitnot", un(UnaryBitNot, lit(0)), -1},
		{"add", bin(BinAdd, lit(2), lit(2)), 4},
		{"sub of neg", bin(BinSub, lit(0), un(UnaryNeg, lit(5))), 5},
		{"mul", bin(BinMul, lit(3), lit(4)), 12},
		{"div", bin(BinDiv, lit(9), lit(3)), 3},
		{"mod", bin(BinMod, lit(10), lit(3)), 1},
		{"shl", bin(BinShl, lit(1), lit(4)), 16},
		{"shr", bin(BinShr, lit(16), lit(4)), 1},
		{"bitand", bin(BinBitAnd, lit(6), lit(3)), 2},
		{"bitor", bin(BinBitOr, lit(4), lit(1)), 5},
		{"bitxor", bin(BinBitXor, lit(5), lit(1)), 4},
		{"nested", bin(BinAdd, lit(1), bin(BinMul, lit(2), lit(3))), 7},
	}
	for _, c := range cases {
		got, ok := evalConstIntExpr(c.e)
		assert.True(t, ok, c.name)
		assert.Equal(t, c.want, got, c.name)
	}
}

func TestEvalConstIntExprRejectsNonConstants(t *testing.T) {
	_, ok := evalConstIntExpr(&DeclRefExpr{Name: "n"})
	assert.False(t, ok)

	_, ok = evalConstIntExpr(&BinaryExpr{Op: BinDiv, Left: &IntLiteral{Value: 1}, Right: &IntLiteral{Value: 0}})
	assert.False(t, ok)

	_, ok = evalConstIntExpr(&UnaryExpr{Op: UnaryAddr, Operand: &IntLiteral{Value: 1}})
	assert.False(t, ok)
}
