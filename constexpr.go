package jcc

// evalConstIntExpr evaluates the narrow constant-expression subset this
// front end accepts where C11 requires an integer-constant-expression:
// array declarator lengths and enumerator value initializers
// (SPEC_FULL.md §7.1). It recognizes integer literals, the unary `+`, `-`,
// and `~` operators, and the basic arithmetic and bitwise binary operators,
// evaluated at parse time over int64. Anything else — a DeclRefExpr (even
// one naming a `const` variable), a function call, a cast — reports ok ==
// false, since this subset does not track which declarations are
// themselves compile-time constants.
func evalConstIntExpr(e Expr) (int64, bool) {
	switch n := e.(type) {
	case *IntLiteral:
		return n.Value, true
	case *UnaryExpr:
		v, ok := evalConstIntExpr(n.Operand)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case UnaryNeg:
			return -v, true
		case UnaryPlus:
			return v, true
		case UnaryBitNot:
			return ^v, true
		default:
			return 0, false
		}
	case *BinaryExpr:
		lhs, ok := evalConstIntExpr(n.Left)
		if !ok {
			return 0, false
		}
		rhs, ok := evalConstIntExpr(n.Right)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case BinAdd:
			return lhs + rhs, true
		case BinSub:
			return lhs - rhs, true
		case BinMul:
			return lhs * rhs, true
		case BinDiv:
			if rhs == 0 {
				return 0, false
			}
			return lhs / rhs, true
		case BinMod:
			if rhs == 0 {
				return 0, false
			}
			return lhs % rhs, true
		case BinBitAnd:
			return lhs & rhs, true
		case BinBitOr:
			return lhs | rhs, true
		case BinBitXor:
			return lhs ^ rhs, true
		case BinShl:
			return lhs << uint(rhs), true
		case BinShr:
			return lhs >> uint(rhs), true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}
