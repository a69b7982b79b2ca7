package jcc

import (
	"fmt"

	"github.com/c8ef/jcc/internal/xasm"
)

// Emitter walks a TranslationUnit and produces x86-64 AT&T assembly text.
// It implements straight-line "spill everything to the stack" codegen:
// every subexpression's value is pushed before evaluating its sibling and
// popped back when combined, trading registers for simplicity (spec.md's
// emitter Non-goals explicitly exclude real register allocation). Floating-
// point codegen and struct-by-value codegen are likewise out of scope —
// FloatLiteral nodes reaching the emitter produce an Unimplemented
// error rather than wrong code.
type Emitter struct {
	w    *xasm.Writer
	src  *Source
	strs []stringConst

	frame     map[string]int
	frameSize int

	labelCounter int
	funcName     string

	breakLabels    []string
	continueLabels []string
}

type stringConst struct {
	label string
	value string
}

func NewEmitter(src *Source) *Emitter {
	return &Emitter{w: xasm.NewWriter(), src: src, frame: map[string]int{}}
}

// Emit renders unit to AT&T assembly text, or returns the first error
// encountered (this subset's fail-fast policy applies to codegen too).
func (e *Emitter) Emit(unit *TranslationUnit) (string, error) {
	e.w.Directive("text")
	for _, d := range unit.Decls {
		if fn, ok := d.(*FunctionDecl); ok && fn.Body != nil {
			if err := e.emitFunction(fn); err != nil {
				return "", err
			}
		}
	}

	for _, d := range unit.Decls {
		if v, ok := d.(*VarDecl); ok {
			e.emitGlobalVar(v)
		}
	}

	if len(e.strs) > 0 {
		e.w.Directive("section", ".rodata")
		for _, s := range e.strs {
			e.w.Label(s.label)
			e.w.Directive("string", fmt.Sprintf("%q", s.value))
		}
	}

	return e.w.String(), nil
}

func (e *Emitter) emitGlobalVar(v *VarDecl) {
	e.w.Directive("data")
	if v.Storage != StorageStatic {
		e.w.Directive("globl", v.Name)
	}
	e.w.Label(v.Name)
	size := sizeOf(v.Ty)
	if lit, ok := v.Init.(*IntLiteral); ok {
		e.w.Directive(directiveForSize(size), fmt.Sprintf("%d", lit.Value))
		return
	}
	e.w.Directive("zero", fmt.Sprintf("%d", size))
}

func directiveForSize(size int) string {
	switch size {
	case 1:
		return "byte"
	case 2:
		return "value"
	case 4:
		return "long"
	default:
		return "quad"
	}
}

// sizeOf computes the byte size of t under the System V AMD64 data model
// (ILP32/LP64-ish widths used throughout this subset): 1/2/4/8-byte scalars,
// element*length arrays, and sum-of-members structs with no padding — this
// subset does not implement alignment-driven struct layout, matching
// spec.md's Non-goal on `_Alignas`.
func sizeOf(t Type) int {
	switch tv := t.(type) {
	case VoidType:
		return 0
	case BoolType:
		return 1
	case IntegerType:
		return tv.Width / 8
	case FloatType:
		return tv.Width / 8
	case PointerType:
		return 8
	case ArrayType:
		if !tv.HasLength {
			return 8
		}
		return tv.Length * sizeOf(tv.Element)
	case *RecordType:
		total := 0
		for _, m := range tv.Members {
			sz := sizeOf(m.Type)
			if tv.IsUnion {
				if sz > total {
					total = sz
				}
			} else {
				total += sz
			}
		}
		return total
	default:
		return 8
	}
}

// emitFunction lays out the stack frame for every local variable reachable
// from Body (collected up front, in declaration order, so offsets are
// stable), then emits the standard rbp-based prologue/epilogue around the
// body's statements.
func (e *Emitter) emitFunction(fn *FunctionDecl) error {
	e.funcName = fn.Name
	e.frame = map[string]int{}
	e.frameSize = 0

	for i, param := range fn.Params {
		if param.Declarator == nil || param.Declarator.Name == "" || i >= len(xasm.ArgRegs64) {
			continue
		}
		e.allocLocal(param.Declarator.Name, fn.Ty.Params[i])
	}
	collectLocals(fn.Body, e)

	if fn.Storage != StorageStatic {
		e.w.Directive("globl", fn.Name)
	}
	e.w.Label(fn.Name)
	e.w.Insn("pushq", "%rbp")
	e.w.Insn("movq", "%rsp, %rbp")
	aligned := (e.frameSize + 15) &^ 15
	if aligned > 0 {
		e.w.Insn("subq", xasm.Imm(int64(aligned))+", %rsp")
	}

	for i, param := range fn.Params {
		if param.Declarator == nil || param.Declarator.Name == "" || i >= len(xasm.ArgRegs64) {
			continue
		}
		off := e.frame[param.Declarator.Name]
		e.w.Insn("movq", xasm.ArgRegs64[i]+", "+xasm.Mem(off, "%rbp"))
	}

	if err := e.emitStmt(fn.Body); err != nil {
		return err
	}

	e.w.Insn("movq", "%rbp, %rsp")
	e.w.Insn("popq", "%rbp")
	e.w.Insn("ret", "")
	return nil
}

func (e *Emitter) allocLocal(name string, t Type) {
	if _, ok := e.frame[name]; ok {
		return
	}
	e.frameSize += sizeOf(t)
	e.frame[name] = -e.frameSize
}

// collectLocals walks a function body pre-order, allocating a frame slot
// for every declared variable before any code for the body is emitted
// (spec.md's single-pass front end resolves types during parsing, but
// frame layout still needs every local's final size up front).
func collectLocals(s Stmt, e *Emitter) {
	switch n := s.(type) {
	case *CompoundStmt:
		for _, c := range n.Stmts {
			collectLocals(c, e)
		}
	case *DeclStmt:
		for _, v := range n.Decls {
			e.allocLocal(v.Name, v.Ty)
		}
	case *IfStmt:
		collectLocals(n.Then, e)
		if n.Else != nil {
			collectLocals(n.Else, e)
		}
	case *WhileStmt:
		collectLocals(n.Body, e)
	case *DoWhileStmt:
		collectLocals(n.Body, e)
	case *ForStmt:
		if n.Init != nil {
			collectLocals(n.Init, e)
		}
		collectLocals(n.Body, e)
	case *SwitchStmt:
		collectLocals(n.Body, e)
	case *CaseStmt:
		collectLocals(n.Body, e)
	case *DefaultStmt:
		collectLocals(n.Body, e)
	case *LabeledStmt:
		collectLocals(n.Body, e)
	}
}

func (e *Emitter) newLabel(tag string) string {
	e.labelCounter++
	return fmt.Sprintf(".L%s_%s_%d", e.funcName, tag, e.labelCounter)
}

func (e *Emitter) emitStmt(s Stmt) error {
	switch n := s.(type) {
	case *CompoundStmt:
		for _, c := range n.Stmts {
			if err := e.emitStmt(c); err != nil {
				return err
			}
		}
		return nil

	case *DeclStmt:
		for _, v := range n.Decls {
			if v.Init == nil {
				continue
			}
			if list, ok := v.Init.(*InitListExpr); ok {
				if err := e.emitInitList(list, e.frame[v.Name], v.Ty); err != nil {
					return err
				}
				continue
			}
			if err := e.emitExpr(v.Init); err != nil {
				return err
			}
			e.w.Insn("movq", "%rax, "+xasm.Mem(e.frame[v.Name], "%rbp"))
		}
		return nil

	case *ExprStmt:
		if n.Value == nil {
			return nil
		}
		return e.emitExpr(n.Value)

	case *IfStmt:
		return e.emitIf(n)

	case *WhileStmt:
		return e.emitWhile(n)

	case *DoWhileStmt:
		return e.emitDoWhile(n)

	case *ForStmt:
		return e.emitFor(n)

	case *SwitchStmt:
		return e.emitSwitch(n)

	case *CaseStmt:
		return e.emitStmt(n.Body)

	case *DefaultStmt:
		return e.emitStmt(n.Body)

	case *ReturnStmt:
		if n.Value != nil {
			if err := e.emitExpr(n.Value); err != nil {
				return err
			}
		}
		e.w.Insn("movq", "%rbp, %rsp")
		e.w.Insn("popq", "%rbp")
		e.w.Insn("ret", "")
		return nil

	case *BreakStmt:
		if len(e.breakLabels) == 0 {
			return newError(Unimplemented, e.src.Span(n.Rng), "break outside loop/switch")
		}
		e.w.Insn("jmp", e.breakLabels[len(e.breakLabels)-1])
		return nil

	case *ContinueStmt:
		if len(e.continueLabels) == 0 {
			return newError(Unimplemented, e.src.Span(n.Rng), "continue outside loop")
		}
		e.w.Insn("jmp", e.continueLabels[len(e.continueLabels)-1])
		return nil

	case *GotoStmt:
		e.w.Insn("jmp", labelForGoto(e.funcName, n.Label))
		return nil

	case *LabeledStmt:
		e.w.Label(labelForGoto(e.funcName, n.Label))
		return e.emitStmt(n.Body)

	default:
		return nil
	}
}

// emitInitList lowers a brace initializer into one element-wise store per
// array element or struct member, in source order (designated initializers
// are a Non-goal, so position is the only addressing scheme needed). A
// nested InitListExpr recurses against the element's own type; everything
// else is evaluated into %rax and stored with the same unconditional movq
// the rest of the emitter uses for every scalar store, regardless of the
// element's natural width.
func (e *Emitter) emitInitList(list *InitListExpr, base int, ty Type) error {
	offset := 0
	for i, elem := range list.Elements {
		et := initListElementType(ty, i)
		if nested, ok := elem.(*InitListExpr); ok {
			if err := e.emitInitList(nested, base+offset, et); err != nil {
				return err
			}
		} else {
			if err := e.emitExpr(elem); err != nil {
				return err
			}
			e.w.Insn("movq", "%rax, "+xasm.Mem(base+offset, "%rbp"))
		}
		offset += sizeOf(et)
	}
	return nil
}

func initListElementType(ty Type, i int) Type {
	switch tv := ty.(type) {
	case ArrayType:
		return tv.Element
	case *RecordType:
		if i < len(tv.Members) {
			return tv.Members[i].Type
		}
	}
	return TypeInt
}

func labelForGoto(funcName, label string) string {
	return fmt.Sprintf(".L%s_user_%s", funcName, label)
}

func (e *Emitter) emitIf(n *IfStmt) error {
	elseLabel := e.newLabel("else")
	endLabel := e.newLabel("endif")
	if err := e.emitExpr(n.Cond); err != nil {
		return err
	}
	e.w.Insn("cmpq", "$0, %rax")
	e.w.Insn("je", elseLabel)
	if err := e.emitStmt(n.Then); err != nil {
		return err
	}
	e.w.Insn("jmp", endLabel)
	e.w.Label(elseLabel)
	if n.Else != nil {
		if err := e.emitStmt(n.Else); err != nil {
			return err
		}
	}
	e.w.Label(endLabel)
	return nil
}

func (e *Emitter) emitWhile(n *WhileStmt) error {
	top := e.newLabel("while")
	end := e.newLabel("endwhile")
	e.breakLabels = append(e.breakLabels, end)
	e.continueLabels = append(e.continueLabels, top)
	defer e.popLoopLabels()

	e.w.Label(top)
	if err := e.emitExpr(n.Cond); err != nil {
		return err
	}
	e.w.Insn("cmpq", "$0, %rax")
	e.w.Insn("je", end)
	if err := e.emitStmt(n.Body); err != nil {
		return err
	}
	e.w.Insn("jmp", top)
	e.w.Label(end)
	return nil
}

func (e *Emitter) emitDoWhile(n *DoWhileStmt) error {
	top := e.newLabel("dowhile")
	end := e.newLabel("enddowhile")
	e.breakLabels = append(e.breakLabels, end)
	e.continueLabels = append(e.continueLabels, top)
	defer e.popLoopLabels()

	e.w.Label(top)
	if err := e.emitStmt(n.Body); err != nil {
		return err
	}
	if err := e.emitExpr(n.Cond); err != nil {
		return err
	}
	e.w.Insn("cmpq", "$0, %rax")
	e.w.Insn("jne", top)
	e.w.Label(end)
	return nil
}

func (e *Emitter) emitFor(n *ForStmt) error {
	top := e.newLabel("for")
	post := e.newLabel("forpost")
	end := e.newLabel("endfor")
	e.breakLabels = append(e.breakLabels, end)
	e.continueLabels = append(e.continueLabels, post)
	defer e.popLoopLabels()

	if n.Init != nil {
		if err := e.emitStmt(n.Init); err != nil {
			return err
		}
	}
	e.w.Label(top)
	if n.Cond != nil {
		if err := e.emitExpr(n.Cond); err != nil {
			return err
		}
		e.w.Insn("cmpq", "$0, %rax")
		e.w.Insn("je", end)
	}
	if err := e.emitStmt(n.Body); err != nil {
		return err
	}
	e.w.Label(post)
	if n.Post != nil {
		if err := e.emitExpr(n.Post); err != nil {
			return err
		}
	}
	e.w.Insn("jmp", top)
	e.w.Label(end)
	return nil
}

// emitSwitch implements the common-case semantics (fallthrough between
// cases, one default) as a linear sequence of compare-and-jump tests
// followed by the body emitted straight through with labels inline — a
// jump table is the usual next optimization but is out of scope (spec.md's
// Non-goal on optimization).
func (e *Emitter) emitSwitch(n *SwitchStmt) error {
	end := e.newLabel("endswitch")
	e.breakLabels = append(e.breakLabels, end)
	defer func() { e.breakLabels = e.breakLabels[:len(e.breakLabels)-1] }()

	if err := e.emitExpr(n.Tag); err != nil {
		return err
	}
	e.w.Insn("movq", "%rax, %rcx")

	labels := map[Stmt]string{}
	defaultLabel := ""
	walkCases(n.Body, func(c *CaseStmt) {
		lbl := e.newLabel("case")
		labels[c] = lbl
	}, func(d *DefaultStmt) {
		defaultLabel = e.newLabel("default")
		labels[d] = defaultLabel
	})

	walkCases(n.Body, func(c *CaseStmt) {
		lit, ok := c.Value.(*IntLiteral)
		if !ok {
			return
		}
		e.w.Insn("cmpq", fmt.Sprintf("$%d, %%rcx", lit.Value))
		e.w.Insn("je", labels[c])
	}, nil)

	if defaultLabel != "" {
		e.w.Insn("jmp", defaultLabel)
	} else {
		e.w.Insn("jmp", end)
	}

	if err := e.emitSwitchBody(n.Body, labels); err != nil {
		return err
	}
	e.w.Label(end)
	return nil
}

func walkCases(s Stmt, onCase func(*CaseStmt), onDefault func(*DefaultStmt)) {
	switch n := s.(type) {
	case *CompoundStmt:
		for _, c := range n.Stmts {
			walkCases(c, onCase, onDefault)
		}
	case *CaseStmt:
		onCase(n)
		walkCases(n.Body, onCase, onDefault)
	case *DefaultStmt:
		if onDefault != nil {
			onDefault(n)
		}
		walkCases(n.Body, onCase, onDefault)
	}
}

func (e *Emitter) emitSwitchBody(s Stmt, labels map[Stmt]string) error {
	switch n := s.(type) {
	case *CompoundStmt:
		for _, c := range n.Stmts {
			if err := e.emitSwitchBody(c, labels); err != nil {
				return err
			}
		}
		return nil
	case *CaseStmt:
		e.w.Label(labels[n])
		return e.emitSwitchBody(n.Body, labels)
	case *DefaultStmt:
		e.w.Label(labels[n])
		return e.emitSwitchBody(n.Body, labels)
	default:
		return e.emitStmt(s)
	}
}

func (e *Emitter) popLoopLabels() {
	e.breakLabels = e.breakLabels[:len(e.breakLabels)-1]
	e.continueLabels = e.continueLabels[:len(e.continueLabels)-1]
}

// emitExpr evaluates n, leaving its value in %rax.
func (e *Emitter) emitExpr(n Expr) error {
	switch v := n.(type) {
	case *IntLiteral:
		e.w.Insn("movq", xasm.Imm(v.Value)+", %rax")
		return nil

	case *CharLiteral:
		e.w.Insn("movq", xasm.Imm(int64(v.Value))+", %rax")
		return nil

	case *FloatLiteral:
		return newError(Unimplemented, e.src.Span(v.Rng), "floating-point codegen is not implemented")

	case *StringLiteral:
		lbl := e.internString(v.Value)
		e.w.Insn("leaq", lbl+"(%rip), %rax")
		return nil

	case *DeclRefExpr:
		return e.emitLoad(v)

	case *UnaryExpr:
		return e.emitUnary(v)

	case *BinaryExpr:
		return e.emitBinary(v)

	case *ConditionalExpr:
		return e.emitConditional(v)

	case *CallExpr:
		return e.emitCall(v)

	case *MemberExpr, *ArraySubscriptExpr:
		addr, err := e.emitAddrOf(n)
		if err != nil {
			return err
		}
		_ = addr
		e.w.Insn("movq", "(%rax), %rax")
		return nil

	case *CastExpr:
		if err := e.emitExpr(v.Operand); err != nil {
			return err
		}
		if width := sizeOf(v.Target); width < 8 {
			e.w.Insn("movslq", xasm.SizedReg("%rax", width*8)+", %rax")
		}
		return nil

	case *InitListExpr:
		return newError(Unimplemented, e.src.Span(v.Rng), "brace initializers are only valid directly after '=' in a declaration, lowered by emitInitList")

	case *SizeofExpr:
		var t Type
		if v.Operand != nil {
			t = v.Operand.Type()
		} else {
			t = v.OperandType
		}
		e.w.Insn("movq", xasm.Imm(int64(sizeOf(t)))+", %rax")
		return nil

	default:
		return newError(Unimplemented, e.src.Span(n.Range()), "unsupported expression in emitter")
	}
}

func (e *Emitter) internString(s string) string {
	for _, c := range e.strs {
		if c.value == s {
			return c.label
		}
	}
	lbl := fmt.Sprintf(".Lstr%d", len(e.strs))
	e.strs = append(e.strs, stringConst{label: lbl, value: s})
	return lbl
}

func (e *Emitter) emitLoad(ref *DeclRefExpr) error {
	if off, ok := e.frame[ref.Name]; ok {
		e.w.Insn("movq", xasm.Mem(off, "%rbp")+", %rax")
		return nil
	}
	e.w.Insn("movq", ref.Name+"(%rip), %rax")
	return nil
}

// emitAddrOf computes n's address into %rax, for lvalue contexts
// (assignment targets, `&expr`, and the base of `.`/`->`/`[]`).
func (e *Emitter) emitAddrOf(n Expr) (string, error) {
	switch v := n.(type) {
	case *DeclRefExpr:
		if off, ok := e.frame[v.Name]; ok {
			e.w.Insn("leaq", xasm.Mem(off, "%rbp")+", %rax")
			return "%rax", nil
		}
		e.w.Insn("leaq", v.Name+"(%rip), %rax")
		return "%rax", nil

	case *UnaryExpr:
		if v.Op == UnaryDeref {
			return "%rax", e.emitExpr(v.Operand)
		}
		return "", newError(Unimplemented, e.src.Span(v.Rng), "operand is not an lvalue")

	case *ArraySubscriptExpr:
		if err := e.emitAddrOfBaseDecayed(v.Base); err != nil {
			return "", err
		}
		e.w.Insn("pushq", "%rax")
		if err := e.emitExpr(v.Index); err != nil {
			return "", err
		}
		elemSize := sizeOf(elementTypeOf(v.Base.Type()))
		e.w.Insn("imulq", xasm.Imm(int64(elemSize))+", %rax")
		e.w.Insn("movq", "%rax, %rcx")
		e.w.Insn("popq", "%rax")
		e.w.Insn("addq", "%rcx, %rax")
		return "%rax", nil

	case *MemberExpr:
		if v.Arrow {
			if err := e.emitExpr(v.Base); err != nil {
				return "", err
			}
		} else {
			if _, err := e.emitAddrOf(v.Base); err != nil {
				return "", err
			}
		}
		rt := recordTypeOf(v.Base.Type(), v.Arrow)
		off := memberOffset(rt, v.Field)
		if off != 0 {
			e.w.Insn("addq", xasm.Imm(int64(off))+", %rax")
		}
		return "%rax", nil

	default:
		return "", newError(Unimplemented, e.src.Span(n.Range()), "operand is not an lvalue")
	}
}

// emitAddrOfBaseDecayed loads an array subscript's base as a pointer value:
// an array name decays to its address, while a pointer-typed base is
// simply loaded.
func (e *Emitter) emitAddrOfBaseDecayed(base Expr) error {
	if _, ok := base.Type().(ArrayType); ok {
		_, err := e.emitAddrOf(base)
		return err
	}
	return e.emitExpr(base)
}

func recordTypeOf(t Type, arrow bool) *RecordType {
	if arrow {
		if pt, ok := t.(PointerType); ok {
			t = pt.Base
		}
	}
	rt, _ := t.(*RecordType)
	return rt
}

func memberOffset(rt *RecordType, field string) int {
	if rt == nil || rt.IsUnion {
		return 0
	}
	off := 0
	for _, m := range rt.Members {
		if m.Name == field {
			return off
		}
		off += sizeOf(m.Type)
	}
	return 0
}

var cmpSetForBinOp = map[BinaryOp]string{
	BinLess: "setl", BinGreater: "setg", BinLessEq: "setle",
	BinGreaterEq: "setge", BinEq: "sete", BinNotEq: "setne",
}

func (e *Emitter) emitBinary(n *BinaryExpr) error {
	if n.Op == BinAssign {
		return e.emitAssign(n.Left, n.Right)
	}
	if op, ok := compoundAssignBase(n.Op); ok {
		return e.emitAssign(n.Left, &BinaryExpr{Op: op, Left: n.Left, Right: n.Right, Ty: n.Ty, Rng: n.Rng})
	}
	if n.Op == BinComma {
		if err := e.emitExpr(n.Left); err != nil {
			return err
		}
		return e.emitExpr(n.Right)
	}
	if n.Op == BinLogAnd || n.Op == BinLogOr {
		return e.emitShortCircuit(n)
	}

	if err := e.emitExpr(n.Left); err != nil {
		return err
	}
	e.w.Insn("pushq", "%rax")
	if err := e.emitExpr(n.Right); err != nil {
		return err
	}
	e.w.Insn("movq", "%rax, %rcx")
	e.w.Insn("popq", "%rax")

	switch n.Op {
	case BinAdd:
		e.w.Insn("addq", "%rcx, %rax")
	case BinSub:
		e.w.Insn("subq", "%rcx, %rax")
	case BinMul:
		e.w.Insn("imulq", "%rcx, %rax")
	case BinDiv:
		e.w.Insn("cqto", "")
		e.w.Insn("idivq", "%rcx")
	case BinMod:
		e.w.Insn("cqto", "")
		e.w.Insn("idivq", "%rcx")
		e.w.Insn("movq", "%rdx, %rax")
	case BinShl:
		e.w.Insn("shlq", "%cl, %rax")
	case BinShr:
		e.w.Insn("sarq", "%cl, %rax")
	case BinBitAnd:
		e.w.Insn("andq", "%rcx, %rax")
	case BinBitOr:
		e.w.Insn("orq", "%rcx, %rax")
	case BinBitXor:
		e.w.Insn("xorq", "%rcx, %rax")
	case BinLess, BinGreater, BinLessEq, BinGreaterEq, BinEq, BinNotEq:
		e.w.Insn("cmpq", "%rcx, %rax")
		e.w.Insn(cmpSetForBinOp[n.Op], "%al")
		e.w.Insn("movzbq", "%al, %rax")
	default:
		return newError(Unimplemented, e.src.Span(n.Rng), "unsupported binary operator in emitter")
	}
	return nil
}

func compoundAssignBase(op BinaryOp) (BinaryOp, bool) {
	switch op {
	case BinAddAssign:
		return BinAdd, true
	case BinSubAssign:
		return BinSub, true
	case BinMulAssign:
		return BinMul, true
	case BinDivAssign:
		return BinDiv, true
	case BinModAssign:
		return BinMod, true
	case BinAndAssign:
		return BinBitAnd, true
	case BinOrAssign:
		return BinBitOr, true
	case BinXorAssign:
		return BinBitXor, true
	case BinShlAssign:
		return BinShl, true
	case BinShrAssign:
		return BinShr, true
	default:
		return 0, false
	}
}

func (e *Emitter) emitShortCircuit(n *BinaryExpr) error {
	skip := e.newLabel("scshort")
	if err := e.emitExpr(n.Left); err != nil {
		return err
	}
	e.w.Insn("cmpq", "$0, %rax")
	if n.Op == BinLogAnd {
		e.w.Insn("je", skip)
	} else {
		e.w.Insn("jne", skip)
	}
	if err := e.emitExpr(n.Right); err != nil {
		return err
	}
	e.w.Insn("cmpq", "$0, %rax")
	e.w.Insn("setne", "%al")
	e.w.Insn("movzbq", "%al, %rax")
	end := e.newLabel("scend")
	e.w.Insn("jmp", end)
	e.w.Label(skip)
	if n.Op == BinLogAnd {
		e.w.Insn("movq", "$0, %rax")
	} else {
		e.w.Insn("movq", "$1, %rax")
	}
	e.w.Label(end)
	return nil
}

func (e *Emitter) emitAssign(lhs Expr, rhs Expr) error {
	addrReg, err := e.emitAddrOf(lhs)
	if err != nil {
		return err
	}
	e.w.Insn("pushq", addrReg)
	if err := e.emitExpr(rhs); err != nil {
		return err
	}
	e.w.Insn("popq", "%rcx")
	e.w.Insn("movq", "%rax, (%rcx)")
	return nil
}

func (e *Emitter) emitUnary(n *UnaryExpr) error {
	switch n.Op {
	case UnaryAddr:
		_, err := e.emitAddrOf(n.Operand)
		return err
	case UnaryDeref:
		if err := e.emitExpr(n.Operand); err != nil {
			return err
		}
		e.w.Insn("movq", "(%rax), %rax")
		return nil
	case UnaryNeg:
		if err := e.emitExpr(n.Operand); err != nil {
			return err
		}
		e.w.Insn("negq", "%rax")
		return nil
	case UnaryPlus:
		return e.emitExpr(n.Operand)
	case UnaryNot:
		if err := e.emitExpr(n.Operand); err != nil {
			return err
		}
		e.w.Insn("cmpq", "$0, %rax")
		e.w.Insn("sete", "%al")
		e.w.Insn("movzbq", "%al, %rax")
		return nil
	case UnaryBitNot:
		if err := e.emitExpr(n.Operand); err != nil {
			return err
		}
		e.w.Insn("notq", "%rax")
		return nil
	case UnaryPreInc, UnaryPreDec, UnaryPostInc, UnaryPostDec:
		return e.emitIncDec(n)
	default:
		return newError(Unimplemented, e.src.Span(n.Rng), "unsupported unary operator in emitter")
	}
}

func (e *Emitter) emitIncDec(n *UnaryExpr) error {
	addrReg, err := e.emitAddrOf(n.Operand)
	if err != nil {
		return err
	}
	e.w.Insn("pushq", addrReg)
	e.w.Insn("movq", "(%rax), %rax")
	e.w.Insn("movq", "%rax, %rdx") // preserve original value for postfix forms
	delta := int64(1)
	if tp, ok := n.Operand.Type().(PointerType); ok {
		delta = int64(sizeOf(tp.Base))
	}
	if n.Op == UnaryPreDec || n.Op == UnaryPostDec {
		delta = -delta
	}
	e.w.Insn("addq", fmt.Sprintf("$%d, %%rax", delta))
	e.w.Insn("popq", "%rcx")
	e.w.Insn("movq", "%rax, (%rcx)")
	if n.Op == UnaryPostInc || n.Op == UnaryPostDec {
		e.w.Insn("movq", "%rdx, %rax")
	}
	return nil
}

func (e *Emitter) emitConditional(n *ConditionalExpr) error {
	elseLabel := e.newLabel("condelse")
	end := e.newLabel("condend")
	if err := e.emitExpr(n.Cond); err != nil {
		return err
	}
	e.w.Insn("cmpq", "$0, %rax")
	e.w.Insn("je", elseLabel)
	if err := e.emitExpr(n.Then); err != nil {
		return err
	}
	e.w.Insn("jmp", end)
	e.w.Label(elseLabel)
	if err := e.emitExpr(n.Else); err != nil {
		return err
	}
	e.w.Label(end)
	return nil
}

// emitCall evaluates arguments left-to-right onto the stack, then pops them
// into the SysV integer argument registers in reverse, matching the
// straight-line spill strategy used everywhere else in this emitter.
func (e *Emitter) emitCall(n *CallExpr) error {
	if len(n.Args) > len(xasm.ArgRegs64) {
		return newError(Unimplemented, e.src.Span(n.Rng), "more than 6 arguments are not supported by this emitter")
	}
	for _, a := range n.Args {
		if err := e.emitExpr(a); err != nil {
			return err
		}
		e.w.Insn("pushq", "%rax")
	}
	for i := len(n.Args) - 1; i >= 0; i-- {
		e.w.Insn("popq", xasm.ArgRegs64[i])
	}
	callee, ok := n.Callee.(*DeclRefExpr)
	if !ok {
		return newError(Unimplemented, e.src.Span(n.Rng), "only direct calls to named functions are supported")
	}
	e.w.Insn("movq", "$0, %rax") // al = 0 variadic float-arg count, harmless for non-variadic callees
	e.w.Insn("call", callee.Name)
	return nil
}
