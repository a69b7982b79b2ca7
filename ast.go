package jcc

// Node is the common capability of every AST value: a source Range for
// diagnostics and Accept for the visitor dispatch used by ast_printer.go
// and any future consumer. Declarations, statements, and expressions are
// three disjoint node families implemented as Go interfaces (a tagged sum
// via dynamic dispatch) rather than one inheritance hierarchy with runtime
// downcasts, per spec.md's design note.
type Node interface {
	Range() Range
	Accept(v Visitor)
}

// Decl is the family of top-level and block-scope declarations.
type Decl interface {
	Node
	declNode()
}

// Stmt is the family of statements that can appear inside a function body.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the family of expression nodes. Every concrete Expr carries the
// Type resolved for it, filled in as the parser builds the node (this
// subset resolves types during parsing rather than in a separate pass —
// see DESIGN.md).
type Expr interface {
	Node
	exprNode()
	Type() Type
}

// TranslationUnit is the root node: an ordered list of top-level
// declarations, matching spec.md's single-TU Non-goal (no #include
// resolution, no linking).
type TranslationUnit struct {
	Decls []Decl
	Rng   Range
}

func (n *TranslationUnit) Range() Range    { return n.Rng }
func (n *TranslationUnit) Accept(v Visitor) { v.VisitTranslationUnit(n) }

// --- Declarations ---------------------------------------------------------

// VarDecl is an object declaration, whether at file scope or block scope,
// with or without an initializer.
type VarDecl struct {
	Name    string
	Ty      Type
	Storage StorageClass
	Init    Expr // nil if uninitialized
	Rng     Range
}

func (n *VarDecl) Range() Range     { return n.Rng }
func (n *VarDecl) Accept(v Visitor) { v.VisitVarDecl(n) }
func (*VarDecl) declNode()         {}

// FunctionDecl is a function declaration or definition; Body is nil for a
// prototype-only declaration.
type FunctionDecl struct {
	Name    string
	Ty      FunctionType
	Storage StorageClass
	Params  []*ParamDecl
	Body    *CompoundStmt
	Rng     Range
}

func (n *FunctionDecl) Range() Range     { return n.Rng }
func (n *FunctionDecl) Accept(v Visitor) { v.VisitFunctionDecl(n) }
func (*FunctionDecl) declNode()         {}

// RecordDecl introduces a struct or union tag.
type RecordDecl struct {
	Ty  *RecordType
	Rng Range
}

func (n *RecordDecl) Range() Range     { return n.Rng }
func (n *RecordDecl) Accept(v Visitor) { v.VisitRecordDecl(n) }
func (*RecordDecl) declNode()         {}

// TypedefDecl binds Name to Ty in the type namespace.
type TypedefDecl struct {
	Name string
	Ty   Type
	Rng  Range
}

func (n *TypedefDecl) Range() Range     { return n.Rng }
func (n *TypedefDecl) Accept(v Visitor) { v.VisitTypedefDecl(n) }
func (*TypedefDecl) declNode()         {}

// EnumConstant is a single `NAME` or `NAME = expr` entry of an enum.
type EnumConstant struct {
	Name  string
	Value int64
	Rng   Range
}

// EnumDecl introduces an enum tag and its constants, all typed int per
// SPEC_FULL.md §7.7.
type EnumDecl struct {
	Tag       string
	Constants []EnumConstant
	Rng       Range
}

func (n *EnumDecl) Range() Range     { return n.Rng }
func (n *EnumDecl) Accept(v Visitor) { v.VisitEnumDecl(n) }
func (*EnumDecl) declNode()         {}

// --- Statements ------------------------------------------------------------

type CompoundStmt struct {
	Stmts []Stmt
	Rng   Range
}

func (n *CompoundStmt) Range() Range     { return n.Rng }
func (n *CompoundStmt) Accept(v Visitor) { v.VisitCompoundStmt(n) }
func (*CompoundStmt) stmtNode()         {}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else clause
	Rng  Range
}

func (n *IfStmt) Range() Range     { return n.Rng }
func (n *IfStmt) Accept(v Visitor) { v.VisitIfStmt(n) }
func (*IfStmt) stmtNode()         {}

type WhileStmt struct {
	Cond Expr
	Body Stmt
	Rng  Range
}

func (n *WhileStmt) Range() Range     { return n.Rng }
func (n *WhileStmt) Accept(v Visitor) { v.VisitWhileStmt(n) }
func (*WhileStmt) stmtNode()         {}

type DoWhileStmt struct {
	Body Stmt
	Cond Expr
	Rng  Range
}

func (n *DoWhileStmt) Range() Range     { return n.Rng }
func (n *DoWhileStmt) Accept(v Visitor) { v.VisitDoWhileStmt(n) }
func (*DoWhileStmt) stmtNode()         {}

// ForStmt's three clauses are each independently optional, per C's grammar.
type ForStmt struct {
	Init Stmt // DeclStmt or ExprStmt, nil if omitted
	Cond Expr // nil if omitted
	Post Expr // nil if omitted
	Body Stmt
	Rng  Range
}

func (n *ForStmt) Range() Range     { return n.Rng }
func (n *ForStmt) Accept(v Visitor) { v.VisitForStmt(n) }
func (*ForStmt) stmtNode()         {}

type SwitchStmt struct {
	Tag  Expr
	Body Stmt // always a CompoundStmt containing CaseStmt/DefaultStmt markers
	Rng  Range
}

func (n *SwitchStmt) Range() Range     { return n.Rng }
func (n *SwitchStmt) Accept(v Visitor) { v.VisitSwitchStmt(n) }
func (*SwitchStmt) stmtNode()         {}

// CaseStmt is a `case expr:` label attached to the statement that follows
// it, matching C's labeled-statement grammar rather than modeling cases as
// a list owned by SwitchStmt.
type CaseStmt struct {
	Value Expr
	Body  Stmt
	Rng   Range
}

func (n *CaseStmt) Range() Range     { return n.Rng }
func (n *CaseStmt) Accept(v Visitor) { v.VisitCaseStmt(n) }
func (*CaseStmt) stmtNode()         {}

type DefaultStmt struct {
	Body Stmt
	Rng  Range
}

func (n *DefaultStmt) Range() Range     { return n.Rng }
func (n *DefaultStmt) Accept(v Visitor) { v.VisitDefaultStmt(n) }
func (*DefaultStmt) stmtNode()         {}

type ReturnStmt struct {
	Value Expr // nil for `return;`
	Rng   Range
}

func (n *ReturnStmt) Range() Range     { return n.Rng }
func (n *ReturnStmt) Accept(v Visitor) { v.VisitReturnStmt(n) }
func (*ReturnStmt) stmtNode()         {}

type BreakStmt struct{ Rng Range }

func (n *BreakStmt) Range() Range     { return n.Rng }
func (n *BreakStmt) Accept(v Visitor) { v.VisitBreakStmt(n) }
func (*BreakStmt) stmtNode()         {}

type ContinueStmt struct{ Rng Range }

func (n *ContinueStmt) Range() Range     { return n.Rng }
func (n *ContinueStmt) Accept(v Visitor) { v.VisitContinueStmt(n) }
func (*ContinueStmt) stmtNode()         {}

type GotoStmt struct {
	Label string
	Rng   Range
}

func (n *GotoStmt) Range() Range     { return n.Rng }
func (n *GotoStmt) Accept(v Visitor) { v.VisitGotoStmt(n) }
func (*GotoStmt) stmtNode()         {}

type LabeledStmt struct {
	Label string
	Body  Stmt
	Rng   Range
}

func (n *LabeledStmt) Range() Range     { return n.Rng }
func (n *LabeledStmt) Accept(v Visitor) { v.VisitLabeledStmt(n) }
func (*LabeledStmt) stmtNode()         {}

// DeclStmt wraps a VarDecl (or a run of them sharing one DeclSpec) so it
// can appear in statement position, e.g. inside a CompoundStmt or a for
// loop's init clause.
type DeclStmt struct {
	Decls []*VarDecl
	Rng   Range
}

func (n *DeclStmt) Range() Range     { return n.Rng }
func (n *DeclStmt) Accept(v Visitor) { v.VisitDeclStmt(n) }
func (*DeclStmt) stmtNode()         {}

type ExprStmt struct {
	Value Expr // nil for a bare `;`
	Rng   Range
}

func (n *ExprStmt) Range() Range     { return n.Rng }
func (n *ExprStmt) Accept(v Visitor) { v.VisitExprStmt(n) }
func (*ExprStmt) stmtNode()         {}

// --- Expressions -----------------------------------------------------------

type IntLiteral struct {
	Value int64
	Ty    Type
	Rng   Range
}

func (n *IntLiteral) Range() Range     { return n.Rng }
func (n *IntLiteral) Accept(v Visitor) { v.VisitIntLiteral(n) }
func (*IntLiteral) exprNode()         {}
func (n *IntLiteral) Type() Type       { return n.Ty }

type FloatLiteral struct {
	Value float64
	Ty    Type
	Rng   Range
}

func (n *FloatLiteral) Range() Range     { return n.Rng }
func (n *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(n) }
func (*FloatLiteral) exprNode()         {}
func (n *FloatLiteral) Type() Type       { return n.Ty }

type CharLiteral struct {
	Value byte
	Rng   Range
}

func (n *CharLiteral) Range() Range     { return n.Rng }
func (n *CharLiteral) Accept(v Visitor) { v.VisitCharLiteral(n) }
func (*CharLiteral) exprNode()         {}
func (n *CharLiteral) Type() Type       { return TypeChar }

// StringLiteral's Type is always `char[N+1]`, N being len(Value), to
// account for the implicit trailing NUL.
type StringLiteral struct {
	Value string
	Rng   Range
}

func (n *StringLiteral) Range() Range     { return n.Rng }
func (n *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(n) }
func (*StringLiteral) exprNode()         {}
func (n *StringLiteral) Type() Type {
	return ArrayType{Element: TypeChar, Length: len(n.Value) + 1, HasLength: true}
}

// DeclRefExpr names a variable, function, or enum constant; Ty is resolved
// at parse time from a Scope lookup.
type DeclRefExpr struct {
	Name string
	Ty   Type
	Rng  Range
}

func (n *DeclRefExpr) Range() Range     { return n.Rng }
func (n *DeclRefExpr) Accept(v Visitor) { v.VisitDeclRefExpr(n) }
func (*DeclRefExpr) exprNode()         {}
func (n *DeclRefExpr) Type() Type       { return n.Ty }

// UnaryOp is the closed set of prefix/postfix unary operators this subset
// supports.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryBitNot
	UnaryAddr
	UnaryDeref
	UnaryPreInc
	UnaryPreDec
	UnaryPostInc
	UnaryPostDec
	UnaryPlus
)

type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
	Ty      Type
	Rng     Range
}

func (n *UnaryExpr) Range() Range     { return n.Rng }
func (n *UnaryExpr) Accept(v Visitor) { v.VisitUnaryExpr(n) }
func (*UnaryExpr) exprNode()         {}
func (n *UnaryExpr) Type() Type       { return n.Ty }

// BinaryOp is the closed set of infix operators, including assignment and
// compound assignment. Assignments are parsed as a right-associative level
// below binPrec's precedence-climbing table, which holds the rest.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinShl
	BinShr
	BinLess
	BinGreater
	BinLessEq
	BinGreaterEq
	BinEq
	BinNotEq
	BinBitAnd
	BinBitXor
	BinBitOr
	BinLogAnd
	BinLogOr
	BinAssign
	BinAddAssign
	BinSubAssign
	BinMulAssign
	BinDivAssign
	BinModAssign
	BinAndAssign
	BinOrAssign
	BinXorAssign
	BinShlAssign
	BinShrAssign
	BinComma
)

type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Ty    Type
	Rng   Range
}

func (n *BinaryExpr) Range() Range     { return n.Rng }
func (n *BinaryExpr) Accept(v Visitor) { v.VisitBinaryExpr(n) }
func (*BinaryExpr) exprNode()         {}
func (n *BinaryExpr) Type() Type       { return n.Ty }

// ConditionalExpr is the ternary `cond ? then : else`, the one
// right-associative non-assignment operator in the grammar.
type ConditionalExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Ty   Type
	Rng  Range
}

func (n *ConditionalExpr) Range() Range     { return n.Rng }
func (n *ConditionalExpr) Accept(v Visitor) { v.VisitConditionalExpr(n) }
func (*ConditionalExpr) exprNode()         {}
func (n *ConditionalExpr) Type() Type       { return n.Ty }

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Ty     Type
	Rng    Range
}

func (n *CallExpr) Range() Range     { return n.Rng }
func (n *CallExpr) Accept(v Visitor) { v.VisitCallExpr(n) }
func (*CallExpr) exprNode()         {}
func (n *CallExpr) Type() Type       { return n.Ty }

// MemberExpr covers both `.` and `->`; Arrow records which so the emitter
// knows whether Base is already a pointer to the record or the record
// itself.
type MemberExpr struct {
	Base  Expr
	Field string
	Arrow bool
	Ty    Type
	Rng   Range
}

func (n *MemberExpr) Range() Range     { return n.Rng }
func (n *MemberExpr) Accept(v Visitor) { v.VisitMemberExpr(n) }
func (*MemberExpr) exprNode()         {}
func (n *MemberExpr) Type() Type       { return n.Ty }

type ArraySubscriptExpr struct {
	Base  Expr
	Index Expr
	Ty    Type
	Rng   Range
}

func (n *ArraySubscriptExpr) Range() Range     { return n.Rng }
func (n *ArraySubscriptExpr) Accept(v Visitor) { v.VisitArraySubscriptExpr(n) }
func (*ArraySubscriptExpr) exprNode()         {}
func (n *ArraySubscriptExpr) Type() Type       { return n.Ty }

// CastExpr is an explicit `(T) expr`. This subset does not attempt C's
// full implicit-conversion lattice; casts are the one place a conversion
// is guaranteed legal without further checking.
type CastExpr struct {
	Target   Type
	Operand  Expr
	Rng      Range
}

func (n *CastExpr) Range() Range     { return n.Rng }
func (n *CastExpr) Accept(v Visitor) { v.VisitCastExpr(n) }
func (*CastExpr) exprNode()         {}
func (n *CastExpr) Type() Type       { return n.Target }

// InitListExpr is a brace-enclosed initializer, `{1, 2, 3}` or nested
// `{{1,2},{3,4}}`. Designated initializers (`.field = x`) are out of scope
// per spec.md's Non-goals; elements are matched to members/array slots
// positionally.
type InitListExpr struct {
	Elements []Expr
	Ty       Type
	Rng      Range
}

func (n *InitListExpr) Range() Range     { return n.Rng }
func (n *InitListExpr) Accept(v Visitor) { v.VisitInitListExpr(n) }
func (*InitListExpr) exprNode()         {}
func (n *InitListExpr) Type() Type       { return n.Ty }

// SizeofExpr covers both `sizeof expr` and `sizeof(type-name)`; exactly one
// of Operand/OperandType is set. Its own Type is always TypeULong, matching
// size_t's representation in this subset's ABI.
type SizeofExpr struct {
	Operand     Expr
	OperandType Type
	Rng         Range
}

func (n *SizeofExpr) Range() Range     { return n.Rng }
func (n *SizeofExpr) Accept(v Visitor) { v.VisitSizeofExpr(n) }
func (*SizeofExpr) exprNode()         {}
func (n *SizeofExpr) Type() Type       { return TypeULong }
