package jcc

// ScopeKind distinguishes file scope (the one frame that outlives the whole
// translation unit) from the block/function-prototype scopes pushed and
// popped as the parser descends into compound statements and parameter
// lists.
type ScopeKind int

const (
	FileScope ScopeKind = iota
	BlockScope
	FunctionProtoScope
)

// scopeFrame is one entry of the Scope stack: three maps, for variables,
// type names, and functions. Typedef names and tag names share the types
// map without colliding (see DeclareType), so per C11 §6.2.3
// `typedef int foo; struct foo { int x; };` keeps `foo` the typedef
// distinct from `struct foo` the tag.
type scopeFrame struct {
	kind  ScopeKind
	decls map[string]*VarDecl
	types map[string]Type // typedef names and tag names (struct/union/enum), in one map
	funcs map[string]*FunctionDecl
}

func newScopeFrame(kind ScopeKind) *scopeFrame {
	return &scopeFrame{
		kind:  kind,
		decls: make(map[string]*VarDecl),
		types: make(map[string]Type),
		funcs: make(map[string]*FunctionDecl),
	}
}

// Scope is an ordered stack of frames, innermost last. Lookups walk from
// the end backward so an inner declaration shadows an outer one, per
// spec.md's scope-stack module. File scope is pushed once at construction
// and is never popped.
type Scope struct {
	frames []*scopeFrame
}

func NewScope() *Scope {
	s := &Scope{}
	s.frames = append(s.frames, newScopeFrame(FileScope))
	return s
}

func (s *Scope) Enter(kind ScopeKind) {
	s.frames = append(s.frames, newScopeFrame(kind))
}

// Exit pops the innermost frame. Popping file scope is a programming error
// in the parser, not a user-facing diagnostic, since it can only happen if
// Enter/Exit calls are mismatched.
func (s *Scope) Exit() {
	if len(s.frames) <= 1 {
		panic("jcc: cannot exit file scope")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Scope) current() *scopeFrame {
	return s.frames[len(s.frames)-1]
}

func (s *Scope) AtFileScope() bool {
	return len(s.frames) == 1
}

// DeclareVar installs name in the innermost frame. Redeclaration within the
// SAME frame is a Redefinition error; shadowing an outer frame's binding is
// allowed and is the common case for parameters and locals.
func (s *Scope) DeclareVar(name string, decl *VarDecl, src *Source) error {
	f := s.current()
	if _, ok := f.decls[name]; ok {
		return newError(Redefinition, src.Span(decl.Range()), "redefinition of '%s'", name)
	}
	f.decls[name] = decl
	return nil
}

func (s *Scope) DeclareFunc(name string, decl *FunctionDecl, src *Source) error {
	f := s.current()
	if existing, ok := f.funcs[name]; ok && existing.Body != nil && decl.Body != nil {
		return newError(Redefinition, src.Span(decl.Range()), "redefinition of function '%s'", name)
	}
	f.funcs[name] = decl
	return nil
}

// DeclareType installs a typedef name or tag name. Tags are prefixed so
// `struct foo` and a typedef named `foo` can coexist in the same frame map
// without colliding, while still sharing one lookup path for the parser's
// "is this identifier a type" query.
func (s *Scope) DeclareType(name string, t Type, src *Source, r Range) error {
	f := s.current()
	if existing, ok := f.types[name]; ok {
		if !typesEqual(existing, t) {
			return newError(Redefinition, src.Span(r), "redefinition of type '%s'", name)
		}
		return nil
	}
	f.types[name] = t
	return nil
}

// LookupVar walks outward from the innermost frame, returning the nearest
// binding.
func (s *Scope) LookupVar(name string) (*VarDecl, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].decls[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *Scope) LookupFunc(name string) (*FunctionDecl, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].funcs[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *Scope) LookupType(name string) (Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].types[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// IsTypeName reports whether name currently resolves to a typedef or tag,
// the parse-time scope query the declarator grammar uses to disambiguate
// `foo * bar;` (a declaration if `foo` names a type, a multiplication
// expression statement otherwise) instead of a lexer-level typedef flag.
func (s *Scope) IsTypeName(name string) bool {
	_, ok := s.LookupType(name)
	return ok
}

func taggedName(kw string, tag string) string {
	return kw + " " + tag
}
