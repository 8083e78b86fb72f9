// Package hkast implements the AST node family of spec.md §4.G: tagged
// variants for the Top form, Declarations, Imports, and build-guard
// expressions, using plain struct fields instead of interface/inheritance
// hierarchies — each family is a single Go type with a Kind tag and the
// union of fields its variants need, the same arena-of-values shape
// internal/gps uses for its own small closed node sets (Atom, ProjectRoot,
// Constraint) rather than a class hierarchy per variant.
package hkast

import (
	"github.com/hikoworks/hkc/internal/hkdatum"
)

// Span is the (first, last) byte-offset pair every node carries, the
// same representation hkerrors.Span uses so nodes can be reported
// directly against the shared error list.
type Span struct {
	First, Last uint64
}

// TopKind discriminates the three forms a source file's Top node may
// take (spec.md §4.G "Top"): a module, a program, or a library.
type TopKind int

const (
	TopModule TopKind = iota
	TopProgram
	TopLibrary
)

// Top is the root node of a parsed prologue: its kind, the single
// Declaration spec.md §3 "AST node" says it owns, and the ordered import
// sequence that follows it. Body nodes are out of this module's scope
// (spec.md §1) and are never populated here.
type Top struct {
	Span        Span
	Kind        TopKind
	Declaration Declaration
	Imports     []Import
	enabled     bool
	evaluated   bool
}

// RepositoryImports, ModuleImports and LibraryImports return the
// sub-sequence of Imports of the matching Kind, in source order — the
// "four ordered sequences" spec.md §3 describes as separate lists,
// projected from the single parse-order Imports slice that already
// carries that order.
func (t *Top) RepositoryImports() []Import { return t.importsOfKind(ImportRepository) }
func (t *Top) ModuleImports() []Import     { return t.importsOfKind(ImportModuleKind) }
func (t *Top) LibraryImports() []Import    { return t.importsOfKind(ImportLibraryKind) }

// Enabled reports whether this Top's own declaration was found truthy by
// the last call to EvaluateBuildGuards; false until evaluated.
func (t *Top) Enabled() bool { return t.enabled }

func (t *Top) importsOfKind(k ImportKind) []Import {
	var out []Import
	for _, imp := range t.Imports {
		if imp.Kind == k {
			out = append(out, imp)
		}
	}
	return out
}

// Declaration is the single top-level declaration spec.md §3 describes:
// the module/program/library line itself, carrying its own nullable
// build guard plus kind-specific fields. For TopModule, FQName and
// (optionally) OutputKind/OutputStem or PackageVersion are meaningful;
// for TopProgram/TopLibrary, OutputStem and (optionally) Version are.
type Declaration struct {
	Span Span

	// FQName is the declared fully-qualified name; module declarations
	// only.
	FQName string

	// OutputKind is "application" or "library" when a module declares an
	// output stem that way (`module a.b application "out"`); empty
	// otherwise.
	OutputKind string
	// OutputStem is the output filename stem: the string literal
	// following "application"/"library" for a module declaration, or the
	// mandatory leading string for a program/library declaration.
	OutputStem string
	HasStem    bool

	// HasPackageVersion/PackageVersion hold a module's `package
	// <version>` form.
	HasPackageVersion bool
	PackageVersion    hkdatum.Datum

	// HasVersion/Version hold the optional version following a
	// program/library declaration's output stem.
	HasVersion bool
	Version    hkdatum.Datum

	// Fallback is true if the declaration ends in the bare "fallback"
	// keyword instead of an "if <build-guard>" clause.
	Fallback bool
	// Guard is non-nil if the declaration carries an "if <build-guard>"
	// clause.
	Guard *BuildGuardExpr
}

// ImportKind discriminates the three import forms spec.md §4.G and §5
// describe.
type ImportKind int

const (
	ImportRepository ImportKind = iota
	ImportModuleKind
	ImportLibraryKind
)

// Import is one `import ...;` statement. Which fields are meaningful
// depends on Kind:
//   - ImportRepository: GitURL/GitRev or ZipPath, As
//   - ImportModuleKind: ModuleName, As
//   - ImportLibraryKind: LibPath, As
type Import struct {
	Span       Span
	Kind       ImportKind
	GitURL     string
	GitRev     string
	ZipPath    string
	ModuleName string
	LibPath    string
	As         string
	Guard      *BuildGuardExpr // non-nil if the import carries an `if` build-guard clause
	Enabled    bool            // set by EvaluateBuildGuards; false until evaluated
}

// BuildGuardExprKind discriminates the four build-guard expression node
// variants spec.md §4.H's grammar produces.
type BuildGuardExprKind int

const (
	ExprLiteral BuildGuardExprKind = iota
	ExprVariable
	ExprUnary
	ExprBinary
)

// BuildGuardExpr is a build-guard expression tree node. Which fields
// apply depends on Kind: ExprLiteral uses Literal, ExprVariable uses
// Name, ExprUnary uses Op and Operand, ExprBinary uses Op, Left and Right.
type BuildGuardExpr struct {
	Span    Span
	Kind    BuildGuardExprKind
	Literal hkdatum.Datum
	Name    string
	Op      string
	Operand *BuildGuardExpr
	Left    *BuildGuardExpr
	Right   *BuildGuardExpr
}

// Children returns e's immediate sub-expressions, for callers that walk
// the tree generically (error recovery, pretty-printers).
func (e *BuildGuardExpr) Children() []*BuildGuardExpr {
	switch e.Kind {
	case ExprUnary:
		return []*BuildGuardExpr{e.Operand}
	case ExprBinary:
		return []*BuildGuardExpr{e.Left, e.Right}
	default:
		return nil
	}
}

// Evaluate implements spec.md §4.H's `evaluate_build_guard(env)`: it
// walks e against ns and returns the resulting Datum, or an error if any
// sub-expression's operand types don't support the requested operation or
// references a variable ns does not bind.
func (e *BuildGuardExpr) Evaluate(ns *hkdatum.Namespace) (hkdatum.Datum, error) {
	return evalGuard(e, ns)
}
