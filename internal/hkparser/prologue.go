package hkparser

import (
	"github.com/hikoworks/hkc/internal/hkast"
	"github.com/hikoworks/hkc/internal/hkdatum"
	"github.com/hikoworks/hkc/internal/hkerrors"
	"github.com/hikoworks/hkc/internal/hktoken"
)

// ParseTop parses the file's single Top form, spec.md §4.H's three
// declaration productions:
//
//	module <fqname> [ ("application"|"library") <string> | "package" <version> ] ["fallback" | "if" <guard>] ";"
//	program <string> [<version>] ["fallback" | "if" <guard>] ";"
//	library <string> [<version>] ["fallback" | "if" <guard>] ";"
//
// followed by an ordered run of import statements. ok is false only if
// the file has no recognizable Top keyword at all.
func (p *Parser) ParseTop() (*hkast.Top, bool) {
	kw := p.c.Current()
	if kw.Kind != hktoken.KindIdentifier {
		return nil, false
	}
	var kind hkast.TopKind
	switch kw.Text {
	case "module":
		kind = hkast.TopModule
	case "program":
		kind = hkast.TopProgram
	case "library":
		kind = hkast.TopLibrary
	default:
		return nil, false
	}
	p.c.Advance()

	decl := hkast.Declaration{Span: hkast.Span{First: kw.First.Byte}}

	if kind == hkast.TopModule {
		p.parseModuleDeclarationTail(&decl)
	} else {
		p.parseOutputDeclarationTail(&decl)
	}

	switch cur := p.c.Current(); {
	case cur.Kind == hktoken.KindIdentifier && cur.Text == "fallback":
		p.c.Advance()
		decl.Fallback = true
	case cur.Kind == hktoken.KindIdentifier && cur.Text == "if":
		p.c.Advance()
		guard, ok := p.ParseGuardExpr()
		if ok {
			decl.Guard = guard
		} else {
			p.errs.AddAt(p.c.Current().First.Byte, hkerrors.MissingExpression, "")
		}
	}

	decl.Span.Last = p.c.Current().First.Byte
	top := &hkast.Top{Span: hkast.Span{First: kw.First.Byte}, Kind: kind, Declaration: decl}
	p.expectSemicolon()

	for {
		cur := p.c.Current()
		if cur.IsEOF() {
			break
		}
		if cur.Kind == hktoken.KindIdentifier && cur.Text == "import" {
			imp := p.parseImport()
			top.Imports = append(top.Imports, imp)
			continue
		}
		// Unrecognized statement: record and recover to the next ';'.
		p.errs.AddAt(cur.First.Byte, hkerrors.InvalidPrologueStatement, "")
		p.recoverToSemicolon()
	}

	top.Span.Last = p.c.Current().First.Byte
	return top, true
}

// parseModuleDeclarationTail parses the part of a `module` declaration
// between the fully-qualified name and the trailing fallback/if clause:
// either `("application"|"library") <string>`, or `"package" <version>`,
// or nothing.
func (p *Parser) parseModuleDeclarationTail(decl *hkast.Declaration) {
	nameTok := p.c.Current()
	if nameTok.Kind == hktoken.KindIdentifier || (nameTok.Kind == hktoken.KindOperator && nameTok.Text == ".") {
		decl.FQName = p.parseDottedName()
	} else {
		p.errs.AddAt(nameTok.First.Byte, hkerrors.MissingModuleName, "")
	}

	cur := p.c.Current()
	switch {
	case cur.Kind == hktoken.KindIdentifier && (cur.Text == "application" || cur.Text == "library"):
		p.c.Advance()
		decl.OutputKind = cur.Text
		decl.OutputStem = p.expectStringValue(hkerrors.MissingFilenameStem)
		decl.HasStem = true
	case cur.Kind == hktoken.KindIdentifier && cur.Text == "package":
		p.c.Advance()
		vtok := p.c.Current()
		if vtok.Kind == hktoken.KindVersion {
			p.c.Advance()
			decl.HasPackageVersion = true
			decl.PackageVersion = versionDatum(vtok)
		} else {
			p.errs.AddAt(vtok.First.Byte, hkerrors.MissingExpression, "")
		}
	}
}

// parseOutputDeclarationTail parses the part of a `program`/`library`
// declaration between the keyword and the trailing fallback/if clause:
// a mandatory output-stem string and an optional version.
func (p *Parser) parseOutputDeclarationTail(decl *hkast.Declaration) {
	decl.OutputStem = p.expectStringValue(hkerrors.MissingFilenameStem)
	decl.HasStem = true
	if vtok := p.c.Current(); vtok.Kind == hktoken.KindVersion {
		p.c.Advance()
		decl.HasVersion = true
		decl.Version = versionDatum(vtok)
	}
}

func (p *Parser) parseDottedName() string {
	name := ""
	if p.c.Current().Kind == hktoken.KindOperator && p.c.Current().Text == "." {
		name += "."
		p.c.Advance()
	}
	for {
		t := p.c.Current()
		if t.Kind != hktoken.KindIdentifier {
			break
		}
		name += t.Text
		p.c.Advance()
		if p.c.Current().Kind == hktoken.KindOperator && p.c.Current().Text == "." {
			name += "."
			p.c.Advance()
			continue
		}
		break
	}
	return name
}

func versionDatum(t hktoken.Token) hkdatum.Datum {
	return hkdatum.NewVersion(t.Version)
}

func (p *Parser) expectSemicolon() {
	t := p.c.Current()
	if t.Kind == hktoken.KindSimple && t.Text == ";" {
		p.c.Advance()
		return
	}
	p.errs.AddAt(t.First.Byte, hkerrors.MissingSemicolon, "")
}

func (p *Parser) recoverToSemicolon() {
	for {
		t := p.c.Current()
		if t.IsEOF() {
			return
		}
		if t.Kind == hktoken.KindSimple && t.Text == ";" {
			p.c.Advance()
			return
		}
		p.c.Advance()
	}
}

// parseImport parses one `import ...;` statement in any of its three
// forms (spec.md §5): a remote repository (git URL + rev, or a zip
// path), a sibling module by fully-qualified name, or a library path —
// each optionally followed by `as <name>` and/or `if <build-guard>`.
func (p *Parser) parseImport() hkast.Import {
	kw := p.c.Advance() // 'import'
	imp := hkast.Import{Span: hkast.Span{First: kw.First.Byte}}

	next := p.c.Current()
	switch {
	case next.Kind == hktoken.KindIdentifier && next.Text == "git":
		p.c.Advance()
		imp.Kind = hkast.ImportRepository
		imp.GitURL = p.expectStringValue(hkerrors.MissingGitURL)
		imp.GitRev = p.expectStringValue(hkerrors.MissingGitRev)
	case next.Kind == hktoken.KindIdentifier && next.Text == "zip":
		p.c.Advance()
		imp.Kind = hkast.ImportRepository
		imp.ZipPath = p.expectStringValue(hkerrors.MissingZipPath)
	case next.Kind == hktoken.KindIdentifier && next.Text == "lib":
		p.c.Advance()
		imp.Kind = hkast.ImportLibraryKind
		imp.LibPath = p.expectStringValue(hkerrors.MissingLibPath)
	case next.Kind == hktoken.KindIdentifier:
		imp.Kind = hkast.ImportModuleKind
		imp.ModuleName = p.parseDottedName()
		if imp.ModuleName == "" {
			p.errs.AddAt(next.First.Byte, hkerrors.MissingFQName, "")
		}
	default:
		p.errs.AddAt(next.First.Byte, hkerrors.MissingFQName, "")
	}

	if p.c.Current().Kind == hktoken.KindIdentifier && p.c.Current().Text == "as" {
		p.c.Advance()
		asTok := p.c.Current()
		if asTok.Kind == hktoken.KindIdentifier {
			imp.As = asTok.Text
			p.c.Advance()
		} else {
			p.errs.AddAt(asTok.First.Byte, hkerrors.MissingAsName, "")
		}
	}

	if p.c.Current().Kind == hktoken.KindIdentifier && p.c.Current().Text == "if" {
		p.c.Advance()
		guard, ok := p.ParseGuardExpr()
		if ok {
			imp.Guard = guard
		} else {
			p.errs.AddAt(p.c.Current().First.Byte, hkerrors.MissingExpression, "")
		}
	}

	imp.Span.Last = p.c.Current().First.Byte
	p.expectSemicolon()
	return imp
}

func (p *Parser) expectStringValue(code hkerrors.Code) string {
	t := p.c.Current()
	if t.Kind == hktoken.KindString {
		p.c.Advance()
		return t.StringValue
	}
	p.errs.AddAt(t.First.Byte, code, "")
	return ""
}

