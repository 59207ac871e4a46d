// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// ParseError reports a syntax error at a resolved source position.
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// Parse lexes and parses source into a File. filename is used only for
// diagnostics.
func Parse(filename, source string) (*File, error) {
	cm := NewCodeMap(filename, source)
	toks, err := lex(cm, source)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, cm: cm}
	stmts, err := p.parseStmts(true)
	if err != nil {
		return nil, err
	}
	return &File{Stmts: stmts, Map: cm}, nil
}

type parser struct {
	toks []token
	pos  int
	cm   *CodeMap
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Pos: p.cur().span.Start, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipNewlines() {
	for p.cur().kind == tokNewline {
		p.advance()
	}
}

func (p *parser) isOp(lit string) bool {
	return p.cur().kind == tokOp && p.cur().lit == lit
}

func (p *parser) isKeyword(lit string) bool {
	return p.cur().kind == tokKeyword && p.cur().lit == lit
}

func (p *parser) expectOp(lit string) error {
	if !p.isOp(lit) {
		return p.errorf("expected %q", lit)
	}
	p.advance()
	return nil
}

func (p *parser) expectKeyword(lit string) error {
	if !p.isKeyword(lit) {
		return p.errorf("expected keyword %q", lit)
	}
	p.advance()
	return nil
}

// parseStmts parses statements until EOF (top == true) or until an "end"
// keyword closing the enclosing block.
func (p *parser) parseStmts(top bool) ([]Stmt, error) {
	var stmts []Stmt
	for {
		p.skipNewlines()
		if p.cur().kind == tokEOF {
			if !top {
				return nil, p.errorf("unexpected end of file, expected \"end\"")
			}
			return stmts, nil
		}
		if !top && p.isKeyword("end") {
			p.advance()
			return stmts, nil
		}
		if !top && p.isKeyword("else") {
			return stmts, nil
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
}

func (p *parser) parseStmt() (Stmt, error) {
	switch {
	case p.isKeyword("def"):
		return p.parseDef()
	case p.isKeyword("if"):
		return p.parseIf()
	case p.isKeyword("for"):
		return p.parseFor()
	case p.isKeyword("return"):
		return p.parseReturn()
	case p.isKeyword("load"):
		return p.parseLoad()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *parser) parseDef() (Stmt, error) {
	start := p.cur().span.Start
	p.advance() // def
	if p.cur().kind != tokIdent {
		return nil, p.errorf("expected function name")
	}
	name := p.advance().lit
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	body, err := p.parseStmts(false)
	if err != nil {
		return nil, err
	}
	return &DefStmt{Span: Span{Start: start, End: p.cur().span.Start}, Name: name, Params: params, Body: body}, nil
}

func (p *parser) parseParams() ([]Param, error) {
	var params []Param
	for !p.isOp(")") {
		var param Param
		if p.isOp("*") && p.peekOp(1, "*") {
			p.advance()
			p.advance()
			param.DStar = true
		} else if p.isOp("*") {
			p.advance()
			param.Star = true
		}
		if p.cur().kind != tokIdent {
			return nil, p.errorf("expected parameter name")
		}
		param.Name = p.advance().lit
		if p.isOp("=") {
			p.advance()
			def, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) peekOp(offset int, lit string) bool {
	i := p.pos + offset
	if i >= len(p.toks) {
		return false
	}
	return p.toks[i].kind == tokOp && p.toks[i].lit == lit
}

func (p *parser) parseIf() (Stmt, error) {
	start := p.cur().span.Start
	p.advance() // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	thenBody, err := p.parseStmts(false)
	if err != nil {
		return nil, err
	}
	var elseBody []Stmt
	if p.isKeyword("else") {
		p.advance()
		if err := p.expectOp(":"); err != nil {
			return nil, err
		}
		p.skipNewlines()
		elseBody, err = p.parseStmts(false)
		if err != nil {
			return nil, err
		}
	} else if p.isKeyword("end") {
		p.advance()
	}
	return &IfStmt{Span: Span{Start: start, End: p.cur().span.Start}, Cond: cond, Then: thenBody, Else: elseBody}, nil
}

func (p *parser) parseFor() (Stmt, error) {
	start := p.cur().span.Start
	p.advance() // for
	if p.cur().kind != tokIdent {
		return nil, p.errorf("expected loop variable name")
	}
	v := p.advance().lit
	if err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	body, err := p.parseStmts(false)
	if err != nil {
		return nil, err
	}
	return &ForStmt{Span: Span{Start: start, End: p.cur().span.Start}, Var: v, X: x, Body: body}, nil
}

func (p *parser) parseReturn() (Stmt, error) {
	start := p.cur().span.Start
	p.advance() // return
	if p.cur().kind == tokNewline || p.cur().kind == tokEOF || p.isKeyword("end") {
		return &ReturnStmt{Span: Span{Start: start, End: p.cur().span.Start}}, nil
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ReturnStmt{Span: Span{Start: start, End: p.cur().span.Start}, X: x}, nil
}

func (p *parser) parseLoad() (Stmt, error) {
	start := p.cur().span.Start
	p.advance() // load
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	if p.cur().kind != tokString {
		return nil, p.errorf("expected module path string")
	}
	path := p.advance().lit
	var names, aliases []string
	for p.isOp(",") {
		p.advance()
		if p.cur().kind != tokIdent {
			return nil, p.errorf("expected imported name")
		}
		name := p.advance().lit
		alias := name
		if p.isOp("=") {
			p.advance()
			if p.cur().kind != tokIdent {
				return nil, p.errorf("expected source name in load alias")
			}
			alias = p.advance().lit
		}
		names = append(names, name)
		aliases = append(aliases, alias)
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &LoadStmt{Span: Span{Start: start, End: p.cur().span.Start}, Path: path, Names: names, Aliases: aliases}, nil
}

// parseSimpleStmt parses an assignment or a bare expression statement.
func (p *parser) parseSimpleStmt() (Stmt, error) {
	start := p.cur().span.Start
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.isOp("=") {
		ident, ok := x.(*Ident)
		if !ok {
			return nil, p.errorf("left side of assignment must be a name")
		}
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Span: Span{Start: start, End: p.cur().span.Start}, Name: ident.Name, Value: val}, nil
	}
	return &ExprStmt{Span: Span{Start: start, End: p.cur().span.Start}, X: x}, nil
}

// --- expressions, precedence climbing ---

var binPrec = map[string]int{
	"or": 1, "and": 2,
	"==": 3, "!=": 3, "<": 3, "<=": 3, ">": 3, ">=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5, "%": 5,
}

func (p *parser) parseExpr() (Expr, error) { return p.parseBinary(1) }

func (p *parser) parseBinary(minPrec int) (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, prec, ok := p.peekBinOp()
		if !ok || prec < minPrec {
			return lhs, nil
		}
		start := p.cur().span.Start
		p.advance()
		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Span: Span{Start: start, End: p.cur().span.Start}, Op: op, X: lhs, Y: rhs}
	}
}

func (p *parser) peekBinOp() (string, int, bool) {
	t := p.cur()
	var lit string
	switch {
	case t.kind == tokOp:
		lit = t.lit
	case t.kind == tokKeyword && (t.lit == "and" || t.lit == "or"):
		lit = t.lit
	default:
		return "", 0, false
	}
	prec, ok := binPrec[lit]
	return lit, prec, ok
}

func (p *parser) parseUnary() (Expr, error) {
	start := p.cur().span.Start
	if p.isOp("-") {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Span: Span{Start: start, End: p.cur().span.Start}, Op: "-", X: x}, nil
	}
	if p.isKeyword("not") {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Span: Span{Start: start, End: p.cur().span.Start}, Op: "not", X: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		start := x.exprSpan().Start
		switch {
		case p.isOp("("):
			p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			x = &CallExpr{Span: Span{Start: start, End: p.cur().span.Start}, Fn: x, Args: args}
		case p.isOp("["):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp("]"); err != nil {
				return nil, err
			}
			x = &IndexExpr{Span: Span{Start: start, End: p.cur().span.Start}, X: x, Index: idx}
		default:
			return x, nil
		}
	}
}

func (p *parser) parseArgs() ([]Arg, error) {
	var args []Arg
	for !p.isOp(")") {
		var a Arg
		if p.isOp("*") && p.peekOp(1, "*") {
			p.advance()
			p.advance()
			a.DStar = true
		} else if p.isOp("*") {
			p.advance()
			a.Star = true
		} else if p.cur().kind == tokIdent && p.peekOp(1, "=") {
			a.Name = p.advance().lit
			p.advance() // =
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		a.Value = v
		args = append(args, a)
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.cur()
	switch {
	case t.kind == tokInt:
		p.advance()
		return &IntLit{Span: t.span, Val: t.ival}, nil
	case t.kind == tokString:
		p.advance()
		return &StringLit{Span: t.span, Val: t.lit}, nil
	case t.kind == tokKeyword && t.lit == "True":
		p.advance()
		return &BoolLit{Span: t.span, Val: true}, nil
	case t.kind == tokKeyword && t.lit == "False":
		p.advance()
		return &BoolLit{Span: t.span, Val: false}, nil
	case t.kind == tokKeyword && t.lit == "None":
		p.advance()
		return &NoneLit{Span: t.span}, nil
	case t.kind == tokIdent:
		p.advance()
		return &Ident{Span: t.span, Name: t.lit}, nil
	case t.kind == tokOp && t.lit == "(":
		return p.parseParenOrTuple()
	case t.kind == tokOp && t.lit == "[":
		return p.parseList()
	case t.kind == tokOp && t.lit == "{":
		return p.parseDict()
	default:
		return nil, p.errorf("unexpected token %q", t.lit)
	}
}

func (p *parser) parseParenOrTuple() (Expr, error) {
	start := p.cur().span.Start
	p.advance() // (
	if p.isOp(")") {
		p.advance()
		return &TupleExpr{Span: Span{Start: start, End: p.cur().span.Start}}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.isOp(",") {
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return first, nil
	}
	elems := []Expr{first}
	for p.isOp(",") {
		p.advance()
		if p.isOp(")") {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &TupleExpr{Span: Span{Start: start, End: p.cur().span.Start}, Elems: elems}, nil
}

func (p *parser) parseList() (Expr, error) {
	start := p.cur().span.Start
	p.advance() // [
	var elems []Expr
	for !p.isOp("]") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOp("]"); err != nil {
		return nil, err
	}
	return &ListExpr{Span: Span{Start: start, End: p.cur().span.Start}, Elems: elems}, nil
}

func (p *parser) parseDict() (Expr, error) {
	start := p.cur().span.Start
	p.advance() // {
	var entries []DictEntry
	for !p.isOp("}") {
		k, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(":"); err != nil {
			return nil, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, DictEntry{Key: k, Value: v})
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOp("}"); err != nil {
		return nil, err
	}
	return &DictExpr{Span: Span{Start: start, End: p.cur().span.Start}, Entries: entries}, nil
}
