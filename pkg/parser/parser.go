// Package parser implements Pratt-style precedence-climbing over the
// token stream from pkg/scanner, producing a pkg/ast Program. Its
// structural shape (next_token/peek_token/next_infix_token, a single
// expr(min_precedence) entry recursing on "peeked infix precedence
// exceeds current level") and its exact precedence table are both
// grounded on original_source/src/parser/parser.rs and
// original_source/src/parser/precedence.rs — the full statement/
// expression surface (Conditional, Loop, Call, Tuple, Func, FormatString)
// is this package's own addition, generalizing that draft parser to
// spec.md §4.2's complete grammar.
package parser

import (
	"math/big"
	"strconv"

	"github.com/sirupsen/logrus"

	"ember/pkg/ast"
	"ember/pkg/scanner"
	"ember/pkg/token"
)

// Parser consumes a fully-tokenized input (the scanner's output is
// bounded and deterministic, so pre-tokenizing avoids threading scanner
// errors through every lookahead call) and builds a Program.
type Parser struct {
	toks      []token.Token
	pos       int
	loopDepth int
	log       *logrus.Entry
}

// New tokenizes src (via pkg/scanner) and returns a Parser ready to
// produce a Program, or the first scan error encountered.
func New(src string) (*Parser, error) {
	sc := scanner.New(src)
	toks, err := sc.Tokenize()
	if err != nil {
		loc := token.Unknown
		if se, ok := err.(*scanner.Err); ok {
			loc = se.Loc
		}
		return nil, wrapScanErr(err, loc)
	}
	return NewFromTokens(toks), nil
}

// NewFromTokens builds a Parser directly over a pre-scanned token slice
// (used for format-string embedded-expression segments, whose tokens are
// already produced by the scanner's sub-scan — SPEC_FULL.md §3).
func NewFromTokens(toks []token.Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EndOfInput {
		toks = append(toks, token.Token{Kind: token.EndOfInput})
	}
	return &Parser{toks: toks, log: logrus.WithField("component", "parser")}
}

// ParseProgram parses the entire token stream as a module.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	stmts, err := p.parseStatementList(token.EndOfInput)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Statements: stmts}, nil
}

// --- cursor helpers ---------------------------------------------------

func (p *Parser) cur() token.Token {
	return p.at(p.pos)
}

func (p *Parser) at(idx int) token.Token {
	if idx < 0 || idx >= len(p.toks) {
		return token.Token{Kind: token.EndOfInput}
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// --- precedence table (original_source/src/parser/precedence.rs) -----

func unaryPrec(k token.Kind) int {
	switch k {
	case token.Plus, token.Minus:
		return 9
	case token.Bang, token.BangBang:
		return 9
	default:
		return 0
	}
}

func binaryPrec(k token.Kind) int {
	switch k {
	case token.Equal, token.PlusEqual, token.MinusEqual:
		return 1
	case token.Or:
		return 3
	case token.And:
		return 4
	case token.EqualEqualEqual, token.EqualEqual, token.NotEqual,
		token.LessThan, token.LessThanOrEqual, token.GreaterThan, token.GreaterThanOrEqual:
		return 5
	case token.Plus, token.Minus:
		return 6
	case token.Star, token.Slash, token.DoubleSlash, token.Percent:
		return 7
	case token.Caret:
		return 8
	case token.Dot:
		return 10
	default:
		return 0
	}
}

func isRightAssoc(k token.Kind) bool {
	return k == token.Caret || k == token.Equal
}

func opString(k token.Kind) string {
	switch k {
	case token.Equal:
		return "="
	case token.PlusEqual:
		return "+="
	case token.MinusEqual:
		return "-="
	case token.Or:
		return "||"
	case token.And:
		return "&&"
	case token.EqualEqualEqual:
		return "==="
	case token.EqualEqual:
		return "=="
	case token.NotEqual:
		return "!="
	case token.LessThan:
		return "<"
	case token.LessThanOrEqual:
		return "<="
	case token.GreaterThan:
		return ">"
	case token.GreaterThanOrEqual:
		return ">="
	case token.Plus:
		return "+"
	case token.Minus:
		return "-"
	case token.Star:
		return "*"
	case token.Slash:
		return "/"
	case token.DoubleSlash:
		return "//"
	case token.Percent:
		return "%"
	case token.Caret:
		return "^"
	case token.Dot:
		return "."
	case token.Bang:
		return "!"
	case token.BangBang:
		return "!!"
	default:
		return k.String()
	}
}

func isExprStart(k token.Kind) bool {
	switch k {
	case token.Int, token.Float, token.Str, token.FormatStr, token.True, token.False, token.KwNil,
		token.Ident, token.TypeIdent, token.SpecialIdent, token.LParen,
		token.Plus, token.Minus, token.Bang, token.BangBang,
		token.Block, token.If, token.Loop, token.Print:
		return true
	default:
		return false
	}
}

// --- statements ---------------------------------------------------------

func (p *Parser) parseStatementList(end token.Kind) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		if p.cur().Kind == end {
			break
		}
		if p.cur().Kind == token.EndOfStatement {
			p.advance()
			continue
		}
		if p.cur().Kind == token.EndOfInput {
			break
		}
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return stmts, nil
}

func (p *Parser) statement() (ast.Statement, error) {
	cur := p.cur()
	switch cur.Kind {
	case token.Jump:
		p.advance()
		if p.cur().Kind != token.Ident {
			return ast.Statement{}, newErr(ExpectedIdent, p.cur().Start, "expected identifier after 'jump'")
		}
		name := p.advance().Value
		return ast.NewJump(name, cur.Start), nil
	case token.Label:
		name := cur.Value
		p.advance()
		e, err := p.expr(0)
		if err != nil {
			return ast.Statement{}, err
		}
		return ast.NewLabel(name, &e, cur.Start), nil
	case token.Break:
		p.advance()
		if p.loopDepth == 0 {
			return ast.Statement{}, newErr(UnexpectedBreak, cur.Start, "'break' outside of a loop")
		}
		var ePtr *ast.Expr
		if isExprStart(p.cur().Kind) {
			e, err := p.expr(0)
			if err != nil {
				return ast.Statement{}, err
			}
			ePtr = &e
		}
		return ast.NewBreak(ePtr, cur.Start), nil
	case token.Continue:
		p.advance()
		if p.loopDepth == 0 {
			return ast.Statement{}, newErr(UnexpectedContinue, cur.Start, "'continue' outside of a loop")
		}
		return ast.NewContinue(cur.Start), nil
	default:
		e, err := p.expr(0)
		if err != nil {
			return ast.Statement{}, err
		}
		return ast.NewExprStatement(e), nil
	}
}

// --- expressions: Pratt precedence climbing ----------------------------

func (p *Parser) expr(minPrec int) (ast.Expr, error) {
	left, err := p.prefix()
	if err != nil {
		return ast.Expr{}, err
	}
	left, err = p.postfix(left)
	if err != nil {
		return ast.Expr{}, err
	}
	for {
		cur := p.cur()
		prec := binaryPrec(cur.Kind)
		if prec == 0 || prec <= minPrec {
			break
		}
		p.advance()
		nextMin := prec
		if isRightAssoc(cur.Kind) {
			nextMin = prec - 1
		}
		right, err := p.expr(nextMin)
		if err != nil {
			return ast.Expr{}, err
		}
		left = ast.NewBinaryOp(left, opString(cur.Kind), right)
	}
	return left, nil
}

func (p *Parser) prefix() (ast.Expr, error) {
	cur := p.cur()
	switch cur.Kind {
	case token.Int:
		p.advance()
		radix := cur.Radix
		if radix == 0 {
			radix = 10
		}
		v := new(big.Int)
		digits := cur.Value
		if digits == "" {
			digits = "0"
		}
		if _, ok := v.SetString(digits, radix); !ok {
			return ast.Expr{}, newErr(SyntaxErr, cur.Start, "invalid integer literal %q", cur.Value)
		}
		return ast.NewLiteral(ast.NewIntLiteral(v), cur.Start, cur.End), nil
	case token.Float:
		p.advance()
		f, err := strconv.ParseFloat(cur.Value, 64)
		if err != nil {
			return ast.Expr{}, newErr(SyntaxErr, cur.Start, "invalid float literal %q", cur.Value)
		}
		return ast.NewLiteral(ast.NewFloatLiteral(f), cur.Start, cur.End), nil
	case token.Str:
		p.advance()
		return ast.NewLiteral(ast.NewStringLiteral(cur.Value), cur.Start, cur.End), nil
	case token.FormatStr:
		p.advance()
		return p.parseFormatString(cur)
	case token.True:
		p.advance()
		return ast.NewLiteral(ast.NewBoolLiteral(true), cur.Start, cur.End), nil
	case token.False:
		p.advance()
		return ast.NewLiteral(ast.NewBoolLiteral(false), cur.Start, cur.End), nil
	case token.KwNil:
		p.advance()
		return ast.NewLiteral(ast.NewNilLiteral(), cur.Start, cur.End), nil
	case token.TypeIdent:
		p.advance()
		return ast.NewIdent(ast.NewTypeIdentNode(cur.Value), cur.Start, cur.End), nil
	case token.SpecialIdent:
		p.advance()
		return ast.NewIdent(ast.NewIdentNode(cur.Value), cur.Start, cur.End), nil
	case token.Ident:
		if params, arrowIdx, ok := p.lookaheadFuncParams(p.pos + 1); ok {
			name := cur.Value
			p.pos = arrowIdx
			p.advance() // consume FuncStart
			blk, err := p.blockBody()
			if err != nil {
				return ast.Expr{}, err
			}
			return ast.NewFunc(name, params, blk, cur.Start), nil
		}
		p.advance()
		return ast.NewIdent(ast.NewIdentNode(cur.Value), cur.Start, cur.End), nil
	case token.LParen:
		if params, arrowIdx, ok := p.lookaheadFuncParams(p.pos); ok {
			startLoc := cur.Start
			p.pos = arrowIdx
			p.advance() // consume FuncStart
			blk, err := p.blockBody()
			if err != nil {
				return ast.Expr{}, err
			}
			return ast.NewFunc("", params, blk, startLoc), nil
		}
		return p.parseParenOrTuple()
	case token.Block:
		p.advance()
		if p.cur().Kind != token.FuncStart {
			return ast.Expr{}, newErr(ExpectedToken, p.cur().Start, "expected '->' after 'block'")
		}
		p.advance()
		blk, err := p.blockBody()
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.NewBlock(blk, cur.Start), nil
	case token.If:
		return p.parseConditional()
	case token.Loop:
		return p.parseLoop()
	case token.Print:
		return p.parsePrint()
	case token.Plus, token.Minus, token.Bang, token.BangBang:
		prec := unaryPrec(cur.Kind)
		p.advance()
		operand, err := p.expr(prec)
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.NewUnaryOp(opString(cur.Kind), operand, cur.Start), nil
	case token.EndOfStatement, token.EndOfInput:
		return ast.Expr{}, newErr(ExpectedExpr, cur.Start, "expected an expression")
	default:
		return ast.Expr{}, newErr(UnexpectedToken, cur.Start, "unexpected token %s", cur.Kind)
	}
}

// postfix applies the tightest-binding operations: call (...) and index
// [...] (spec.md §4.2: "Postfix ( … ) is a call; postfix [ … ] is an
// index"). Index lowers to the same BinaryOp(Dot) shape the compiler
// already handles for `.` with a non-identifier RHS (spec.md §4.3).
func (p *Parser) postfix(left ast.Expr) (ast.Expr, error) {
	for {
		switch p.cur().Kind {
		case token.LParen:
			p.advance()
			var args []ast.Expr
			if p.cur().Kind != token.RParen {
				for {
					e, err := p.expr(0)
					if err != nil {
						return ast.Expr{}, err
					}
					args = append(args, e)
					if p.cur().Kind == token.Comma {
						p.advance()
						continue
					}
					break
				}
			}
			if p.cur().Kind != token.RParen {
				return ast.Expr{}, newErr(UnclosedExpr, p.cur().Start, "expected ')'")
			}
			end := p.advance().End
			left = ast.NewCall(left, args, end)
		case token.LBracket:
			p.advance()
			idx, err := p.expr(0)
			if err != nil {
				return ast.Expr{}, err
			}
			if p.cur().Kind != token.RBracket {
				return ast.Expr{}, newErr(UnclosedExpr, p.cur().Start, "expected ']'")
			}
			end := p.advance().End
			bin := ast.NewBinaryOp(left, ".", idx)
			bin.End = end
			left = bin
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseParenOrTuple() (ast.Expr, error) {
	start := p.cur().Start
	p.advance() // consume '('
	if p.cur().Kind == token.RParen {
		end := p.advance().End
		return ast.NewTuple(nil, start, end), nil
	}
	first, err := p.expr(0)
	if err != nil {
		return ast.Expr{}, err
	}
	if p.cur().Kind == token.Comma {
		items := []ast.Expr{first}
		for p.cur().Kind == token.Comma {
			p.advance()
			if p.cur().Kind == token.RParen {
				break
			}
			e, err := p.expr(0)
			if err != nil {
				return ast.Expr{}, err
			}
			items = append(items, e)
		}
		if p.cur().Kind != token.RParen {
			return ast.Expr{}, newErr(UnclosedExpr, p.cur().Start, "expected ')'")
		}
		end := p.advance().End
		return ast.NewTuple(items, start, end), nil
	}
	if p.cur().Kind != token.RParen {
		return ast.Expr{}, newErr(UnclosedExpr, p.cur().Start, "expected ')'")
	}
	p.advance()
	return first, nil
}

// lookaheadFuncParams speculatively scans starting at idx (which must be
// a '(') for a simple comma-separated identifier list immediately
// followed by '->'. It never mutates p.pos; callers commit by setting
// p.pos to the returned index only when ok is true. This is how the
// parser disambiguates a function literal header from a call or a
// parenthesized/tuple expression (spec.md §4.2).
func (p *Parser) lookaheadFuncParams(idx int) (ast.Params, int, bool) {
	if p.at(idx).Kind != token.LParen {
		return nil, 0, false
	}
	i := idx + 1
	var names []string
	if p.at(i).Kind == token.RParen {
		i++
	} else {
		for {
			if p.at(i).Kind != token.Ident {
				return nil, 0, false
			}
			names = append(names, p.at(i).Value)
			i++
			if p.at(i).Kind == token.Comma {
				i++
				continue
			}
			if p.at(i).Kind == token.RParen {
				i++
				break
			}
			return nil, 0, false
		}
	}
	if p.at(i).Kind != token.FuncStart {
		return nil, 0, false
	}
	return ast.Params(names), i, true
}

func (p *Parser) blockBody() (ast.Block, error) {
	if p.cur().Kind == token.FuncStart {
		p.advance() // '->' of an if/else/loop header
	}
	start := p.cur().Start
	switch p.cur().Kind {
	case token.ScopeStart:
		p.advance()
		stmts, err := p.parseStatementList(token.ScopeEnd)
		if err != nil {
			return ast.Block{}, err
		}
		if p.cur().Kind != token.ScopeEnd {
			return ast.Block{}, newErr(ExpectedBlock, p.cur().Start, "expected end of block")
		}
		end := p.advance().End
		return ast.Block{Statements: stmts, Start: start, End: end}, nil
	case token.InlineScopeStart:
		p.advance()
		stmts, err := p.parseStatementList(token.InlineScopeEnd)
		if err != nil {
			return ast.Block{}, err
		}
		if p.cur().Kind != token.InlineScopeEnd {
			return ast.Block{}, newErr(ExpectedBlock, p.cur().Start, "expected end of inline block")
		}
		end := p.advance().End
		return ast.Block{Statements: stmts, Start: start, End: end}, nil
	default:
		return ast.Block{}, newErr(ExpectedBlock, start, "expected a block after '->'")
	}
}

func (p *Parser) parseConditional() (ast.Expr, error) {
	start := p.cur().Start
	p.advance() // consume 'if'
	cond, err := p.expr(0)
	if err != nil {
		return ast.Expr{}, err
	}
	blk, err := p.blockBody()
	if err != nil {
		return ast.Expr{}, err
	}
	branches := []ast.CondBranch{{Cond: cond, Block: blk}}
	for {
		if p.cur().Kind == token.EndOfStatement && p.at(p.pos+1).Kind == token.Else {
			p.advance() // the EndOfStatement a dedent emits before 'else'
		}
		if p.cur().Kind != token.Else {
			break
		}
		p.advance()
		if p.cur().Kind == token.If {
			p.advance()
			c2, err := p.expr(0)
			if err != nil {
				return ast.Expr{}, err
			}
			b2, err := p.blockBody()
			if err != nil {
				return ast.Expr{}, err
			}
			branches = append(branches, ast.CondBranch{Cond: c2, Block: b2})
			continue
		}
		def, err := p.blockBody()
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.NewConditional(branches, &def, start), nil
	}
	return ast.NewConditional(branches, nil, start), nil
}

func (p *Parser) parseLoop() (ast.Expr, error) {
	start := p.cur().Start
	p.advance() // consume 'loop'
	cond, err := p.expr(0)
	if err != nil {
		return ast.Expr{}, err
	}
	p.loopDepth++
	blk, err := p.blockBody()
	p.loopDepth--
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.NewLoop(cond, blk, start), nil
}

func (p *Parser) parsePrint() (ast.Expr, error) {
	start := p.cur().Start
	p.advance() // consume 'print'
	if p.cur().Kind == token.LParen {
		p.advance()
		var args []ast.Expr
		if p.cur().Kind != token.RParen {
			for {
				e, err := p.expr(0)
				if err != nil {
					return ast.Expr{}, err
				}
				args = append(args, e)
				if p.cur().Kind == token.Comma {
					p.advance()
					continue
				}
				break
			}
		}
		if p.cur().Kind != token.RParen {
			return ast.Expr{}, newErr(UnclosedExpr, p.cur().Start, "expected ')'")
		}
		end := p.advance().End
		return ast.NewPrint(args, start, end), nil
	}
	if isExprStart(p.cur().Kind) {
		e, err := p.expr(0)
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.NewPrint([]ast.Expr{e}, start, e.End), nil
	}
	return ast.NewPrint(nil, start, start), nil
}

// parseFormatString rebuilds a FormatString expression from the
// scanner's flat segment list (SPEC_FULL.md §3): Str-kind segments are
// literal pieces, everything up to the next EndOfStatement boundary is
// one embedded expression's token run, parsed with a fresh sub-Parser.
func (p *Parser) parseFormatString(tok token.Token) (ast.Expr, error) {
	var parts []ast.Expr
	toks := tok.FormatStrTokens
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Kind == token.Str {
			parts = append(parts, ast.NewLiteral(ast.NewStringLiteral(t.Value), t.Start, t.Start))
			i++
			continue
		}
		j := i
		for j < len(toks) && toks[j].Kind != token.EndOfStatement {
			j++
		}
		sub := NewFromTokens(append([]token.Token{}, toks[i:j]...))
		e, err := sub.expr(0)
		if err != nil {
			return ast.Expr{}, err
		}
		parts = append(parts, e)
		i = j + 1
	}
	return ast.NewFormatString(parts, tok.Start, tok.End), nil
}
