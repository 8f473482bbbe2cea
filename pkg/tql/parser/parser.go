package parser

import (
	"regexp"
	"strconv"
	"strings"

	"mdnav-hq/mdnav/pkg/tql/ast"
	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
	"mdnav-hq/mdnav/pkg/tql/value"
)

// LinkTypes are the link type tags a bare bracket word on a link selector
// is interpreted as.
var LinkTypes = map[string]bool{
	"anchor":   true,
	"relative": true,
	"wikilink": true,
	"external": true,
	"email":    true,
}

var (
	indexPattern = regexp.MustCompile(`^-?\d+$`)
	slicePattern = regexp.MustCompile(`^(-?\d+)?\s*:\s*(-?\d+)?$`)
)

// Parser is a recursive-descent parser over an on-demand lexer.
type Parser struct {
	src     string
	lex     *lexer
	prevEnd int
}

// Parse parses a query string into a syntax tree.
func Parse(query string) (*ast.Query, error) {
	p := &Parser{src: query, lex: newLexer(query)}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	return q, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static queries.
func MustParse(query string) *ast.Query {
	q, err := Parse(query)
	if err != nil {
		panic(err)
	}
	return q
}

func (p *Parser) peek() (Token, error) {
	return p.lex.Peek()
}

func (p *Parser) next() (Token, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return Token{}, err
	}
	p.prevEnd = tok.Span.End
	return tok, nil
}

// adjacent reports whether tok starts right where the previous token ended.
func (p *Parser) adjacent(tok Token) bool {
	return tok.Span.Start == p.prevEnd
}

func (p *Parser) expect(kind TokenKind, context string) (Token, error) {
	tok, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != kind {
		return Token{}, tqlerrors.Parse(tok.Span, "%s: expected %s, found %s", context, kind, describe(tok))
	}
	return tok, nil
}

func describe(tok Token) string {
	switch tok.Kind {
	case TokEOF:
		return "end of query"
	case TokIdent:
		return strconv.Quote(tok.Text)
	case TokString:
		return "string " + strconv.Quote(tok.Text)
	case TokNumber:
		return "number " + tok.Text
	default:
		return tok.Kind.String()
	}
}

func (p *Parser) parseQuery() (*ast.Query, error) {
	q := &ast.Query{Source: p.src}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokEOF {
			break
		}
		if tok.Kind == TokComma {
			return nil, tqlerrors.Parse(tok.Span, "unexpected ','")
		}

		expr, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		q.Expressions = append(q.Expressions, toPiped(expr))

		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case TokComma:
			if _, err := p.next(); err != nil {
				return nil, err
			}
			after, err := p.peek()
			if err != nil {
				return nil, err
			}
			if after.Kind == TokEOF {
				return nil, tqlerrors.Parse(tok.Span, "expected expression after ','")
			}
		case TokRParen:
			return nil, tqlerrors.Parse(tok.Span, "unbalanced parentheses: unexpected ')'")
		case TokRBracket:
			return nil, tqlerrors.Parse(tok.Span, "unbalanced brackets: unexpected ']'")
		case TokRBrace:
			return nil, tqlerrors.Parse(tok.Span, "unbalanced braces: unexpected '}'")
		}
	}
	if len(q.Expressions) == 0 {
		return nil, tqlerrors.Parse(ast.Span{Start: 0, End: len(p.src)}, "empty query")
	}
	return q, nil
}

func toPiped(e ast.Expr) *ast.PipedExpr {
	if pe, ok := e.(*ast.PipedExpr); ok {
		return pe
	}
	return &ast.PipedExpr{Pos: e.Span(), Stages: []ast.Expr{e}}
}

// parsePipe parses "a | b | c". A single stage is returned unwrapped.
func (p *Parser) parsePipe() (ast.Expr, error) {
	first, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	stages := []ast.Expr{first}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokPipe {
			break
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
		stage, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	if len(stages) == 1 {
		return first, nil
	}
	return &ast.PipedExpr{Pos: first.Span().Join(stages[len(stages)-1].Span()), Stages: stages}, nil
}

// binaryLevel parses one left-associative precedence level.
func (p *Parser) binaryLevel(operand func() (ast.Expr, error), ops func(Token) (ast.BinaryOp, bool)) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		op, ok := ops(tok)
		if !ok {
			return left, nil
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Pos: left.Span().Join(right.Span()), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAlt() (ast.Expr, error) {
	return p.binaryLevel(p.parseOr, func(t Token) (ast.BinaryOp, bool) {
		return ast.OpAlt, t.Kind == TokAlt
	})
}

func (p *Parser) parseOr() (ast.Expr, error) {
	return p.binaryLevel(p.parseAnd, func(t Token) (ast.BinaryOp, bool) {
		return ast.OpOr, t.Kind == TokOr || (t.Kind == TokIdent && t.Text == "or")
	})
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	return p.binaryLevel(p.parseComparison, func(t Token) (ast.BinaryOp, bool) {
		return ast.OpAnd, t.Kind == TokAnd || (t.Kind == TokIdent && t.Text == "and")
	})
}

var comparisonOps = map[TokenKind]ast.BinaryOp{
	TokEq: ast.OpEq,
	TokNe: ast.OpNe,
	TokLt: ast.OpLt,
	TokLe: ast.OpLe,
	TokGt: ast.OpGt,
	TokGe: ast.OpGe,
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	return p.binaryLevel(p.parseAdditive, func(t Token) (ast.BinaryOp, bool) {
		op, ok := comparisonOps[t.Kind]
		return op, ok
	})
}

var additiveOps = map[TokenKind]ast.BinaryOp{
	TokPlus:  ast.OpAdd,
	TokMinus: ast.OpSub,
	TokTilde: ast.OpConcat,
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.binaryLevel(p.parseMultiplicative, func(t Token) (ast.BinaryOp, bool) {
		op, ok := additiveOps[t.Kind]
		return op, ok
	})
}

var multiplicativeOps = map[TokenKind]ast.BinaryOp{
	TokStar:    ast.OpMul,
	TokSlash:   ast.OpDiv,
	TokPercent: ast.OpMod,
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.binaryLevel(p.parseUnary, func(t Token) (ast.BinaryOp, bool) {
		op, ok := multiplicativeOps[t.Kind]
		return op, ok
	})
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	var op ast.UnaryOp
	switch tok.Kind {
	case TokBang:
		op = ast.OpNot
	case TokMinus:
		op = ast.OpNeg
	default:
		return p.parsePostfix()
	}
	if _, err := p.next(); err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Pos: tok.Span.Join(operand.Span()), Op: op, Expr: operand}, nil
}

// parsePostfix parses a primary followed by adjacent index suffixes,
// adjacent property chains and hierarchy operators.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.Kind == TokLBracket && p.adjacent(tok):
			op, span, err := p.parseIndexSuffix()
			if err != nil {
				return nil, err
			}
			expr = &ast.Index{Pos: expr.Span().Join(span), Target: expr, Op: op}

		case tok.Kind == TokDot && p.adjacent(tok) && canChain(expr):
			prop, ok, err := p.tryPropertyChain()
			if err != nil {
				return nil, err
			}
			if !ok {
				return expr, nil
			}
			expr = &ast.PipedExpr{Pos: expr.Span().Join(prop.Span()), Stages: []ast.Expr{expr, prop}}

		case tok.Kind == TokGtGt || tok.Kind == TokGt:
			if !canParent(expr) {
				return expr, nil
			}
			h, ok, err := p.tryHierarchy(expr, tok)
			if err != nil {
				return nil, err
			}
			if !ok {
				return expr, nil
			}
			expr = h

		default:
			return expr, nil
		}
	}
}

func canChain(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Property, *ast.Index, *ast.Function, *ast.Group, *ast.Element, *ast.Hierarchy:
		return true
	}
	return false
}

func canParent(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Element, *ast.Hierarchy, *ast.Group:
		return true
	}
	return false
}

// tryPropertyChain parses ".name" directly after a value, e.g. ".items.text".
func (p *Parser) tryPropertyChain() (*ast.Property, bool, error) {
	st, prevEnd := p.lex.save(), p.prevEnd
	dot, err := p.next()
	if err != nil {
		return nil, false, err
	}
	tok, err := p.peek()
	if err != nil {
		return nil, false, err
	}
	if tok.Kind != TokIdent || !p.adjacent(tok) {
		p.lex.restore(st)
		p.prevEnd = prevEnd
		return nil, false, nil
	}
	if _, err := p.next(); err != nil {
		return nil, false, err
	}
	return &ast.Property{Pos: dot.Span.Join(tok.Span), Name: tok.Text}, true, nil
}

// tryHierarchy parses "> .child" or ">> .child". A ">" not followed by an
// element selector is left for the comparison level.
func (p *Parser) tryHierarchy(parent ast.Expr, op Token) (ast.Expr, bool, error) {
	st, prevEnd := p.lex.save(), p.prevEnd
	if _, err := p.next(); err != nil {
		return nil, false, err
	}
	isElement, err := p.atElementSelector()
	if err != nil {
		return nil, false, err
	}
	if !isElement {
		if op.Kind == TokGtGt {
			tok, _ := p.peek()
			return nil, false, tqlerrors.Parse(tok.Span, "'>>' must be followed by an element selector")
		}
		p.lex.restore(st)
		p.prevEnd = prevEnd
		return nil, false, nil
	}
	child, err := p.parseElementSelector()
	if err != nil {
		return nil, false, err
	}
	return &ast.Hierarchy{
		Pos:    parent.Span().Join(child.Span()),
		Parent: parent,
		Child:  child,
		Direct: op.Kind == TokGt,
	}, true, nil
}

// atElementSelector reports whether the next tokens are "." followed by an
// element kind name. It consumes nothing.
func (p *Parser) atElementSelector() (bool, error) {
	st, prevEnd := p.lex.save(), p.prevEnd
	defer func() {
		p.lex.restore(st)
		p.prevEnd = prevEnd
	}()
	dot, err := p.next()
	if err != nil || dot.Kind != TokDot {
		return false, err
	}
	tok, err := p.peek()
	if err != nil {
		return false, err
	}
	if tok.Kind != TokIdent || !p.adjacent(tok) {
		return false, nil
	}
	_, ok, _ := ast.LookupElement(tok.Text)
	return ok, nil
}

func (p *Parser) parseElementSelector() (*ast.Element, error) {
	dot, err := p.expect(TokDot, "element selector")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(TokIdent, "element selector")
	if err != nil {
		return nil, err
	}
	kind, ok, lookupErr := ast.LookupElement(name.Text)
	if lookupErr != nil {
		return nil, tqlerrors.Parse(dot.Span.Join(name.Span), "%s", lookupErr.Error())
	}
	if !ok {
		return nil, tqlerrors.Parse(name.Span, "unknown element kind %q", name.Text)
	}
	return p.parseElementSuffixes(&ast.Element{Pos: dot.Span.Join(name.Span), Kind: kind, Name: name.Text})
}

// parseElementSuffixes reads adjacent [...] suffixes into filters and an index.
func (p *Parser) parseElementSuffixes(el *ast.Element) (*ast.Element, error) {
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokLBracket || !p.adjacent(tok) {
			return el, nil
		}
		open, err := p.next()
		if err != nil {
			return nil, err
		}
		raw, span, err := p.lex.scanBracket(open.Span)
		if err != nil {
			return nil, err
		}
		p.prevEnd = span.End + 1

		filter, index, err := classifyBracket(raw, span, el.Kind)
		if err != nil {
			return nil, err
		}
		if index != nil {
			if el.Index != nil {
				return nil, tqlerrors.Parse(open.Span.Join(span), "element selector accepts at most one index")
			}
			el.Index = index
		} else {
			el.Filters = append(el.Filters, filter)
		}
		el.Pos = el.Pos.Join(ast.Span{Start: open.Span.Start, End: span.End + 1})
	}
}

// parseIndexSuffix reads a bracket after a non-element value. Only indexes
// and slices are allowed there.
func (p *Parser) parseIndexSuffix() (ast.IndexOp, ast.Span, error) {
	open, err := p.next()
	if err != nil {
		return nil, ast.Span{}, err
	}
	raw, span, err := p.lex.scanBracket(open.Span)
	if err != nil {
		return nil, ast.Span{}, err
	}
	p.prevEnd = span.End + 1
	full := ast.Span{Start: open.Span.Start, End: span.End + 1}
	op, ok, err := parseIndexOp(strings.TrimSpace(raw), span)
	if err != nil {
		return nil, ast.Span{}, err
	}
	if !ok {
		return nil, ast.Span{}, tqlerrors.Parse(full, "invalid index %q: filters only apply to element selectors", raw)
	}
	return op, full, nil
}

// classifyBracket decides what a bracket suffix on an element selector means.
// Exactly one of filter and index is non-nil on success.
func classifyBracket(raw string, span ast.Span, kind ast.ElementKind) (ast.Filter, ast.IndexOp, error) {
	text := strings.TrimSpace(raw)

	op, ok, err := parseIndexOp(text, span)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		return nil, op, nil
	}

	switch q := text[0]; {
	case q == '"' || q == '\'':
		pattern, end, err := unquote(text, 0, q)
		if err != nil {
			return nil, nil, tqlerrors.Parse(span, "unterminated string")
		}
		if strings.TrimSpace(text[end:]) != "" {
			return nil, nil, tqlerrors.Parse(span, "malformed bracket: unexpected text after string")
		}
		return &ast.TextFilter{Pattern: pattern, Exact: true}, nil, nil

	case q == '/':
		pattern, err := parseRegexLiteral(text, span)
		if err != nil {
			return nil, nil, err
		}
		return &ast.RegexFilter{Pattern: pattern}, nil, nil
	}

	word := text
	lower := strings.ToLower(word)
	switch kind.Type {
	case ast.ElementCode:
		if !strings.ContainsAny(word, " \t") {
			return &ast.TypeFilter{Name: lower}, nil, nil
		}
	case ast.ElementLink:
		if LinkTypes[lower] {
			return &ast.TypeFilter{Name: lower}, nil, nil
		}
	}
	return &ast.TextFilter{Pattern: word, Exact: false}, nil, nil
}

// parseIndexOp recognizes "", "N" and "start:end" forms. ok is false when
// text is none of them.
func parseIndexOp(text string, span ast.Span) (ast.IndexOp, bool, error) {
	if text == "" {
		return &ast.IterateIndex{}, true, nil
	}
	if indexPattern.MatchString(text) {
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, false, tqlerrors.Parse(span, "index out of range: %s", text)
		}
		return &ast.SingleIndex{Index: n}, true, nil
	}
	if m := slicePattern.FindStringSubmatch(text); m != nil {
		slice := &ast.SliceIndex{}
		for i, bound := range []**int{&slice.Start, &slice.End} {
			if m[i+1] == "" {
				continue
			}
			n, err := strconv.Atoi(m[i+1])
			if err != nil {
				return nil, false, tqlerrors.Parse(span, "slice bound out of range: %s", m[i+1])
			}
			*bound = &n
		}
		return slice, true, nil
	}
	return nil, false, nil
}

// parseRegexLiteral unwraps "/pattern/" or "/pattern/i" and validates the
// pattern with the RE2 engine.
func parseRegexLiteral(text string, span ast.Span) (string, error) {
	end := -1
	for i := 1; i < len(text); i++ {
		if text[i] == '\\' {
			i++
			continue
		}
		if text[i] == '/' {
			end = i
			break
		}
	}
	if end < 0 {
		return "", tqlerrors.Parse(span, "unterminated regex")
	}
	pattern := strings.ReplaceAll(text[1:end], `\/`, "/")
	switch flags := strings.TrimSpace(text[end+1:]); flags {
	case "":
	case "i":
		pattern = "(?i)" + pattern
	default:
		return "", tqlerrors.Parse(span, "unknown regex flags %q", flags)
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return "", tqlerrors.InvalidRegex(pattern, err, span)
	}
	return pattern, nil
}

var keywords = map[string]bool{
	"and":  true,
	"or":   true,
	"then": true,
	"else": true,
	"elif": true,
	"end":  true,
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case TokDot:
		return p.parseDot()

	case TokNumber:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		return &ast.Literal{Pos: tok.Span, Value: value.Number(tok.Num)}, nil

	case TokString:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		return &ast.Literal{Pos: tok.Span, Value: value.String(tok.Text)}, nil

	case TokLParen:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		inner, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		closing, err := p.expect(TokRParen, "unbalanced parentheses")
		if err != nil {
			return nil, err
		}
		return &ast.Group{Pos: tok.Span.Join(closing.Span), Expr: inner}, nil

	case TokLBracket:
		return p.parseArray()

	case TokLBrace:
		return p.parseObject()

	case TokIdent:
		switch tok.Text {
		case "true", "false":
			if _, err := p.next(); err != nil {
				return nil, err
			}
			return &ast.Literal{Pos: tok.Span, Value: value.Bool(tok.Text == "true")}, nil
		case "null":
			if _, err := p.next(); err != nil {
				return nil, err
			}
			return &ast.Literal{Pos: tok.Span, Value: value.Null{}}, nil
		case "if":
			return p.parseConditional()
		}
		if keywords[tok.Text] {
			return nil, tqlerrors.Parse(tok.Span, "unexpected keyword %q", tok.Text)
		}
		return p.parseFunction()
	}

	return nil, tqlerrors.Parse(tok.Span, "unexpected %s", describe(tok))
}

// parseDot parses ".", ".name" (element or property) and ."quoted".
func (p *Parser) parseDot() (ast.Expr, error) {
	dot, err := p.next()
	if err != nil {
		return nil, err
	}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !p.adjacent(tok) {
		return &ast.Identity{Pos: dot.Span}, nil
	}

	switch tok.Kind {
	case TokIdent:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		span := dot.Span.Join(tok.Span)
		kind, ok, lookupErr := ast.LookupElement(tok.Text)
		if lookupErr != nil {
			return nil, tqlerrors.Parse(span, "%s", lookupErr.Error())
		}
		if ok {
			return p.parseElementSuffixes(&ast.Element{Pos: span, Kind: kind, Name: tok.Text})
		}
		return &ast.Property{Pos: span, Name: tok.Text}, nil
	case TokString:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		return &ast.Property{Pos: dot.Span.Join(tok.Span), Name: tok.Text}, nil
	}
	return &ast.Identity{Pos: dot.Span}, nil
}

func (p *Parser) parseFunction() (ast.Expr, error) {
	name, err := p.next()
	if err != nil {
		return nil, err
	}
	fn := &ast.Function{Pos: name.Span, Name: name.Text}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokLParen {
		return fn, nil
	}
	if _, err := p.next(); err != nil {
		return nil, err
	}

	tok, err = p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokRParen {
		for {
			arg, err := p.parsePipe()
			if err != nil {
				return nil, err
			}
			fn.Args = append(fn.Args, arg)

			sep, err := p.peek()
			if err != nil {
				return nil, err
			}
			if sep.Kind != TokComma && sep.Kind != TokSemicolon {
				break
			}
			if _, err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	closing, err := p.expect(TokRParen, "unbalanced parentheses in call to "+name.Text)
	if err != nil {
		return nil, err
	}
	fn.Pos = name.Span.Join(closing.Span)
	return fn, nil
}

func (p *Parser) parseArray() (ast.Expr, error) {
	open, err := p.next()
	if err != nil {
		return nil, err
	}
	arr := &ast.Array{Pos: open.Span}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokRBracket {
		for {
			el, err := p.parsePipe()
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, el)

			sep, err := p.peek()
			if err != nil {
				return nil, err
			}
			if sep.Kind != TokComma {
				break
			}
			if _, err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	closing, err := p.expect(TokRBracket, "unbalanced brackets")
	if err != nil {
		return nil, err
	}
	arr.Pos = open.Span.Join(closing.Span)
	return arr, nil
}

func (p *Parser) parseObject() (ast.Expr, error) {
	open, err := p.next()
	if err != nil {
		return nil, err
	}
	obj := &ast.Object{Pos: open.Span}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokRBrace {
		for {
			key, err := p.next()
			if err != nil {
				return nil, err
			}
			if key.Kind != TokIdent && key.Kind != TokString {
				return nil, tqlerrors.Parse(key.Span, "object key: expected identifier or string, found %s", describe(key))
			}

			sep, err := p.peek()
			if err != nil {
				return nil, err
			}
			var val ast.Expr
			if sep.Kind == TokColon {
				if _, err := p.next(); err != nil {
					return nil, err
				}
				if val, err = p.parseAlt(); err != nil {
					return nil, err
				}
			} else {
				val = &ast.Property{Pos: key.Span, Name: key.Text}
			}
			obj.Pairs = append(obj.Pairs, ast.ObjectPair{Key: key.Text, Value: val})

			sep, err = p.peek()
			if err != nil {
				return nil, err
			}
			if sep.Kind != TokComma {
				break
			}
			if _, err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	closing, err := p.expect(TokRBrace, "unbalanced braces")
	if err != nil {
		return nil, err
	}
	obj.Pos = open.Span.Join(closing.Span)
	return obj, nil
}

func (p *Parser) expectKeyword(word string) (Token, error) {
	tok, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != TokIdent || tok.Text != word {
		return Token{}, tqlerrors.Parse(tok.Span, "conditional: expected %q, found %s", word, describe(tok))
	}
	return tok, nil
}

// parseConditional parses "if c then a [elif c2 then b] [else d] [end]".
func (p *Parser) parseConditional() (ast.Expr, error) {
	start, err := p.next()
	if err != nil {
		return nil, err
	}
	cond, err := p.parsePipe()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	then, err := p.parsePipe()
	if err != nil {
		return nil, err
	}
	node := &ast.Conditional{Pos: start.Span.Join(then.Span()), Condition: cond, Then: then}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokIdent {
		switch tok.Text {
		case "elif":
			elif, err := p.parseConditional()
			if err != nil {
				return nil, err
			}
			node.Else = elif
			node.Pos = node.Pos.Join(elif.Span())
			return node, nil
		case "else":
			if _, err := p.next(); err != nil {
				return nil, err
			}
			if node.Else, err = p.parseAlt(); err != nil {
				return nil, err
			}
			node.Pos = node.Pos.Join(node.Else.Span())
		}
	}

	tok, err = p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokIdent && tok.Text == "end" {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		node.Pos = node.Pos.Join(tok.Span)
	}
	return node, nil
}
