package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"mdnav-hq/mdnav/pkg/tql/ast"
	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
)

// TokenKind identifies a lexical token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokDot
	TokIdent
	TokNumber
	TokString
	TokPipe
	TokComma
	TokColon
	TokSemicolon
	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokLBrace
	TokRBrace
	TokGt
	TokGtGt
	TokGe
	TokLt
	TokLe
	TokEq
	TokNe
	TokBang
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokAlt
	TokPercent
	TokTilde
	TokAnd
	TokOr
)

var tokenNames = map[TokenKind]string{
	TokEOF:       "end of query",
	TokDot:       "'.'",
	TokIdent:     "identifier",
	TokNumber:    "number",
	TokString:    "string",
	TokPipe:      "'|'",
	TokComma:     "','",
	TokColon:     "':'",
	TokSemicolon: "';'",
	TokLParen:    "'('",
	TokRParen:    "')'",
	TokLBracket:  "'['",
	TokRBracket:  "']'",
	TokLBrace:    "'{'",
	TokRBrace:    "'}'",
	TokGt:        "'>'",
	TokGtGt:      "'>>'",
	TokGe:        "'>='",
	TokLt:        "'<'",
	TokLe:        "'<='",
	TokEq:        "'=='",
	TokNe:        "'!='",
	TokBang:      "'!'",
	TokPlus:      "'+'",
	TokMinus:     "'-'",
	TokStar:      "'*'",
	TokSlash:     "'/'",
	TokAlt:       "'//'",
	TokPercent:   "'%'",
	TokTilde:     "'~'",
	TokAnd:       "'&&'",
	TokOr:        "'||'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "token"
}

// Token is one lexical unit. Text is the unescaped value for strings and
// the source text otherwise.
type Token struct {
	Kind TokenKind
	Text string
	Num  float64
	Span ast.Span
}

// lexer produces tokens on demand so the parser can switch to raw scanning
// inside element brackets.
type lexer struct {
	src    string
	pos    int
	peeked *Token
}

type lexState struct {
	pos    int
	peeked *Token
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) save() lexState      { return lexState{pos: l.pos, peeked: l.peeked} }
func (l *lexer) restore(st lexState) { l.pos, l.peeked = st.pos, st.peeked }

// Peek returns the next token without consuming it.
func (l *lexer) Peek() (Token, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	tok, err := l.scan()
	if err != nil {
		return Token{}, err
	}
	l.peeked = &tok
	return tok, nil
}

// Next consumes and returns the next token.
func (l *lexer) Next() (Token, error) {
	tok, err := l.Peek()
	if err != nil {
		return Token{}, err
	}
	l.peeked = nil
	return tok, nil
}

var twoCharTokens = map[string]TokenKind{
	">>": TokGtGt,
	">=": TokGe,
	"<=": TokLe,
	"==": TokEq,
	"!=": TokNe,
	"//": TokAlt,
	"&&": TokAnd,
	"||": TokOr,
}

var oneCharTokens = map[byte]TokenKind{
	'.': TokDot,
	'|': TokPipe,
	',': TokComma,
	':': TokColon,
	';': TokSemicolon,
	'(': TokLParen,
	')': TokRParen,
	'[': TokLBracket,
	']': TokRBracket,
	'{': TokLBrace,
	'}': TokRBrace,
	'>': TokGt,
	'<': TokLt,
	'!': TokBang,
	'+': TokPlus,
	'-': TokMinus,
	'*': TokStar,
	'/': TokSlash,
	'%': TokPercent,
	'~': TokTilde,
}

func (l *lexer) scan() (Token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return Token{Kind: TokEOF, Span: ast.Span{Start: start, End: start}}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == '"' || c == '\'':
		text, err := l.scanString(c)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokString, Text: text, Span: ast.Span{Start: start, End: l.pos}}, nil
	case isDigit(c):
		return l.scanNumber()
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
			l.pos++
		}
		return Token{Kind: TokIdent, Text: l.src[start:l.pos], Span: ast.Span{Start: start, End: l.pos}}, nil
	}

	if l.pos+1 < len(l.src) {
		if kind, ok := twoCharTokens[l.src[l.pos:l.pos+2]]; ok {
			l.pos += 2
			return Token{Kind: kind, Text: l.src[start:l.pos], Span: ast.Span{Start: start, End: l.pos}}, nil
		}
	}
	if kind, ok := oneCharTokens[c]; ok {
		l.pos++
		return Token{Kind: kind, Text: l.src[start:l.pos], Span: ast.Span{Start: start, End: l.pos}}, nil
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	span := ast.Span{Start: start, End: start + size}
	if r == '=' {
		return Token{}, tqlerrors.Parse(span, "unexpected '=', use '==' for equality")
	}
	return Token{}, tqlerrors.Parse(span, "unexpected character %q", r)
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '#' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		l.pos++
	}
}

func (l *lexer) scanNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		j := l.pos + 1
		if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
			j++
		}
		if j < len(l.src) && isDigit(l.src[j]) {
			l.pos = j
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
	}
	text := l.src[start:l.pos]
	span := ast.Span{Start: start, End: l.pos}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, tqlerrors.Parse(span, "invalid number %q", text)
	}
	return Token{Kind: TokNumber, Text: text, Num: n, Span: span}, nil
}

// scanString consumes a quoted string starting at l.pos and returns its
// unescaped contents.
func (l *lexer) scanString(quote byte) (string, error) {
	start := l.pos
	text, end, err := unquote(l.src, start, quote)
	if err != nil {
		return "", err
	}
	l.pos = end
	return text, nil
}

// unquote reads a string literal whose opening quote is at src[start]. It
// returns the unescaped text and the offset just past the closing quote.
func unquote(src string, start int, quote byte) (string, int, error) {
	var sb strings.Builder
	i := start + 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == quote:
			return sb.String(), i + 1, nil
		case c == '\\' && i+1 < len(src):
			i++
			switch esc := src[i]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'u':
				if i+4 < len(src) {
					if r, err := strconv.ParseUint(src[i+1:i+5], 16, 32); err == nil {
						sb.WriteRune(rune(r))
						i += 4
						break
					}
				}
				sb.WriteString(`\u`)
			default:
				sb.WriteByte(esc)
			}
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return "", len(src), tqlerrors.Parse(ast.Span{Start: start, End: len(src)}, "unterminated string")
}

// scanBracket reads the raw text of an element bracket. The opening '[' has
// already been consumed; the closing ']' is consumed but not returned. A
// leading quoted string and nested brackets are skipped so "]" inside them
// does not close the bracket.
func (l *lexer) scanBracket(open ast.Span) (string, ast.Span, error) {
	if l.peeked != nil {
		l.pos = l.peeked.Span.Start
		l.peeked = nil
	}
	start := l.pos
	i := start
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	if i < len(l.src) && (l.src[i] == '"' || l.src[i] == '\'') {
		_, end, err := unquote(l.src, i, l.src[i])
		if err != nil {
			return "", ast.Span{}, err
		}
		i = end
	}

	depth := 0
	for ; i < len(l.src); i++ {
		switch l.src[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			if depth == 0 {
				l.pos = i + 1
				return l.src[start:i], ast.Span{Start: start, End: i}, nil
			}
			depth--
		}
	}
	return "", ast.Span{}, tqlerrors.Parse(ast.Span{Start: open.Start, End: len(l.src)}, "unterminated bracket, expected ']'")
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
