package cdecl

import (
	"strings"

	"github.com/npillmayer/cee"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter for the declaration language

// Token categories. Single-character literals use their rune value as
// token id, keywords and composite tokens use the constants below.
const (
	EOF int = iota + 256
	Ident
	Number
	FloatNumber
	StringLit
	KwVoid
	KwChar
	KwShort
	KwInt
	KwLong
	KwFloat
	KwDouble
	KwUnsigned
	KwStruct
	KwUnion
	KwEnum
	KwExtern
	KwStatic
	KwTypedef
	KwConst
	KwGoto
)

var keywords = map[string]int{
	"void": KwVoid, "char": KwChar, "short": KwShort, "int": KwInt,
	"long": KwLong, "float": KwFloat, "double": KwDouble,
	"unsigned": KwUnsigned, "struct": KwStruct, "union": KwUnion,
	"enum": KwEnum, "extern": KwExtern, "static": KwStatic,
	"typedef": KwTypedef, "const": KwConst, "goto": KwGoto,
}

var literals = []string{";", ",", "*", "(", ")", "[", "]", "{", "}", ":", "="}

// Token is one lexical unit of the declaration language. It implements
// the cee.Token interface.
type Token struct {
	id     int
	lexeme string
	span   cee.Span
}

var _ cee.Token = Token{}

// TokType is part of the cee.Token interface.
func (t Token) TokType() cee.TokType {
	return cee.TokType(t.id)
}

// Lexeme is part of the cee.Token interface.
func (t Token) Lexeme() string {
	return t.lexeme
}

// Value is part of the cee.Token interface.
func (t Token) Value() interface{} {
	return t.id
}

// Span is part of the cee.Token interface.
func (t Token) Span() cee.Span {
	return t.span
}

func (t Token) String() string {
	if t.id == EOF {
		return "<eof>"
	}
	return t.lexeme
}

// skip is a pre-defined action which ignores the scanned match.
func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// makeToken is a pre-defined action which wraps a scanned match into a token.
func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// newLexer compiles the DFA for the declaration language. Keywords are
// added before the identifier pattern so that they win ties.
func newLexer() (*lexmachine.Lexer, error) {
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
	lexer.Add([]byte(`//[^\n]*`), skip)
	for kw, id := range keywords {
		lexer.Add([]byte(kw), makeToken(id))
	}
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		lexer.Add([]byte(r), makeToken(int(lit[0])))
	}
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), makeToken(Ident))
	lexer.Add([]byte(`[0-9]+\.[0-9]+`), makeToken(FloatNumber))
	lexer.Add([]byte(`[0-9]+`), makeToken(Number))
	lexer.Add([]byte(`"[^"]*"`), makeToken(StringLit))
	if err := lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return lexer, nil
}

// Tokenize scans an input string into a token slice, ending with an EOF
// token. Unconsumable input is skipped with an error trace.
func Tokenize(input string) ([]Token, error) {
	lexer, err := newLexer()
	if err != nil {
		return nil, err
	}
	s, err := lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	var tokens []Token
	tok, err, eof := s.Next()
	for !eof {
		for err != nil {
			tracer().Errorf("scanner error: %v", err)
			if ui, is := err.(*machines.UnconsumedInput); is {
				s.TC = ui.FailTC + 1
			} else {
				return tokens, err
			}
			tok, err, eof = s.Next()
			if eof {
				break
			}
		}
		if eof {
			break
		}
		t := tok.(*lexmachine.Token)
		tokens = append(tokens, Token{
			id:     t.Type,
			lexeme: string(t.Lexeme),
			span:   cee.Span{uint64(t.StartColumn), uint64(t.EndColumn) + 1}, // EndColumn is the last column
		})
		tok, err, eof = s.Next()
	}
	tokens = append(tokens, Token{id: EOF})
	return tokens, nil
}
