package lexer

import "strings"

// Kind identifies the type of a token.
type Kind int

const (
	// Word is a command name, argument or redirection target.
	Word Kind = iota
	// Pipe is "|".
	Pipe
	// And is "&&".
	And
	// Or is "||".
	Or
	// Semi is ";".
	Semi
	// Background is "&".
	Background
	// RedirIn is "<".
	RedirIn
	// RedirOut is ">".
	RedirOut
	// RedirAppend is ">>".
	RedirAppend
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Pipe:
		return "|"
	case And:
		return "&&"
	case Or:
		return "||"
	case Semi:
		return ";"
	case Background:
		return "&"
	case RedirIn:
		return "<"
	case RedirOut:
		return ">"
	case RedirAppend:
		return ">>"
	default:
		return "invalid"
	}
}

// Quoting records how a word segment was quoted in the input. The parser and
// executor use it to decide whether variable and glob expansion apply.
type Quoting int

const (
	Unquoted Quoting = iota
	SingleQuoted
	DoubleQuoted
)

func (q Quoting) String() string {
	switch q {
	case Unquoted:
		return "unquoted"
	case SingleQuoted:
		return "single"
	case DoubleQuoted:
		return "double"
	default:
		return "invalid"
	}
}

// Segment is a run of characters within a word that shares one quoting mode.
// "a'b'c" lexes as one word with three segments.
type Segment struct {
	Text    string
	Quoting Quoting
}

// Token is a single lexed token. Operator tokens have no segments.
type Token struct {
	Kind Kind
	// Segments holds the word content, Word tokens only.
	Segments []Segment
	// FD is the file descriptor a redirection operator applies to
	// (0 for "<", 1 for ">" and ">>", or an explicit prefix like "2>").
	FD int
	// Pos is the byte offset of the token in the input line.
	Pos int
}

// Text returns the word content with quote markers removed.
func (t Token) Text() string {
	var sb strings.Builder
	for _, seg := range t.Segments {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// FullyQuoted reports whether no part of the word was unquoted.
func (t Token) FullyQuoted() bool {
	for _, seg := range t.Segments {
		if seg.Quoting == Unquoted {
			return false
		}
	}
	return len(t.Segments) > 0
}
