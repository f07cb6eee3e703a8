// Package lexer turns a raw command line into a sequence of typed tokens.
//
// The lexer is stateless across lines: one line in, one token list out.
// Words keep per-segment quoting annotations so later expansion knows which
// parts of a word are eligible for variable and glob substitution.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// LexError reports malformed quoting or escaping in the input line.
type LexError struct {
	Pos int
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Pos)
}

// Tokenize splits line into tokens.
//
// Rules:
//   - unquoted whitespace separates words;
//   - inside single quotes no character is special;
//   - inside double quotes backslash escapes only `"`, `\` and `$`;
//   - outside quotes backslash makes the next character literal and is removed;
//   - the operators | || && ; & > >> < are recognized only when unquoted
//     and unescaped.
func Tokenize(line string) ([]Token, error) {
	var (
		tokens  []Token
		segs    []Segment
		inWord  bool
		wordPos int
	)

	appendSeg := func(text string, q Quoting, keepEmpty bool) {
		if text == "" && !keepEmpty {
			return
		}
		if n := len(segs); n > 0 && segs[n-1].Quoting == q {
			segs[n-1].Text += text
			return
		}
		segs = append(segs, Segment{Text: text, Quoting: q})
	}
	startWord := func(pos int) {
		if !inWord {
			inWord = true
			wordPos = pos
		}
	}
	endWord := func() {
		if !inWord {
			return
		}
		tokens = append(tokens, Token{Kind: Word, Segments: segs, Pos: wordPos})
		segs = nil
		inWord = false
	}
	// pendingFD consumes the current word as a descriptor number for a
	// redirection operator that immediately follows it, e.g. "2>err".
	pendingFD := func(def int) int {
		if inWord && len(segs) == 1 && segs[0].Quoting == Unquoted {
			if fd, err := strconv.Atoi(segs[0].Text); err == nil {
				segs = nil
				inWord = false
				return fd
			}
		}
		endWord()
		return def
	}

	n := len(line)
	for i := 0; i < n; {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			endWord()
			i++

		case c == '\'':
			startWord(i)
			rel := strings.IndexByte(line[i+1:], '\'')
			if rel < 0 {
				return nil, &LexError{Pos: i, Msg: "unterminated single quote"}
			}
			appendSeg(line[i+1:i+1+rel], SingleQuoted, true)
			i += rel + 2

		case c == '"':
			startWord(i)
			var sb strings.Builder
			emitted := false
			flush := func() {
				if sb.Len() > 0 {
					appendSeg(sb.String(), DoubleQuoted, true)
					emitted = true
					sb.Reset()
				}
			}
			j := i + 1
			closed := false
			for j < n {
				d := line[j]
				if d == '\\' && j+1 < n {
					switch next := line[j+1]; next {
					case '$':
						// The escaped sigil must never reach the expander,
						// so it goes into a non-expandable segment.
						flush()
						appendSeg("$", SingleQuoted, false)
						emitted = true
						j += 2
					case '"', '\\':
						sb.WriteByte(next)
						j += 2
					default:
						// Backslash stays literal before any other character.
						sb.WriteByte('\\')
						j++
					}
					continue
				}
				if d == '"' {
					closed = true
					j++
					break
				}
				sb.WriteByte(d)
				j++
			}
			if !closed {
				return nil, &LexError{Pos: i, Msg: "unterminated double quote"}
			}
			if sb.Len() > 0 || !emitted {
				appendSeg(sb.String(), DoubleQuoted, true)
			}
			i = j

		case c == '\\':
			if i+1 >= n {
				return nil, &LexError{Pos: i, Msg: "trailing backslash"}
			}
			startWord(i)
			// An escaped character never expands, mark it like a quoted one.
			appendSeg(string(line[i+1]), SingleQuoted, false)
			i += 2

		case c == '|':
			endWord()
			if i+1 < n && line[i+1] == '|' {
				tokens = append(tokens, Token{Kind: Or, Pos: i})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: Pipe, Pos: i})
				i++
			}

		case c == '&':
			endWord()
			if i+1 < n && line[i+1] == '&' {
				tokens = append(tokens, Token{Kind: And, Pos: i})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: Background, Pos: i})
				i++
			}

		case c == ';':
			endWord()
			tokens = append(tokens, Token{Kind: Semi, Pos: i})
			i++

		case c == '>':
			fd := pendingFD(1)
			if i+1 < n && line[i+1] == '>' {
				tokens = append(tokens, Token{Kind: RedirAppend, FD: fd, Pos: i})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: RedirOut, FD: fd, Pos: i})
				i++
			}

		case c == '<':
			fd := pendingFD(0)
			tokens = append(tokens, Token{Kind: RedirIn, FD: fd, Pos: i})
			i++

		default:
			startWord(i)
			j := i
			for j < n && !isSpecial(line[j]) {
				j++
			}
			appendSeg(line[i:j], Unquoted, false)
			i = j
		}
	}
	endWord()

	return tokens, nil
}

func isSpecial(c byte) bool {
	switch c {
	case ' ', '\t', '\'', '"', '\\', '|', '&', ';', '>', '<':
		return true
	}
	return false
}
