// Package parser builds a command graph from lexed tokens.
//
// Grammar, informally:
//
//	sequence : pipeline ((";" | "&&" | "||" | "&") pipeline)* [";" | "&"]
//	pipeline : command ("|" command)*
//	command  : (word | redirection)+
//
// Redirections attach to the command they textually follow. No expansion
// happens here; words keep their quoting annotations for the executor.
package parser

import (
	"fmt"

	"github.com/rush-shell/rush/core/lexer"
)

// ParseError reports a malformed operator sequence.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Pos)
}

// Parse consumes tokens and returns the command sequence they describe.
// An empty token list yields an empty sequence.
func Parse(tokens []lexer.Token) (*CommandSequence, error) {
	p := &parser{tokens: tokens}
	return p.parseSequence()
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

func (p *parser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (lexer.Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) parseSequence() (*CommandSequence, error) {
	seq := &CommandSequence{}
	sep := SepAlways

	for {
		tok, ok := p.peek()
		if !ok {
			break
		}

		switch tok.Kind {
		case lexer.Word, lexer.RedirIn, lexer.RedirOut, lexer.RedirAppend:
			pipeline, err := p.parsePipeline()
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, Item{Pipeline: pipeline, Sep: sep})

		default:
			return nil, &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected %q", tok.Kind)}
		}

		// Chain operator, or end of input.
		tok, ok = p.peek()
		if !ok {
			break
		}
		switch tok.Kind {
		case lexer.Semi:
			sep = SepAlways
		case lexer.And:
			sep = SepIfSuccess
		case lexer.Or:
			sep = SepIfFailure
		case lexer.Background:
			seq.Items[len(seq.Items)-1].Background = true
			sep = SepAlways
		default:
			return nil, &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected %q", tok.Kind)}
		}
		p.next()

		// Trailing ";" or "&" is fine; "&&" and "||" need a right side.
		if _, ok := p.peek(); !ok {
			if sep == SepIfSuccess || sep == SepIfFailure {
				return nil, &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("missing command after %q", tok.Kind)}
			}
			break
		}
	}

	return seq, nil
}

func (p *parser) parsePipeline() (*Pipeline, error) {
	pipeline := &Pipeline{}

	for {
		cmd, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		pipeline.Commands = append(pipeline.Commands, cmd)

		tok, ok := p.peek()
		if !ok || tok.Kind != lexer.Pipe {
			return pipeline, nil
		}
		p.next()

		if next, ok := p.peek(); !ok || next.Kind != lexer.Word &&
			next.Kind != lexer.RedirIn && next.Kind != lexer.RedirOut && next.Kind != lexer.RedirAppend {
			return nil, &ParseError{Pos: tok.Pos, Msg: "missing command after \"|\""}
		}
	}
}

func (p *parser) parseCommand() (*SimpleCommand, error) {
	cmd := &SimpleCommand{Redirs: make(map[int]Redirection)}

loop:
	for {
		tok, ok := p.peek()
		if !ok {
			break
		}

		switch tok.Kind {
		case lexer.Word:
			cmd.Words = append(cmd.Words, tok)
			p.next()

		case lexer.RedirIn, lexer.RedirOut, lexer.RedirAppend:
			p.next()
			target, ok := p.next()
			if !ok || target.Kind != lexer.Word {
				return nil, &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("missing target after %q", tok.Kind)}
			}
			mode := RedirRead
			switch tok.Kind {
			case lexer.RedirOut:
				mode = RedirWrite
			case lexer.RedirAppend:
				mode = RedirAppend
			}
			// Last redirection of a descriptor wins.
			cmd.Redirs[tok.FD] = Redirection{Mode: mode, Target: target}

		default:
			break loop
		}
	}

	if len(cmd.Words) == 0 {
		pos := 0
		if tok, ok := p.peek(); ok {
			pos = tok.Pos
		}
		return nil, &ParseError{Pos: pos, Msg: "missing command"}
	}

	return cmd, nil
}
