package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rush-shell/rush/core/lexer"
)

// RedirMode says what a redirection does with its target file.
type RedirMode int

const (
	RedirRead RedirMode = iota
	RedirWrite
	RedirAppend
)

func (m RedirMode) String() string {
	switch m {
	case RedirRead:
		return "<"
	case RedirWrite:
		return ">"
	case RedirAppend:
		return ">>"
	default:
		return "invalid"
	}
}

// Redirection binds one file descriptor to a target file. The target is kept
// as a token so expansion happens at execution time.
type Redirection struct {
	Mode   RedirMode
	Target lexer.Token
}

// SimpleCommand is one command invocation: argv words plus a redirection
// table keyed by file descriptor. Duplicate redirections of the same
// descriptor resolve last-wins during parsing.
type SimpleCommand struct {
	Words  []lexer.Token
	Redirs map[int]Redirection
}

// Name returns the raw (unexpanded) command name.
func (c *SimpleCommand) Name() string {
	if len(c.Words) == 0 {
		return ""
	}
	return c.Words[0].Text()
}

// Pipeline is a chain of commands, each stage's stdout feeding the next
// stage's stdin. Its exit status is the status of the last stage.
type Pipeline struct {
	Commands []*SimpleCommand
}

// Separator says how an item chains to the item before it.
type Separator int

const (
	// SepAlways runs unconditionally (";" or first item).
	SepAlways Separator = iota
	// SepIfSuccess runs only when the previous pipeline exited 0 ("&&").
	SepIfSuccess
	// SepIfFailure runs only when the previous pipeline exited non-0 ("||").
	SepIfFailure
)

func (s Separator) String() string {
	switch s {
	case SepAlways:
		return ";"
	case SepIfSuccess:
		return "&&"
	case SepIfFailure:
		return "||"
	default:
		return "invalid"
	}
}

// Item is one pipeline within a sequence.
type Item struct {
	Pipeline *Pipeline
	// Sep chains this item to the previous one. SepAlways for the first.
	Sep Separator
	// Background set means the executor must not wait for the pipeline.
	Background bool
}

// CommandSequence is a full parsed input line.
type CommandSequence struct {
	Items []Item
}

// Dump renders the sequence in a stable one-line-per-node format, used by
// diagnostics and golden tests.
func (seq *CommandSequence) Dump() string {
	var sb strings.Builder
	for i, item := range seq.Items {
		fmt.Fprintf(&sb, "item %d sep=%s background=%v\n", i, item.Sep, item.Background)
		for j, cmd := range item.Pipeline.Commands {
			fmt.Fprintf(&sb, "  stage %d:", j)
			for _, w := range cmd.Words {
				fmt.Fprintf(&sb, " %q", w.Text())
			}
			sb.WriteString("\n")
			fds := make([]int, 0, len(cmd.Redirs))
			for fd := range cmd.Redirs {
				fds = append(fds, fd)
			}
			sort.Ints(fds)
			for _, fd := range fds {
				r := cmd.Redirs[fd]
				fmt.Fprintf(&sb, "    redir fd=%d op=%s target=%q\n", fd, r.Mode, r.Target.Text())
			}
		}
	}
	return sb.String()
}
