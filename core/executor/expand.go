package executor

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/rush-shell/rush/core/lexer"
	"github.com/rush-shell/rush/core/state"
)

// expandWord turns one word token into zero or more fields. Variable
// references expand in unquoted and double-quoted segments, a leading tilde
// in an unquoted segment becomes $HOME, and glob patterns fan out against
// the filesystem. Only unquoted segments contribute live pattern characters;
// metacharacters from quoted segments match themselves. Expansion happens at
// execution time, so results containing pipes or spaces are never re-parsed
// as operators.
func expandWord(tok lexer.Token, st *state.State, fsys afero.Fs) []string {
	var word, pattern strings.Builder
	globbable := false

	for i, seg := range tok.Segments {
		var text string
		switch seg.Quoting {
		case lexer.SingleQuoted:
			text = seg.Text
			pattern.WriteString(quoteGlobMeta(text))
		case lexer.DoubleQuoted:
			text = expandVars(seg.Text, st)
			pattern.WriteString(quoteGlobMeta(text))
		default:
			t := seg.Text
			if i == 0 {
				t = expandTilde(t, st)
			}
			text = expandVars(t, st)
			if strings.ContainsAny(text, "*?[") {
				globbable = true
			}
			pattern.WriteString(text)
		}
		word.WriteString(text)
	}

	if globbable {
		if matches := expandGlob(pattern.String(), st, fsys); len(matches) > 0 {
			return matches
		}
	}
	return []string{word.String()}
}

// quoteGlobMeta backslash-escapes pattern metacharacters so that text from
// quoted segments matches only itself.
func quoteGlobMeta(s string) string {
	if !strings.ContainsAny(s, `*?[\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func expandTilde(text string, st *state.State) string {
	if text != "~" && !strings.HasPrefix(text, "~/") {
		return text
	}
	home := st.Env.Get("HOME")
	if home == "" {
		return text
	}
	return home + text[1:]
}

// expandVars substitutes $NAME, ${NAME}, $? and $$. An unset variable
// expands to the empty string; a lone or malformed "$" stays literal.
func expandVars(s string, st *state.State) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '$' || i+1 >= len(s) {
			sb.WriteByte(c)
			i++
			continue
		}

		switch next := s[i+1]; {
		case next == '?':
			sb.WriteString(strconv.Itoa(st.LastStatus))
			i += 2
		case next == '$':
			sb.WriteString(strconv.Itoa(os.Getpid()))
			i += 2
		case next == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				sb.WriteString(s[i:])
				i = len(s)
				break
			}
			sb.WriteString(st.Env.Get(s[i+2 : i+2+end]))
			i += end + 3
		case isNameStart(next):
			j := i + 1
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			sb.WriteString(st.Env.Get(s[i+1 : j]))
			i = j
		default:
			sb.WriteByte('$')
			i++
		}
	}
	return sb.String()
}

func isNameStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9'
}

// expandGlob matches pattern against the filesystem, resolving relative
// patterns against the current directory while keeping the results relative.
func expandGlob(pattern string, st *state.State, fsys afero.Fs) []string {
	prefix := ""
	lookup := pattern
	if !strings.HasPrefix(pattern, "/") {
		prefix = strings.TrimSuffix(st.Cwd(), "/") + "/"
		lookup = prefix + pattern
	}

	matches, err := afero.Glob(fsys, lookup)
	if err != nil || len(matches) == 0 {
		return nil
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimPrefix(m, prefix))
	}
	sort.Strings(out)
	return out
}
