package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(tokens []Token) []string {
	var out []string
	for _, tok := range tokens {
		if tok.Kind == Word {
			out = append(out, tok.Text())
		}
	}
	return out
}

func TestTokenizeWords(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"ls", []string{"ls"}},
		{"ls -l /tmp", []string{"ls", "-l", "/tmp"}},
		{"  spaced \t out  ", []string{"spaced", "out"}},
		{"'single quoted'", []string{"single quoted"}},
		{`"double quoted"`, []string{"double quoted"}},
		{`mixed'-up 'word`, []string{"mixed-up word"}},
		{"''", []string{""}},
		{`""`, []string{""}},
		{`echo 'it''s'`, []string{"echo", "its"}},
		// Backslash outside quotes escapes anything and is removed.
		{`a\ b`, []string{"a b"}},
		{`\|`, []string{"|"}},
		{`\$HOME`, []string{"$HOME"}},
		// Inside single quotes backslash is not special.
		{`'a\nb'`, []string{`a\nb`}},
		// Inside double quotes backslash escapes only " \ and $.
		{`"a\"b"`, []string{`a"b`}},
		{`"a\\b"`, []string{`a\b`}},
		{`"a\$b"`, []string{"a$b"}},
		{`"a\nb"`, []string{`a\nb`}},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			tokens, err := Tokenize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, words(tokens))
		})
	}
}

func TestTokenizeOperators(t *testing.T) {
	cases := []struct {
		input string
		want  []Kind
	}{
		{"a | b", []Kind{Word, Pipe, Word}},
		{"a|b", []Kind{Word, Pipe, Word}},
		{"a && b", []Kind{Word, And, Word}},
		{"a || b", []Kind{Word, Or, Word}},
		{"a ; b", []Kind{Word, Semi, Word}},
		{"a &", []Kind{Word, Background}},
		{"a > f", []Kind{Word, RedirOut, Word}},
		{"a >> f", []Kind{Word, RedirAppend, Word}},
		{"a < f", []Kind{Word, RedirIn, Word}},
		{"a>f<g", []Kind{Word, RedirOut, Word, RedirIn, Word}},
		{"a | b | c", []Kind{Word, Pipe, Word, Pipe, Word}},
		// Quoted or escaped operators are plain word content.
		{"'a | b'", []Kind{Word}},
		{`a \| b`, []Kind{Word, Word, Word}},
		{`"a && b"`, []Kind{Word}},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			tokens, err := Tokenize(tc.input)
			require.NoError(t, err)
			var kinds []Kind
			for _, tok := range tokens {
				kinds = append(kinds, tok.Kind)
			}
			assert.Equal(t, tc.want, kinds)
		})
	}
}

func TestTokenizeRedirFD(t *testing.T) {
	cases := []struct {
		input  string
		kind   Kind
		fd     int
		target string
	}{
		{"cmd > out", RedirOut, 1, "out"},
		{"cmd 2> err", RedirOut, 2, "err"},
		{"cmd 2>> err", RedirAppend, 2, "err"},
		{"cmd < in", RedirIn, 0, "in"},
		{"cmd 0< in", RedirIn, 0, "in"},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			tokens, err := Tokenize(tc.input)
			require.NoError(t, err)
			require.Len(t, tokens, 3)
			assert.Equal(t, tc.kind, tokens[1].Kind)
			assert.Equal(t, tc.fd, tokens[1].FD)
			assert.Equal(t, tc.target, tokens[2].Text())
		})
	}

	// A descriptor prefix only counts when the whole word is digits.
	tokens, err := Tokenize("echo a2>f")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, "a2", tokens[1].Text())
	assert.Equal(t, RedirOut, tokens[2].Kind)
	assert.Equal(t, 1, tokens[2].FD)

	// Quoted digits stay an argument.
	tokens, err = Tokenize(`echo "2">f`)
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, "2", tokens[1].Text())
	assert.Equal(t, 1, tokens[2].FD)
}

func TestTokenizeQuoting(t *testing.T) {
	tokens, err := Tokenize(`pre'mid'"post"`)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Len(t, tokens[0].Segments, 3)
	assert.Equal(t, Unquoted, tokens[0].Segments[0].Quoting)
	assert.Equal(t, SingleQuoted, tokens[0].Segments[1].Quoting)
	assert.Equal(t, DoubleQuoted, tokens[0].Segments[2].Quoting)
	assert.False(t, tokens[0].FullyQuoted())

	tokens, err = Tokenize(`'all'"quoted"`)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.True(t, tokens[0].FullyQuoted())
}

// An escaped $ inside double quotes must land in a segment the expander
// treats as literal, not just lose its backslash.
func TestTokenizeEscapedSigilInDoubleQuotes(t *testing.T) {
	tokens, err := Tokenize(`"a\$b"`)
	require.NoError(t, err)
	require.Len(t, tokens, 1)

	segs := tokens[0].Segments
	require.Len(t, segs, 3)
	assert.Equal(t, Segment{Text: "a", Quoting: DoubleQuoted}, segs[0])
	assert.Equal(t, Segment{Text: "$", Quoting: SingleQuoted}, segs[1])
	assert.Equal(t, Segment{Text: "b", Quoting: DoubleQuoted}, segs[2])
	assert.True(t, tokens[0].FullyQuoted())

	tokens, err = Tokenize(`"\$HOME"`)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Len(t, tokens[0].Segments, 2)
	assert.Equal(t, Segment{Text: "$", Quoting: SingleQuoted}, tokens[0].Segments[0])
	assert.Equal(t, Segment{Text: "HOME", Quoting: DoubleQuoted}, tokens[0].Segments[1])
}

func TestTokenizeErrors(t *testing.T) {
	cases := []string{
		"'unterminated",
		`"unterminated`,
		`trailing\`,
		`"inner 'fine' but open`,
	}

	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			_, err := Tokenize(input)
			require.Error(t, err)
			var lexErr *LexError
			assert.ErrorAs(t, err, &lexErr)
		})
	}
}

// Reassembling word text round-trips to the unquoted content of the line.
func TestTokenizeRoundTrip(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`plain words here`, "plain words here"},
		{`'a b' c`, "a b c"},
		{`"x y" 'z'`, "x y z"},
		{`esc\ aped`, "esc aped"},
		{`a"b"'c'd`, "abcd"},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			tokens, err := Tokenize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, strings.Join(words(tokens), " "))
		})
	}
}
