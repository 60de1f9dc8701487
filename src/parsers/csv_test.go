package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "plain fields", line: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "empty trailing field", line: "a,b,", want: []string{"a", "b", ""}},
		{name: "empty leading field", line: ",a", want: []string{"", "a"}},
		{name: "quoted comma", line: `a,"b,c",d`, want: []string{"a", "b,c", "d"}},
		{name: "escaped quote", line: `a,"b,c","d""e"`, want: []string{"a", "b,c", `d"e`}},
		{name: "doubled quotes outside quoted mode just toggle", line: `he said ""hi""`, want: []string{`he said hi`}},
		{name: "unterminated quote consumes rest of line", line: `a,"b,c`, want: []string{"a", "b,c"}},
		{name: "empty line yields one empty field", line: "", want: []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeLine(tt.line))
		})
	}
}

func TestTokenizeLineRoundTrip(t *testing.T) {
	// Plain (non-quoted) fields joined by commas must come back verbatim.
	fields := []string{"2024-01-02", "AAPL", "long", "187.5", "190.25", "10", "1.2"}
	assert.Equal(t, fields, TokenizeLine(strings.Join(fields, ",")))
}

func TestParseDropsBlankLines(t *testing.T) {
	result := Parse("h1,h2\n\n\nv1,v2\n")

	assert.Equal(t, []string{"h1", "h2"}, result.Header)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "v1", result.Rows[0]["h1"])
	assert.Equal(t, "v2", result.Rows[0]["h2"])
}

func TestParseNormalizesLineEndings(t *testing.T) {
	result := Parse("a,b\r\n1,2\r3,4")

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "2", result.Rows[0]["b"])
	assert.Equal(t, "3", result.Rows[1]["a"])
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \n \t \n"} {
		result := Parse(input)
		assert.Empty(t, result.Header)
		assert.Empty(t, result.Rows)
	}
}

func TestParseTrimsHeaderFields(t *testing.T) {
	result := Parse(" symbol , entry \nAAPL,10")

	assert.Equal(t, []string{"symbol", "entry"}, result.Header)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "AAPL", result.Rows[0]["symbol"])
}

func TestParseDuplicateHeaderLaterColumnWins(t *testing.T) {
	result := Parse("a,a\n1,2")

	require.Len(t, result.Rows, 1)
	assert.Equal(t, "2", result.Rows[0]["a"])
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `duplicate header "a"`)
}

func TestParseDuplicateHeaderShortRow(t *testing.T) {
	// The later duplicate column wins even when its token is missing, so the
	// earlier value is discarded and the key reads back as empty.
	result := Parse("a,a\n1")

	require.Len(t, result.Rows, 1)
	assert.Equal(t, "", result.Rows[0]["a"])
}

func TestParseShortAndLongRows(t *testing.T) {
	result := Parse("a,b,c\nx\n1,2,3,4")

	require.Len(t, result.Rows, 2)
	// Missing trailing fields read back as empty string.
	assert.Equal(t, "x", result.Rows[0]["a"])
	assert.Equal(t, "", result.Rows[0]["b"])
	assert.Equal(t, "", result.Rows[0]["c"])
	// Tokens beyond the header width are dropped.
	assert.Len(t, result.Rows[1], 3)
	assert.Equal(t, "3", result.Rows[1]["c"])
}

func TestParseNeverPanicsOnMalformedQuoting(t *testing.T) {
	inputs := []string{
		`a,"b`,
		`"`,
		`""`,
		`a,"b""`,
		"h\n\"unterminated,all,the,way",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() { Parse(input) })
	}
}
