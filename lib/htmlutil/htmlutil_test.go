package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	node, err := html.Parse(strings.NewReader(
		`<div><p>one <b>two</b></p><span> three</span></div>`))
	require.NoError(t, err)
	require.Equal(t, "one two three", CleanText(GetText(node)))
}

func TestCleanText(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"  hello \n\t world  ", "hello world"},
		{"one  two   three", "one two three"},
		{"", ""},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, CleanText(test.in))
	}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in       string
		expected int
	}{
		{"12,345", 12345},
		{"12,345 words", 12345},
		{"Words: 870", 870},
		{"", 0},
		{"no numbers", 0},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, ParseCount(test.in), test.in)
	}
}
