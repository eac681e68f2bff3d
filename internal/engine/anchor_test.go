package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAnchor_NoContext(t *testing.T) {
	span, ok := ResolveAnchor("alpha beta gamma", "", "beta", "")
	require.True(t, ok)
	assert.Equal(t, Span{Start: 6, End: 10}, span)
}

func TestResolveAnchor_NoContext_FirstOccurrence(t *testing.T) {
	span, ok := ResolveAnchor("x y x y", "", "x", "")
	require.True(t, ok)
	assert.Equal(t, Span{Start: 0, End: 1}, span, "leftmost occurrence wins")
}

func TestResolveAnchor_BeforeOnly(t *testing.T) {
	text := "a=1\nb=2\n"
	span, ok := ResolveAnchor(text, "a=1\n", "b=2", "")
	require.True(t, ok)
	assert.Equal(t, "b=2", text[span.Start:span.End])
}

func TestResolveAnchor_AfterOnly(t *testing.T) {
	// Two occurrences of "x"; only the second is followed by "z".
	text := "x y x z"
	span, ok := ResolveAnchor(text, "", "x ", "z")
	require.True(t, ok)
	assert.Equal(t, Span{Start: 4, End: 6}, span)
}

func TestResolveAnchor_FullTriplePrecedence(t *testing.T) {
	// "before+remove" is ambiguous (matches at both before occurrences),
	// but only the second satisfies the full before+remove+after triple.
	text := "k v end\nk v stop\n"
	span, ok := ResolveAnchor(text, "k ", "v", " stop")
	require.True(t, ok)
	assert.Equal(t, Span{Start: 10, End: 11}, span,
		"must select the triple match, not the first before+remove match")
}

func TestResolveAnchor_EmptyRemove_InsertionPoint(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		before string
		after  string
		want   Span
	}{
		{"after before", "header\nbody\n", "header\n", "", Span{Start: 7, End: 7}},
		{"between before and after", "header\nbody\n", "header\n", "body\n", Span{Start: 7, End: 7}},
		{"preceding after", "header\nbody\n", "", "body\n", Span{Start: 7, End: 7}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			span, ok := ResolveAnchor(tc.text, tc.before, "", tc.after)
			require.True(t, ok)
			assert.Equal(t, tc.want, span)
		})
	}
}

func TestResolveAnchor_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		before string
		remove string
		after  string
	}{
		{"remove absent", "abc", "", "zzz", ""},
		{"before absent", "abc", "Q", "b", ""},
		{"after constraint never satisfied", "a b a c", "", "a", " x"},
		{"triple never aligns", "k v end\n", "k ", "v", " stop"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ResolveAnchor(tc.text, tc.before, tc.remove, tc.after)
			assert.False(t, ok)
		})
	}
}

func TestResolveAnchor_RestartAfterFailedConstraint(t *testing.T) {
	// First "fn " is followed by remove but wrong after; the scan must
	// restart at the next "fn " occurrence rather than give up.
	text := "fn a() {}\nfn a() { body }\n"
	span, ok := ResolveAnchor(text, "fn ", "a()", " { body }")
	require.True(t, ok)
	assert.Equal(t, "a()", text[span.Start:span.End])
	assert.Equal(t, 13, span.Start)
}

func TestResolveAnchor_RemoveNotAdjacentToBefore(t *testing.T) {
	// remove is searched from before's end, not required to touch it.
	text := "start middle target end"
	span, ok := ResolveAnchor(text, "start", "target", "")
	require.True(t, ok)
	assert.Equal(t, "target", text[span.Start:span.End])
}
