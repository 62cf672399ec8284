package condfmt

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s sentinels) all() []rune {
	return []rune{s.backslash, s.closeBrace, s.percent, s.openBrace, s.formatCode, s.defaultCode, s.specifier, s.significant}
}

func TestAllocateSentinels_FastPath(t *testing.T) {
	s, err := allocateSentinels("plain ascii %a%", DefaultSentinelBase)
	require.NoError(t, err)

	for i, r := range s.all() {
		assert.Equal(t, DefaultSentinelBase+rune(i), r)
	}
}

func TestAllocateSentinels_SkipsUsed(t *testing.T) {
	src := string([]rune{0xE000, 0xE002, 0xE003, 'x'})
	s, err := allocateSentinels(src, DefaultSentinelBase)
	require.NoError(t, err)

	all := s.all()
	assert.Equal(t, []rune{0xE001, 0xE004, 0xE005, 0xE006, 0xE007, 0xE008, 0xE009, 0xE00A}, all)
}

func TestAllocateSentinels_Distinct(t *testing.T) {
	src := string([]rune{0xE001, 0xE005, 0xE006})
	s, err := allocateSentinels(src, DefaultSentinelBase)
	require.NoError(t, err)

	seen := make(map[rune]bool)
	for _, r := range s.all() {
		assert.False(t, seen[r], "duplicate sentinel %U", r)
		assert.NotContains(t, src, string(r))
		seen[r] = true
	}
}

func TestAllocateSentinels_SkipsSurrogates(t *testing.T) {
	s, err := allocateSentinels("abc", 0xD7FE)
	require.NoError(t, err)

	all := s.all()
	assert.Equal(t, rune(0xD7FE), all[0])
	assert.Equal(t, rune(0xD7FF), all[1])
	assert.Equal(t, rune(0xE000), all[2])
}

func TestAllocateSentinels_Exhausted(t *testing.T) {
	_, err := allocateSentinels("abc", unicode.MaxRune-3)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSentinels_Restorer(t *testing.T) {
	s, err := allocateSentinels("", DefaultSentinelBase)
	require.NoError(t, err)

	in := string([]rune{s.backslash, s.openBrace, 'x', s.percent, s.closeBrace})
	assert.Equal(t, `\{x%}`, s.restorer().Replace(in))
	assert.True(t, s.isMarker(s.specifier))
	assert.False(t, s.isMarker(s.percent))
}

func TestUnescape(t *testing.T) {
	s, err := allocateSentinels("", DefaultSentinelBase)
	require.NoError(t, err)
	bs, ob, cb, pc := string(s.backslash), string(s.openBrace), string(s.closeBrace), string(s.percent)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no backslash", "a{b}%c%", "a{b}%c%"},
		{"escaped open", `\{`, ob},
		{"escaped close", `\}`, cb},
		{"escaped percent", `\%`, pc},
		{"even run keeps operator", `\\{`, bs + "{"},
		{"odd run of three", `\\\%`, bs + pc},
		{"four backslashes", `\\\\}`, bs + bs + "}"},
		{"backslash before letter untouched", `a\nb`, `a\nb`},
		{"trailing backslashes untouched", `end\\`, `end\\`},
		{"mixed", `x\%y\\%z`, "x" + pc + "y" + bs + "%z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unescape(tt.in, s))
		})
	}
}
