package levels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCookieBijectivity(t *testing.T) {
	for _, m := range table {
		got, err := FromCookie(CookieOf(m.level))
		require.NoError(t, err)
		require.Equal(t, m.level, got, "level %v did not survive the cookie round trip", m.level)
	}
}

func TestEveryConcreteLevelIsMapped(t *testing.T) {
	mapped := make(map[Level]bool, len(table))
	for _, m := range table {
		mapped[m.level] = true
	}

	for l := Level(0); l < levelFastMax; l++ {
		require.Equal(t, l.Concrete(), mapped[l], "level %d concreteness disagrees with the table", uint8(l))
	}
}

func TestSentinelsResolveToDefaultCookie(t *testing.T) {
	require.Equal(t, DefaultCookie, CookieOf(LevelInherit))
	require.Equal(t, DefaultCookie, CookieOf(LevelDefault))
	require.False(t, LevelInherit.Concrete())
	require.False(t, LevelDefault.Concrete())
}

func TestFromCookieRejectsUnknownCookies(t *testing.T) {
	for _, cookie := range []int32{0, 20, -11, -15, -200, -501, 1000} {
		_, err := FromCookie(cookie)
		require.ErrorIs(t, err, ErrUnknownCookie, "cookie %d", cookie)
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	for _, m := range table {
		parsed, err := ParseLevel(m.level.String())
		require.NoError(t, err, "parsing %q", m.level.String())
		require.Equal(t, m.level, parsed)
	}

	parsed, err := ParseLevel(LevelInherit.String())
	require.NoError(t, err)
	require.Equal(t, LevelInherit, parsed)

	parsed, err = ParseLevel(LevelDefault.String())
	require.NoError(t, err)
	require.Equal(t, LevelDefault, parsed)
}

func TestParseLevelForms(t *testing.T) {
	cases := map[string]Level{
		"zstd":         LevelDefault,
		"on":           LevelDefault,
		"default":      LevelDefault,
		"inherit":      LevelInherit,
		"zstd-7":       Level7,
		"12":           Level12,
		"zstd-fast-3":  LevelFast3,
		"fast-30":      LevelFast30,
		"-5":           LevelFast5,
		"zstd-fast-1000": LevelFast1000,
		" zstd-19 ":    Level19,
	}

	for input, want := range cases {
		got, err := ParseLevel(input)
		require.NoError(t, err, "parsing %q", input)
		require.Equal(t, want, got, "parsing %q", input)
	}
}

func TestParseLevelRejectsUnknownForms(t *testing.T) {
	for _, input := range []string{"", "bogus", "zstd-0", "zstd-25", "fast-11", "fast-0", "-15"} {
		_, err := ParseLevel(input)
		require.ErrorIs(t, err, ErrUnknownLevel, "input %q", input)
	}
}

func TestFastLevelNames(t *testing.T) {
	require.Equal(t, "zstd-fast-1", LevelFast1.String())
	require.Equal(t, "zstd-fast-100", LevelFast100.String())
	require.Equal(t, "zstd-fast-500", LevelFast500.String())
	require.Equal(t, "zstd-3", Level3.String())
}
