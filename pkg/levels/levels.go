// Package levels defines the logical compression levels stored in block
// headers and their translation to the signed level cookies the zstd codec
// understands. The logical enumeration is what goes on disk; cookies are a
// codec-internal artifact. Keeping the two separated insulates the on-disk
// format from codec version drift: if a future codec renumbers its fast
// levels, only the translation table below changes.
package levels

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Level identifies a logical compression level as stored in the level byte
// of a block header. The enumeration is append-only: values already written
// to disk reference these constants forever, so new entries may only be
// added after the existing ones.
type Level uint8

const (
	// LevelInherit defers the level choice to the containing dataset.
	// It never appears inside a stored block header.
	LevelInherit Level = iota

	// Positive levels trade compression speed for ratio.
	Level1
	Level2
	Level3
	Level4
	Level5
	Level6
	Level7
	Level8
	Level9
	Level10
	Level11
	Level12
	Level13
	Level14
	Level15
	Level16
	Level17
	Level18
	Level19

	// levelFast marks the boundary between the positive and the fast
	// region. It is not a usable level.
	levelFast

	// Fast levels map to the codec's negative levels, trading ratio for
	// throughput. FastN corresponds to cookie -N.
	LevelFast1
	LevelFast2
	LevelFast3
	LevelFast4
	LevelFast5
	LevelFast6
	LevelFast7
	LevelFast8
	LevelFast9
	LevelFast10
	LevelFast20
	LevelFast30
	LevelFast40
	LevelFast50
	LevelFast60
	LevelFast70
	LevelFast80
	LevelFast90
	LevelFast100
	LevelFast500
	LevelFast1000

	// levelFastMax caps the fast region. Not a usable level.
	levelFastMax
)

const (
	// LevelDefault asks for the system default level. Like LevelInherit it
	// is normalised away before compression and never stored in a header.
	LevelDefault Level = 255

	// Default is the concrete level sentinels resolve to.
	Default = Level3
)

// DefaultCookie is the codec cookie of the Default level.
const DefaultCookie int32 = 3

var (
	// ErrUnknownCookie reports a codec cookie with no logical level. Seen
	// during decompression it means the frame is corrupt.
	ErrUnknownCookie = errors.New("unknown level cookie")

	// ErrUnknownLevel reports a level name or byte outside the enumeration.
	ErrUnknownLevel = errors.New("unknown compression level")
)

type mapping struct {
	cookie int32
	level  Level
}

// The full cookie translation table. Positive cookies are numerically
// identical to their levels; fast levels encode as negative cookies.
// Lookup is a linear scan, the table is small enough that anything smarter
// would not pay for itself.
var table = [...]mapping{
	{1, Level1},
	{2, Level2},
	{3, Level3},
	{4, Level4},
	{5, Level5},
	{6, Level6},
	{7, Level7},
	{8, Level8},
	{9, Level9},
	{10, Level10},
	{11, Level11},
	{12, Level12},
	{13, Level13},
	{14, Level14},
	{15, Level15},
	{16, Level16},
	{17, Level17},
	{18, Level18},
	{19, Level19},
	{-1, LevelFast1},
	{-2, LevelFast2},
	{-3, LevelFast3},
	{-4, LevelFast4},
	{-5, LevelFast5},
	{-6, LevelFast6},
	{-7, LevelFast7},
	{-8, LevelFast8},
	{-9, LevelFast9},
	{-10, LevelFast10},
	{-20, LevelFast20},
	{-30, LevelFast30},
	{-40, LevelFast40},
	{-50, LevelFast50},
	{-60, LevelFast60},
	{-70, LevelFast70},
	{-80, LevelFast80},
	{-90, LevelFast90},
	{-100, LevelFast100},
	{-500, LevelFast500},
	{-1000, LevelFast1000},
}

// Concrete reports whether l is a real stored level rather than a sentinel
// or a region marker. Only concrete levels are valid inside block headers.
func (l Level) Concrete() bool {
	return (l >= Level1 && l <= Level19) || (l > levelFast && l < levelFastMax)
}

// CookieOf translates a logical level to its codec cookie. Sentinels and
// values outside the table resolve to the default level's cookie, so the
// function is total.
func CookieOf(l Level) int32 {
	for _, m := range table {
		if m.level == l {
			return m.cookie
		}
	}
	return DefaultCookie
}

// FromCookie translates a codec cookie back to its logical level.
func FromCookie(cookie int32) (Level, error) {
	for _, m := range table {
		if m.cookie == cookie {
			return m.level, nil
		}
	}
	return Default, fmt.Errorf("%w: %d", ErrUnknownCookie, cookie)
}

// String renders the level in its property form: "inherit", "default",
// "zstd-3", "zstd-fast-30".
func (l Level) String() string {
	switch {
	case l == LevelInherit:
		return "inherit"
	case l == LevelDefault:
		return "default"
	case !l.Concrete():
		return fmt.Sprintf("invalid(%d)", uint8(l))
	}

	cookie := CookieOf(l)
	if cookie < 0 {
		return fmt.Sprintf("zstd-fast-%d", -cookie)
	}
	return fmt.Sprintf("zstd-%d", cookie)
}

// ParseLevel parses the property forms accepted for configuration:
// "inherit", "default", "zstd-N", "zstd-fast-N", "fast-N" and bare
// integers, negative integers selecting fast levels.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	switch name {
	case "inherit":
		return LevelInherit, nil
	case "default", "zstd", "on":
		return LevelDefault, nil
	}

	name = strings.TrimPrefix(name, "zstd-")
	if rest, ok := strings.CutPrefix(name, "fast-"); ok {
		name = "-" + rest
	}

	cookie, err := strconv.ParseInt(name, 10, 32)
	if err != nil {
		return Default, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}

	l, err := FromCookie(int32(cookie))
	if err != nil {
		return Default, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return l, nil
}
