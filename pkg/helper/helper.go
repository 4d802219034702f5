package helper

import (
	"fmt"
	"strings"
)

// GetDriverCodeName returns the three-letter code of a driver, taken from
// the surname when there is one: "Max Verstappen" is "VER".
func GetDriverCodeName(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}
	source := []rune(words[len(words)-1])
	if len(words) > 1 && len(source) < 3 {
		// short surnames borrow the initial of the first name
		source = append([]rune(words[0])[:1], source...)
	}
	if len(source) > 3 {
		source = source[:3]
	}
	return strings.ToUpper(string(source))
}

// FormatPoints prints points without a trailing unit, "-" for a driver
// that scored nothing.
func FormatPoints(points int) string {
	if points <= 0 {
		return "-"
	}
	return fmt.Sprint(points)
}

// FormatRank prints a standing position, "-" when no rank was recorded.
func FormatRank(rank int) string {
	if rank <= 0 {
		return "-"
	}
	return fmt.Sprintf("P%d", rank)
}

// IsYear reports whether s is a four digit season such as "2023".
func IsYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s[0] != '0'
}
