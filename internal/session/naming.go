package session

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Discord rejects channel names longer than this many characters.
const maxChannelNameLength = 100

func possessive(name string) string {
	if strings.HasSuffix(strings.ToLower(name), "s") {
		return name + "'"
	}
	return name + "'s"
}

// provisionalThreadName names a thread while it waits for its title.
func provisionalThreadName(c Category, displayName string) string {
	return truncateName(fmt.Sprintf("%s %s thread", c.Emoji(), possessive(displayName)))
}

func titledThreadName(c Category, title string) string {
	return truncateName(c.Emoji() + " " + strings.Join(strings.Fields(title), " "))
}

func truncateName(name string) string {
	if utf8.RuneCountInString(name) <= maxChannelNameLength {
		return name
	}
	runes := []rune(name)
	return string(runes[:maxChannelNameLength])
}
