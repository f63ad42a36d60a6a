package session

import (
	"slices"
	"strings"
)

const (
	noTagsSentinel = "*<no tags>*"
	tagSeparator   = ", "
)

// tagCatalog is the closed list of selectable tags, in menu order.
var tagCatalog = []string{
	"Windows",
	"Linux",
	"macOS",
	"BSD",
	"Unix-like",
	"Product: Dot Browser for Desktop",
	"Product: Dot Browser for Android",
	"Product: Dot One",
	"Product: Dot Shield",
	"Product: Other",
}

// FormatTags renders tags in the given order.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return noTagsSentinel
	}
	return strings.Join(tags, tagSeparator)
}

func ParseTags(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || value == noTagsSentinel {
		return nil
	}
	return strings.Split(value, tagSeparator)
}

// defaultSelection builds the catalog options for the tag menu in catalog
// order, marking the tags already on the thread. Matching is exact.
func defaultSelection(current []string) []tagOption {
	options := make([]tagOption, 0, len(tagCatalog))
	for _, tag := range tagCatalog {
		options = append(options, tagOption{name: tag, selected: slices.Contains(current, tag)})
	}
	return options
}

type tagOption struct {
	name     string
	selected bool
}
