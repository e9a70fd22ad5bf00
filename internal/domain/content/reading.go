package content

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const WordsPerMinute = 225

func WordCount(body string) int {
	return len(strings.Fields(body))
}

// ReadingMinutes rounds up, so any non-empty body reads in at least a minute.
func ReadingMinutes(body string) int {
	words := WordCount(body)
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// FoldTag is the matching and display form of a tag.
func FoldTag(tag string) string {
	// a Caser keeps state, so one per call
	return cases.Lower(language.Und).String(strings.TrimSpace(tag))
}

func ReadingTime(body string) string {
	return fmt.Sprintf("%d min", ReadingMinutes(body))
}
