// Package slug provides URL-friendly slug generation from arbitrary strings,
// including transliteration of Cyrillic titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonWord matches anything that isn't an ASCII word character, space, or hyphen.
	nonWord = regexp.MustCompile(`[^\w\s-]`)
	// separators collapses runs of whitespace, underscores, and hyphens into one hyphen.
	separators = regexp.MustCompile(`[\s_-]+`)
)

// translit maps lowercase Cyrillic letters to their Latin equivalents.
// The hard and soft signs (ъ, ь) have no Latin counterpart and are dropped.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// Generate creates a URL-friendly slug from the given string.
// Examples: "Hello, World! 2026" → "hello-world-2026",
// "Привет Мир!" → "privet-mir".
func Generate(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if latin, ok := translit[r]; ok {
			b.WriteString(latin)
		} else {
			b.WriteRune(r)
		}
	}

	result := nonWord.ReplaceAllString(b.String(), "")
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
