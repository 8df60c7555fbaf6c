// Package slugify builds URL slugs from titles, with basic Cyrillic
// transliteration for Uzbek/Russian catalog names.
package slugify

import (
	"fmt"
	"strings"
	"unicode"
)

var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	'ў': "o", 'қ': "q", 'ғ': "g", 'ҳ': "h",
}

// Make converts a title to a lowercase hyphenated slug.
func Make(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen

	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if t, ok := translit[r]; ok {
				b.WriteString(t)
				if t != "" {
					lastHyphen = false
				}
				continue
			}
			if unicode.IsSpace(r) || r == '-' || r == '_' || r == '/' {
				if !lastHyphen {
					b.WriteByte('-')
					lastHyphen = true
				}
			}
			// anything else is dropped
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// MakeUnique appends an increasing numeric suffix until exists reports the
// candidate as free.
func MakeUnique(title string, exists func(slug string) (bool, error)) (string, error) {
	base := Make(title)
	if base == "" {
		base = "item"
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
