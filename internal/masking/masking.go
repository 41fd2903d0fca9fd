// Package masking implements the text normalization and display-mask logic
// for the guess game. Normalization collapses punctuation, ampersand and
// "'n'" variants so titles like "Rock 'n' Roll" and "rock and roll" compare
// equal; masking renders a partially-revealed display string where unrevealed
// letters become '_'.
package masking

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/soundslike/guesstrack/internal/domain"
)

// Blank is the placeholder for an unrevealed alphabetic character.
const Blank = '_'

// strippedChars are removed entirely during normalization. Covers censored
// spellings ("F**k" vs "Fuck"), stylistic separators ("Alt-J" vs "AltJ"),
// thousands separators ("10,000 Maniacs") and quoted names.
const strippedChars = `*_-.,'"!?()`

// andVariant matches 'n', 'n and standalone n used as a word, as in
// "rock 'n' roll" / "Guns N' Roses".
var andVariant = regexp.MustCompile(`(^|\s)'?n'?($|\s)`)

// commonWords are auto-revealed as whole tokens when the feature is enabled.
var commonWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "and": {}, "or": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {},
	"by": {}, "feat": {}, "ft": {}, "featuring": {}, "remix": {},
	"mix": {}, "version": {}, "edit": {}, "live": {}, "vs": {},
}

// Normalize lowercases text and collapses the variant spellings that should
// compare equal: accents fold away ("Beyoncé" / "beyonce"), "&" and "'n'"
// become "and", the stripped character set is removed, and runs of
// whitespace collapse to single spaces.
//
// Normalize is for equality and substring comparison only; per-character
// reveal logic always operates on the original string.
func Normalize(text string) string {
	s := foldAccents(strings.ToLower(text))
	s = strings.ReplaceAll(s, "&", "and")
	s = andVariant.ReplaceAllString(s, "${1}and${2}")
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedChars, r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// foldAccents strips combining marks after NFD decomposition, so accented
// and plain spellings compare equal.
func foldAccents(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, norm.NFD.String(s))
}

// Mask renders text with every alphabetic character hidden behind Blank
// unless its lower-cased form is in revealed. Non-alphabetic characters and
// whitespace pass through verbatim, so the output always has the same length
// and word count as the input. With autoRevealCommon set, tokens from the
// common-word list are revealed whole.
func Mask(text string, revealed domain.LetterSet, autoRevealCommon bool) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(runes))

	i := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && !unicode.IsSpace(runes[j]) {
			j++
		}
		word := runes[i:j]
		if autoRevealCommon && isCommonWord(word) {
			b.WriteString(string(word))
		} else {
			for _, r := range word {
				switch {
				case !unicode.IsLetter(r), revealed.Has(r):
					b.WriteRune(r)
				default:
					b.WriteRune(Blank)
				}
			}
		}
		i = j
	}
	return b.String()
}

// FullyRevealed reports whether a masked string has no blanks left.
func FullyRevealed(masked string) bool {
	return !strings.ContainsRune(masked, Blank)
}

// RevealLetters adds every alphabetic character of text to the set.
func RevealLetters(text string, revealed domain.LetterSet) {
	for _, r := range text {
		if unicode.IsLetter(r) {
			revealed.Add(r)
		}
	}
}

// Difficulty returns the fraction of alphabetic characters across track and
// artist whose letters are not yet revealed, in [0,1]. Returns 0 when there
// are no alphabetic characters at all.
func Difficulty(track, artist string, revealed domain.LetterSet) float64 {
	total, hidden := 0, 0
	for _, r := range track + artist {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		if !revealed.Has(r) {
			hidden++
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(hidden) / float64(total)
}

// isCommonWord checks the token against the common-word list, ignoring
// punctuation stuck to the token ("the," still counts as "the").
func isCommonWord(word []rune) bool {
	trimmed := strings.TrimFunc(string(word), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	_, ok := commonWords[strings.ToLower(trimmed)]
	return ok
}
