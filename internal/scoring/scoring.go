// Package scoring maps guess outcomes to point deltas using the configured
// point table. Letter guesses are tiered by how frequent the letter is in
// English song titles;"e" is worth less than "q".
package scoring

import (
	"strings"
	"unicode"

	"github.com/soundslike/guesstrack/internal/config"
)

// LetterTier classifies letters by frequency.
type LetterTier string

const (
	TierCommon   LetterTier = "common"
	TierUncommon LetterTier = "uncommon"
	TierRare     LetterTier = "rare"
)

const (
	rareLetters   = "qxzj"
	commonLetters = "eaiotusnr"
)

// TierOf returns the frequency tier for a letter. Anything outside the rare
// and common sets is uncommon.
func TierOf(letter rune) LetterTier {
	l := unicode.ToLower(letter)
	switch {
	case strings.ContainsRune(rareLetters, l):
		return TierRare
	case strings.ContainsRune(commonLetters, l):
		return TierCommon
	default:
		return TierUncommon
	}
}

// LetterPoints returns the award for a correct letter guess.
// Wrong letters score 0; that decision belongs to the classifier.
func LetterPoints(cfg config.GuessConfig, letter rune) int {
	switch TierOf(letter) {
	case TierRare:
		return cfg.PointsRareLetter
	case TierCommon:
		return cfg.PointsCommonLetter
	default:
		return cfg.PointsUncommonLetter
	}
}

// WordPoints returns the flat award for a correct word guess.
func WordPoints(cfg config.GuessConfig) int {
	return cfg.PointsCorrectWord
}

// WrongPoints returns the (negative) penalty for a non-matching word or
// phrase guess.
func WrongPoints(cfg config.GuessConfig) int {
	return cfg.PointsWrongWord
}

// SolvePoints returns the award for a full solve. The first-solver bonus is
// included only when the game was flagged difficulty-bonus eligible at
// creation.
func SolvePoints(cfg config.GuessConfig, firstSolverBonus bool) int {
	points := cfg.PointsCompleteSolve
	if firstSolverBonus {
		points += cfg.PointsFirstSolver
	}
	return points
}

// PartialSolvePoints returns the award for solving one of track/artist under
// separate_solves mode: half the full-solve value.
func PartialSolvePoints(cfg config.GuessConfig) int {
	return cfg.PointsCompleteSolve / 2
}
