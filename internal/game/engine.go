// Package game implements the guess classifier and solve-mode state machine.
// Evaluate is a pure state transition: given the current game and one raw
// guess it decides the guess type, updates revealed letters, masks and the
// per-objective solved flags, and reports whether the game just completed.
// Persistence and status transitions belong to the lifecycle controller.
package game

import (
	"strings"
	"unicode"

	"github.com/soundslike/guesstrack/internal/config"
	"github.com/soundslike/guesstrack/internal/domain"
	"github.com/soundslike/guesstrack/internal/masking"
	"github.com/soundslike/guesstrack/internal/scoring"
)

// Evaluate classifies rawGuess against g, mutating g's revealed letters,
// masks and solved flags, and returns the scored result.
func Evaluate(g *domain.Game, cfg config.GuessConfig, rawGuess string) domain.GuessResult {
	guess := strings.TrimSpace(rawGuess)
	res := domain.GuessResult{GuessType: domain.GuessTypeWrong}

	// Completed before this guess, e.g. a grace-period guess against a game
	// that was already solved. Nothing below may re-award the solve.
	wasComplete := boardComplete(g)

	runes := []rune(strings.ToLower(guess))
	if len(runes) == 1 && unicode.IsLetter(runes[0]) {
		evaluateLetter(g, cfg, runes[0], &res)
	} else if len(runes) > 0 {
		evaluatePhrase(g, cfg, guess, &res)
	}

	g.MaskedTrack = masking.Mask(g.Track, g.RevealedLetters, cfg.AutoRevealCommonWords)
	g.MaskedArtist = masking.Mask(g.Artist, g.RevealedLetters, cfg.AutoRevealCommonWords)

	// A guess that leaves no blanks anywhere ends the game even if it was
	// only a letter or word: the guesser who completes the board gets the
	// solve credit on top of whatever the guess itself was worth.
	if !wasComplete && boardComplete(g) {
		if !res.Solved {
			res.Solved = true
			if res.GuessType != domain.GuessTypeSolve {
				res.Points += scoring.SolvePoints(cfg, g.DifficultyBonus)
				res.GuessType = domain.GuessTypeSolve
			}
		}
		res.SolveType = domain.SolveTypeBoth
		g.TrackSolved = true
		g.ArtistSolved = true
	}

	res.MaskedTrack = g.MaskedTrack
	res.MaskedArtist = g.MaskedArtist
	res.TrackSolved = g.TrackSolved
	res.ArtistSolved = g.ArtistSolved
	return res
}

// boardComplete reports whether every letter of both objectives has actually
// been guessed. Auto-revealed common words are display-only, so the check
// always masks with auto-reveal off: "The End" with only e/n/d guessed is
// not complete even when the display shows "The _nd" as "The End".
func boardComplete(g *domain.Game) bool {
	return masking.FullyRevealed(masking.Mask(g.Track, g.RevealedLetters, false)) &&
		masking.FullyRevealed(masking.Mask(g.Artist, g.RevealedLetters, false))
}

// evaluateLetter handles single alphabetic character guesses. Wrong letters
// score 0 rather than a penalty.
func evaluateLetter(g *domain.Game, cfg config.GuessConfig, letter rune, res *domain.GuessResult) {
	res.GuessType = domain.GuessTypeLetter

	if g.RevealedLetters.Has(letter) {
		res.GuessType = domain.GuessTypeAlreadyGuessed
		res.AlreadyGuessed = true
		return
	}

	haystack := strings.ToLower(g.Track + g.Artist)
	if strings.ContainsRune(haystack, letter) {
		g.RevealedLetters.Add(letter)
		res.Correct = true
		res.Points = scoring.LetterPoints(cfg, letter)
	}
}

// evaluatePhrase handles multi-character guesses under the configured solve
// mode, falling through to a word-boundary substring check when the guess is
// not a full (or partial) solve.
func evaluatePhrase(g *domain.Game, cfg config.GuessConfig, guess string, res *domain.GuessResult) {
	ng := masking.Normalize(guess)
	nt := masking.Normalize(g.Track)
	na := masking.Normalize(g.Artist)

	switch cfg.SolveMode {
	case domain.SolveModeEither:
		if ng == nt || ng == na {
			if g.TrackSolved && g.ArtistSolved {
				res.GuessType = domain.GuessTypeAlreadySolved
				return
			}
			fullSolve(g, cfg, res)
			return
		}

	case domain.SolveModeBothRequired:
		gTokens := strings.Fields(ng)
		if containsTokenRun(gTokens, strings.Fields(nt)) && containsTokenRun(gTokens, strings.Fields(na)) {
			if g.TrackSolved && g.ArtistSolved {
				res.GuessType = domain.GuessTypeAlreadySolved
				return
			}
			fullSolve(g, cfg, res)
			return
		}

	default: // separate_solves
		trackMatch := ng == nt
		artistMatch := ng == na
		switch {
		case trackMatch && !g.TrackSolved:
			partialSolve(g, cfg, res, domain.SolveTypeTrack)
			return
		case artistMatch && !g.ArtistSolved:
			partialSolve(g, cfg, res, domain.SolveTypeArtist)
			return
		case trackMatch || artistMatch:
			res.GuessType = domain.GuessTypeAlreadySolved
			return
		}
	}

	evaluateWord(g, cfg, guess, ng, nt, na, res)
}

// fullSolve reveals both objectives and awards the complete-solve points,
// with the first-solver bonus when the game was flagged eligible.
func fullSolve(g *domain.Game, cfg config.GuessConfig, res *domain.GuessResult) {
	masking.RevealLetters(g.Track, g.RevealedLetters)
	masking.RevealLetters(g.Artist, g.RevealedLetters)
	g.TrackSolved = true
	g.ArtistSolved = true

	res.Correct = true
	res.Solved = true
	res.GuessType = domain.GuessTypeSolve
	res.SolveType = domain.SolveTypeBoth
	res.Points = scoring.SolvePoints(cfg, g.DifficultyBonus)
}

// partialSolve marks one objective solved under separate_solves mode. The
// first-solver bonus lands with the guess that completes the second half.
func partialSolve(g *domain.Game, cfg config.GuessConfig, res *domain.GuessResult, which domain.SolveType) {
	if which == domain.SolveTypeTrack {
		g.TrackSolved = true
		masking.RevealLetters(g.Track, g.RevealedLetters)
	} else {
		g.ArtistSolved = true
		masking.RevealLetters(g.Artist, g.RevealedLetters)
	}

	res.Correct = true
	res.GuessType = domain.GuessTypeSolve
	res.Points = scoring.PartialSolvePoints(cfg)
	res.SolveType = which

	if g.TrackSolved && g.ArtistSolved {
		res.Solved = true
		res.SolveType = domain.SolveTypeBoth
		if g.DifficultyBonus {
			res.Points += cfg.PointsFirstSolver
		}
	}
}

// evaluateWord matches the guess's token sequence against whole tokens of
// the normalized track or artist. Matches whose letters are all revealed
// already score nothing; fresh matches reveal exactly the letters present in
// the raw guess text.
func evaluateWord(g *domain.Game, cfg config.GuessConfig, rawGuess, ng, nt, na string, res *domain.GuessResult) {
	gTokens := strings.Fields(ng)
	matched := len(gTokens) > 0 &&
		(containsTokenRun(strings.Fields(nt), gTokens) || containsTokenRun(strings.Fields(na), gTokens))
	if !matched {
		res.GuessType = domain.GuessTypeWrong
		res.Points = scoring.WrongPoints(cfg)
		return
	}

	if allLettersRevealed(rawGuess, g.RevealedLetters) {
		res.GuessType = domain.GuessTypeAlreadyGuessed
		res.AlreadyGuessed = true
		return
	}

	masking.RevealLetters(rawGuess, g.RevealedLetters)
	res.Correct = true
	res.GuessType = domain.GuessTypeWord
	res.Points = scoring.WordPoints(cfg)
}

// containsTokenRun reports whether needle appears as a consecutive run of
// whole tokens inside haystack. This is what makes "on" match "Out on the
// Catwalk" while "in" does not match "Simple Minds".
func containsTokenRun(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func allLettersRevealed(text string, revealed domain.LetterSet) bool {
	for _, r := range text {
		if unicode.IsLetter(r) && !revealed.Has(r) {
			return false
		}
	}
	return true
}
