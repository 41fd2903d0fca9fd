package domain

import (
	"sort"
	"unicode"
)

type GameStatus string

const (
	// GameStatusWaiting is a snapshot-only status reported when no game row exists.
	GameStatusWaiting     GameStatus = "waiting"
	GameStatusActive      GameStatus = "active"
	GameStatusSolved      GameStatus = "solved"
	GameStatusTimeout     GameStatus = "timeout"
	GameStatusTrackChange GameStatus = "track_change"
)

// Terminal reports whether the status is an end state for a game.
func (s GameStatus) Terminal() bool {
	return s == GameStatusSolved || s == GameStatusTimeout || s == GameStatusTrackChange
}

type GuessType string

const (
	GuessTypeLetter         GuessType = "letter"
	GuessTypeWord           GuessType = "word"
	GuessTypeSolve          GuessType = "solve"
	GuessTypeWrong          GuessType = "wrong"
	GuessTypeAlreadyGuessed GuessType = "already_guessed"
	GuessTypeAlreadySolved  GuessType = "already_solved"
)

type SolveMode string

const (
	SolveModeSeparate     SolveMode = "separate_solves"
	SolveModeEither       SolveMode = "either"
	SolveModeBothRequired SolveMode = "both_required"
)

type SolveType string

const (
	SolveTypeNone   SolveType = ""
	SolveTypeTrack  SolveType = "track"
	SolveTypeArtist SolveType = "artist"
	SolveTypeBoth   SolveType = "both"
)

type LeaderboardKind string

const (
	LeaderboardSession LeaderboardKind = "session"
	LeaderboardAllTime LeaderboardKind = "all_time"
)

// LetterSet tracks revealed letters, keyed by the lower-cased letter.
type LetterSet map[string]struct{}

func NewLetterSet(letters ...string) LetterSet {
	s := make(LetterSet, len(letters))
	for _, l := range letters {
		s[l] = struct{}{}
	}
	return s
}

func (s LetterSet) Add(r rune) {
	s[string(unicode.ToLower(r))] = struct{}{}
}

func (s LetterSet) Has(r rune) bool {
	_, ok := s[string(unicode.ToLower(r))]
	return ok
}

// Letters returns the set's members sorted, for stable serialization.
func (s LetterSet) Letters() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s LetterSet) Clone() LetterSet {
	out := make(LetterSet, len(s))
	for l := range s {
		out[l] = struct{}{}
	}
	return out
}
