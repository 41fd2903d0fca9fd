package store

// Schema defines the persisted table shapes. These are shared with the other
// processes that open the same database file, so column names and collations
// must stay stable.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS current_game (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	track TEXT NOT NULL,
	artist TEXT NOT NULL,
	masked_track TEXT NOT NULL,
	masked_artist TEXT NOT NULL,
	revealed_letters TEXT NOT NULL DEFAULT '[]',
	start_time DATETIME NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	max_duration INTEGER NOT NULL,
	game_id INTEGER,
	difficulty_bonus INTEGER NOT NULL DEFAULT 0,
	track_solved INTEGER NOT NULL DEFAULT 0,
	artist_solved INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS guesses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id INTEGER,
	username TEXT COLLATE NOCASE,
	guess TEXT,
	guess_type TEXT,
	correct INTEGER,
	points_awarded INTEGER,
	timestamp DATETIME
);

CREATE TABLE IF NOT EXISTS user_scores (
	username TEXT PRIMARY KEY COLLATE NOCASE,
	session_score INTEGER DEFAULT 0,
	all_time_score INTEGER DEFAULT 0,
	session_solves INTEGER DEFAULT 0,
	all_time_solves INTEGER DEFAULT 0,
	session_guesses INTEGER DEFAULT 0,
	all_time_guesses INTEGER DEFAULT 0,
	last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS game_history (
	game_id INTEGER PRIMARY KEY AUTOINCREMENT,
	track TEXT,
	artist TEXT,
	start_time DATETIME,
	end_time DATETIME,
	end_reason TEXT,
	solver_username TEXT,
	total_guesses INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sessions (
	session_id INTEGER PRIMARY KEY AUTOINCREMENT,
	start_time DATETIME,
	end_time DATETIME
);
`
