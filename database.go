package main

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PlayerRow represents a player record in the database
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// StatsRow represents persistent player stats
type StatsRow struct {
	PlayerID     int64
	Kills        int
	Deaths       int
	WavesCleared int
	BossKills    int
	XP           int
	Money        int
	Level        int
}

// ProfileRow is the full persisted profile loaded on join
type ProfileRow struct {
	Username string
	Level    int
	XP       int
	Money    int
	Kills    int
	Deaths   int
	Waves    int
	Bosses   int
	Unlocks  []string
	Limits   map[string]float64
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		player_id INTEGER PRIMARY KEY REFERENCES players(id),
		kills INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0,
		waves_cleared INTEGER NOT NULL DEFAULT 0,
		boss_kills INTEGER NOT NULL DEFAULT 0,
		xp INTEGER NOT NULL DEFAULT 0,
		money INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS unlocks (
		player_id INTEGER NOT NULL REFERENCES players(id),
		title_id TEXT NOT NULL,
		unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (player_id, title_id)
	);

	CREATE TABLE IF NOT EXISTS limits (
		player_id INTEGER NOT NULL REFERENCES players(id),
		key TEXT NOT NULL,
		value REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (player_id, key)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id INTEGER,
		session_id TEXT,
		data TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
	CREATE INDEX IF NOT EXISTS idx_events_type_time ON analytics_events(event_type, created_at);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// CreatePlayer creates a new player account (returns player ID)
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	// Create stats row
	_, err = db.conn.Exec("INSERT INTO stats (player_id) VALUES (?)", id)
	return id, err
}

// CreateGuest creates a guest player (no password)
func (db *DB) CreateGuest(username string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, is_guest) VALUES (?, 1)",
		username,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec("INSERT INTO stats (player_id) VALUES (?)", id)
	return id, err
}

// GetPlayerByUsername returns a player by username
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE username = ?",
		username,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetPlayerByID returns a player by ID
func (db *DB) GetPlayerByID(id int64) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE id = ?",
		id,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetStats returns player stats
func (db *DB) GetStats(playerID int64) (*StatsRow, error) {
	row := db.conn.QueryRow(
		"SELECT player_id, kills, deaths, waves_cleared, boss_kills, xp, money, level FROM stats WHERE player_id = ?",
		playerID,
	)
	s := &StatsRow{}
	err := row.Scan(&s.PlayerID, &s.Kills, &s.Deaths, &s.WavesCleared, &s.BossKills, &s.XP, &s.Money, &s.Level)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// AddKill increments the persistent kill counter
func (db *DB) AddKill(playerID int64) error {
	_, err := db.conn.Exec("UPDATE stats SET kills = kills + 1 WHERE player_id = ?", playerID)
	return err
}

// AddDeath increments the persistent death counter
func (db *DB) AddDeath(playerID int64) error {
	_, err := db.conn.Exec("UPDATE stats SET deaths = deaths + 1 WHERE player_id = ?", playerID)
	return err
}

// AddWaveCleared increments the persistent cleared-wave counter
func (db *DB) AddWaveCleared(playerID int64) error {
	_, err := db.conn.Exec("UPDATE stats SET waves_cleared = waves_cleared + 1 WHERE player_id = ?", playerID)
	return err
}

// AddBossKill increments the persistent boss-kill counter
func (db *DB) AddBossKill(playerID int64) error {
	_, err := db.conn.Exec("UPDATE stats SET boss_kills = boss_kills + 1 WHERE player_id = ?", playerID)
	return err
}

// AddXP adds an xp and money award, then recomputes the stored level
// from the new total. Returns (newXP, newLevel).
func (db *DB) AddXP(playerID int64, xp, money int) (int, int, error) {
	_, err := db.conn.Exec(
		"UPDATE stats SET xp = xp + ?, money = money + ? WHERE player_id = ?",
		xp, money, playerID,
	)
	if err != nil {
		return 0, 0, err
	}

	var totalXP int
	err = db.conn.QueryRow("SELECT xp FROM stats WHERE player_id = ?", playerID).Scan(&totalXP)
	if err != nil {
		return 0, 0, err
	}
	newLevel := CalculateLevel(totalXP)

	_, err = db.conn.Exec("UPDATE stats SET level = ? WHERE player_id = ?", newLevel, playerID)
	return totalXP, newLevel, err
}

// LoadProfile loads the full persisted profile for a player
func (db *DB) LoadProfile(playerID int64) (*ProfileRow, error) {
	p, err := db.GetPlayerByID(playerID)
	if err != nil || p == nil {
		return nil, err
	}
	s, err := db.GetStats(playerID)
	if err != nil {
		return nil, err
	}
	profile := &ProfileRow{
		Username: p.Username,
		Level:    1,
		Limits:   make(map[string]float64),
	}
	if s != nil {
		profile.Level = s.Level
		profile.XP = s.XP
		profile.Money = s.Money
		profile.Kills = s.Kills
		profile.Deaths = s.Deaths
		profile.Waves = s.WavesCleared
		profile.Bosses = s.BossKills
	}

	profile.Unlocks, err = db.GetTitles(playerID)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Query("SELECT key, value FROM limits WHERE player_id = ?", playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		profile.Limits[key] = value
	}
	return profile, rows.Err()
}

// GetTitles returns the unlocked title ids for a player
func (db *DB) GetTitles(playerID int64) ([]string, error) {
	rows, err := db.conn.Query("SELECT title_id FROM unlocks WHERE player_id = ?", playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, rows.Err()
}

// UnlockTitle records a title unlock. Returns true if it was new.
func (db *DB) UnlockTitle(playerID int64, titleID string) (bool, error) {
	res, err := db.conn.Exec(
		"INSERT OR IGNORE INTO unlocks (player_id, title_id) VALUES (?, ?)",
		playerID, titleID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetLimit stores an upgrade cap for a player
func (db *DB) SetLimit(playerID int64, key string, value float64) error {
	_, err := db.conn.Exec(
		"INSERT INTO limits (player_id, key, value) VALUES (?, ?, ?) ON CONFLICT(player_id, key) DO UPDATE SET value = excluded.value",
		playerID, key, value,
	)
	return err
}

// GetSetting returns a server setting, or "" if absent
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting stores a server setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// GetLeaderboard returns top players sorted by the given field
func (db *DB) GetLeaderboard(orderBy string, limit int) ([]LeaderboardEntry, error) {
	// Whitelist valid order columns
	validCols := map[string]string{
		"kills": "s.kills", "waves": "s.waves_cleared", "level": "s.level",
		"xp": "s.xp", "bosses": "s.boss_kills",
		"kd": "CASE WHEN s.deaths > 0 THEN CAST(s.kills AS REAL)/s.deaths ELSE s.kills END",
	}
	col, ok := validCols[orderBy]
	if !ok {
		col = "s.xp"
	}

	query := `SELECT p.username, s.level, s.xp, s.kills, s.deaths, s.waves_cleared, s.boss_kills
		FROM stats s JOIN players p ON p.id = s.player_id
		WHERE p.is_guest = 0
		ORDER BY ` + col + ` DESC LIMIT ?`

	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Level, &e.XP, &e.Kills, &e.Deaths, &e.Waves, &e.Bosses); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	Kills    int    `json:"kills"`
	Deaths   int    `json:"deaths"`
	Waves    int    `json:"waves"`
	Bosses   int    `json:"bosses"`
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}
