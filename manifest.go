package n64tex

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Manifest is a SQLite database recording every texture written, keyed by
// the SHA-1 of the source file.
type Manifest struct {
	db *sql.DB
}

// Entry is a single conversion recorded in a Manifest.
type Entry struct {
	SHA1       string
	Source     string
	Output     string
	Format     string
	Saturation float64
	Contrast   float64
	BlurRadius float64
	Dither     bool
	Colors     int
	Method     string
	KeepAlpha  bool
	Outcome    string
	Created    time.Time
}

// NewManifest opens, creating if necessary, the manifest database in file.
func NewManifest(file string) (*Manifest, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Conversions are recorded from concurrent workers, SQLite only allows
	// one writer at a time
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, path TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, source_id INTEGER NOT NULL, output TEXT NOT NULL UNIQUE, format TEXT NOT NULL, saturation REAL NOT NULL, contrast REAL NOT NULL, blur REAL NOT NULL, dither INTEGER NOT NULL, colors INTEGER NOT NULL, method TEXT NOT NULL, keep_alpha INTEGER NOT NULL, outcome TEXT NOT NULL, created INTEGER NOT NULL, FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Manifest{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (m *Manifest) Close() error {
	return m.db.Close()
}

func (m *Manifest) addSource(sha, path string) (int64, error) {
	var id int64
	switch err := m.db.QueryRow("SELECT id FROM source WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := m.db.Exec("INSERT INTO source (sha1, path) VALUES (?, ?)", sha, path)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if _, err := m.db.Exec("UPDATE source SET path = ? WHERE id = ?", path, id); err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}

// Record stores a successful conversion of the source with the given SHA-1.
// Converting to the same output again replaces the previous entry.
func (m *Manifest) Record(sha string, r Result, p Parameters) error {
	source, err := m.addSource(sha, r.Source)
	if err != nil {
		return err
	}

	if _, err := m.db.Exec("INSERT OR REPLACE INTO conversion (source_id, output, format, saturation, contrast, blur, dither, colors, method, keep_alpha, outcome, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		source, r.Output, p.Format.Name, p.Saturation, p.Contrast, p.BlurRadius, p.Dither, p.Colors, p.Method.String(), p.KeepAlpha, r.Outcome.String(), time.Now().Unix()); err != nil {
		return err
	}

	return nil
}

const selectEntries = "SELECT s.sha1, s.path, c.output, c.format, c.saturation, c.contrast, c.blur, c.dither, c.colors, c.method, c.keep_alpha, c.outcome, c.created FROM conversion AS c JOIN source AS s ON c.source_id = s.id"

func (m *Manifest) entries(query string, args ...interface{}) ([]Entry, error) {
	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.SHA1, &e.Source, &e.Output, &e.Format, &e.Saturation, &e.Contrast, &e.BlurRadius, &e.Dither, &e.Colors, &e.Method, &e.KeepAlpha, &e.Outcome, &created); err != nil {
			return nil, err
		}
		e.Created = time.Unix(created, 0)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// History returns every recorded conversion, oldest first.
func (m *Manifest) History() ([]Entry, error) {
	return m.entries(selectEntries + " ORDER BY c.created, c.id")
}

// Lookup returns the conversions recorded for the source with the given
// SHA-1, oldest first.
func (m *Manifest) Lookup(sha string) ([]Entry, error) {
	return m.entries(selectEntries+" WHERE s.sha1 = ? ORDER BY c.created, c.id", sha)
}
