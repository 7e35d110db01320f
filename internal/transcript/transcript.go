// Package transcript archives chat messages to SQLite as an append-only audit
// trail. Archived messages are never loaded back into a session.
// If opening the DB or executing queries fails, the archive falls back to
// in-memory storage.
package transcript

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/comigor/coach-go/internal/conversation"
	"github.com/comigor/coach-go/internal/logger"
)

// Entry is one archived message.
type Entry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	MessageID string    `json:"message_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive stores entries in SQLite when available and always keeps an
// in-memory copy.
type Archive struct {
	mu     sync.Mutex
	db      *sql.DB
	memory  []Entry
	unsaved []Entry // failed inserts while db is open
	log     *slog.Logger
}

// Open opens (or creates) the archive at path. It never fails: when SQLite
// is unusable the archive keeps entries in memory only.
func Open(path string) *Archive {
	a := &Archive{log: logger.L.With("component", "transcript", "path", path)}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(10000)")
	if err != nil {
		a.log.Warn("sqlite open failed; using in-memory transcript", "error", err)
		return a
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS messages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        message_id TEXT NOT NULL UNIQUE,
        sender TEXT NOT NULL,
        content TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );`); err != nil {
		a.log.Warn("sqlite table creation failed; using in-memory transcript", "error", err)
		db.Close()
		return a
	}

	a.db = db
	a.log.Info("sqlite transcript initialized")
	return a
}

// Persistent reports whether entries reach SQLite.
func (a *Archive) Persistent() bool {
	return a.db != nil
}

// Save archives e.
func (a *Archive) Save(e Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db != nil {
		_, err := a.db.Exec(`INSERT INTO messages (session_id, message_id, sender, content, created_at) VALUES (?,?,?,?,?);`,
			e.SessionID, e.MessageID, e.Sender, e.Content, e.CreatedAt.UTC())
		if err != nil {
			a.log.Error("failed to store message in sqlite; keeping it in memory", "error", err, "message_id", e.MessageID)
			a.unsaved = append(a.unsaved, e)
		}
	}
	a.memory = append(a.memory, e)
}

// List returns the entries of a session in archive order. Entries whose
// insert failed follow the stored rows.
func (a *Archive) List(sessionID string) []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db != nil {
		out, err := a.query(sessionID)
		if err == nil {
			return append(out, forSession(a.unsaved, sessionID)...)
		}
		a.log.Warn("sqlite query failed; reading in-memory transcript", "error", err)
	}
	return forSession(a.memory, sessionID)
}

func (a *Archive) query(sessionID string) ([]Entry, error) {
	rows, err := a.db.Query(`SELECT id, session_id, message_id, sender, content, created_at FROM messages WHERE session_id = ? ORDER BY id ASC;`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.MessageID, &e.Sender, &e.Content, &e.CreatedAt); err != nil {
			a.log.Warn("skipping unreadable transcript row", "error", err)
			continue
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func forSession(entries []Entry, sessionID string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out
}

// Observer returns a store observer that archives every appended message of
// the given session.
func (a *Archive) Observer(sessionID string) conversation.Observer {
	return func(ev conversation.Event) {
		if ev.Kind != conversation.EventAppended {
			return
		}
		a.Save(Entry{
			SessionID: sessionID,
			MessageID: ev.Message.ID,
			Sender:    string(ev.Message.Sender),
			Content:   ev.Message.Content,
			CreatedAt: ev.Message.Timestamp,
		})
	}
}

// Close releases the database.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
