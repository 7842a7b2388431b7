package datasource

import (
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/sheetwork/pkg/metrics"
	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// SQLiteStore persists the sheet state in a SQLite database. Tree position
// is stored in a seq column separate from the order field: order values can
// carry gaps after deletes, so sibling sequence cannot be reconstructed
// from order alone.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sheet (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	author      TEXT NOT NULL DEFAULT '',
	followers   INTEGER NOT NULL DEFAULT 0,
	banner      TEXT NOT NULL DEFAULT '',
	link        TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS topics (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	order_idx INTEGER NOT NULL,
	seq       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS subtopics (
	id        TEXT PRIMARY KEY,
	topic_id  TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
	name      TEXT NOT NULL,
	order_idx INTEGER NOT NULL,
	seq       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS questions (
	id           TEXT PRIMARY KEY,
	subtopic_id  TEXT NOT NULL REFERENCES subtopics(id) ON DELETE CASCADE,
	title        TEXT NOT NULL,
	difficulty   TEXT NOT NULL,
	problem_url  TEXT NOT NULL DEFAULT '',
	resource_url TEXT NOT NULL DEFAULT '',
	tags         TEXT NOT NULL DEFAULT '[]',
	is_solved    INTEGER NOT NULL DEFAULT 0,
	is_starred   INTEGER NOT NULL DEFAULT 0,
	notes        TEXT NOT NULL DEFAULT '',
	order_idx    INTEGER NOT NULL,
	seq          INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS prefs (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// OpenSQLiteStore opens (creating if necessary) a sheet database.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Save replaces the stored state with st inside a single transaction.
// Loading is always persisted as false.
func (s *SQLiteStore) Save(st model.State) error {
	defer metrics.Timer(metrics.StateSave)()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"questions", "subtopics", "topics", "sheet", "prefs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	sheetTags, err := json.Marshal(st.Sheet.Tags)
	if err != nil {
		return fmt.Errorf("marshaling sheet tags: %w", err)
	}
	_, err = tx.Exec(
		`INSERT INTO sheet (id, name, description, author, followers, banner, link, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		st.Sheet.ID, st.Sheet.Name, st.Sheet.Description, st.Sheet.Author,
		st.Sheet.Followers, st.Sheet.Banner, st.Sheet.Link, string(sheetTags),
	)
	if err != nil {
		return fmt.Errorf("inserting sheet: %w", err)
	}

	for ti, t := range st.Topics {
		if _, err := tx.Exec(
			`INSERT INTO topics (id, name, order_idx, seq) VALUES (?, ?, ?, ?)`,
			t.ID, t.Name, t.Order, ti,
		); err != nil {
			return fmt.Errorf("inserting topic %s: %w", t.ID, err)
		}
		for si, sub := range t.Subtopics {
			if _, err := tx.Exec(
				`INSERT INTO subtopics (id, topic_id, name, order_idx, seq) VALUES (?, ?, ?, ?, ?)`,
				sub.ID, t.ID, sub.Name, sub.Order, si,
			); err != nil {
				return fmt.Errorf("inserting subtopic %s: %w", sub.ID, err)
			}
			for qi, q := range sub.Questions {
				qTags, err := json.Marshal(q.Tags)
				if err != nil {
					return fmt.Errorf("marshaling tags for question %s: %w", q.ID, err)
				}
				if _, err := tx.Exec(
					`INSERT INTO questions
					 (id, subtopic_id, title, difficulty, problem_url, resource_url,
					  tags, is_solved, is_starred, notes, order_idx, seq)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					q.ID, sub.ID, q.Title, string(q.Difficulty), q.ProblemURL, q.ResourceURL,
					string(qTags), boolInt(q.IsSolved), boolInt(q.IsStarred), q.Notes, q.Order, qi,
				); err != nil {
					return fmt.Errorf("inserting question %s: %w", q.ID, err)
				}
			}
		}
	}

	if err := savePrefs(tx, st); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

func savePrefs(tx *sql.Tx, st model.State) error {
	expandedTopics, err := json.Marshal(st.ExpandedTopics)
	if err != nil {
		return fmt.Errorf("marshaling expanded topics: %w", err)
	}
	expandedSubs, err := json.Marshal(st.ExpandedSubtopics)
	if err != nil {
		return fmt.Errorf("marshaling expanded subtopics: %w", err)
	}
	prefs := map[string]string{
		"theme":              st.Theme,
		"expanded_topics":    string(expandedTopics),
		"expanded_subtopics": string(expandedSubs),
	}
	for k, v := range prefs {
		if _, err := tx.Exec(`INSERT INTO prefs (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("inserting pref %s: %w", k, err)
		}
	}
	return nil
}

// Load reads the full state back, reconstructing sibling sequence from the
// seq column.
func (s *SQLiteStore) Load() (model.State, error) {
	defer metrics.Timer(metrics.StateLoad)()

	var st model.State

	var sheetTags string
	err := s.db.QueryRow(
		`SELECT id, name, description, author, followers, banner, link, tags FROM sheet`,
	).Scan(&st.Sheet.ID, &st.Sheet.Name, &st.Sheet.Description, &st.Sheet.Author,
		&st.Sheet.Followers, &st.Sheet.Banner, &st.Sheet.Link, &sheetTags)
	switch {
	case err == sql.ErrNoRows:
		// Empty database: no sheet yet.
	case err != nil:
		return model.State{}, fmt.Errorf("loading sheet: %w", err)
	default:
		st.Sheet.Tags = parseJSONStringArray(sheetTags)
	}

	topics, err := s.loadTopics()
	if err != nil {
		return model.State{}, err
	}
	st.Topics = topics

	if err := s.loadPrefs(&st); err != nil {
		return model.State{}, err
	}
	if st.ExpandedTopics == nil {
		st.ExpandedTopics = make(map[string]bool)
	}
	if st.ExpandedSubtopics == nil {
		st.ExpandedSubtopics = make(map[string]bool)
	}
	st.Loading = false
	return st, nil
}

func (s *SQLiteStore) loadTopics() ([]model.Topic, error) {
	rows, err := s.db.Query(`SELECT id, name, order_idx FROM topics ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("loading topics: %w", err)
	}
	defer rows.Close()

	var topics []model.Topic
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Order); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topics: %w", err)
	}

	for i := range topics {
		subs, err := s.loadSubtopics(topics[i].ID)
		if err != nil {
			return nil, err
		}
		topics[i].Subtopics = subs
	}
	return topics, nil
}

func (s *SQLiteStore) loadSubtopics(topicID string) ([]model.Subtopic, error) {
	rows, err := s.db.Query(
		`SELECT id, name, order_idx FROM subtopics WHERE topic_id = ? ORDER BY seq`, topicID)
	if err != nil {
		return nil, fmt.Errorf("loading subtopics: %w", err)
	}
	defer rows.Close()

	var subs []model.Subtopic
	for rows.Next() {
		var sub model.Subtopic
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Order); err != nil {
			return nil, fmt.Errorf("scanning subtopic: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtopics: %w", err)
	}

	for i := range subs {
		qs, err := s.loadQuestions(subs[i].ID)
		if err != nil {
			return nil, err
		}
		subs[i].Questions = qs
	}
	return subs, nil
}

func (s *SQLiteStore) loadQuestions(subtopicID string) ([]model.Question, error) {
	rows, err := s.db.Query(
		`SELECT id, title, difficulty, problem_url, resource_url, tags,
		        is_solved, is_starred, notes, order_idx
		 FROM questions WHERE subtopic_id = ? ORDER BY seq`, subtopicID)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}
	defer rows.Close()

	var qs []model.Question
	for rows.Next() {
		var q model.Question
		var difficulty, tags string
		var solved, starred int
		if err := rows.Scan(&q.ID, &q.Title, &difficulty, &q.ProblemURL, &q.ResourceURL,
			&tags, &solved, &starred, &q.Notes, &q.Order); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		q.Difficulty = model.Difficulty(difficulty)
		q.Tags = parseJSONStringArray(tags)
		q.IsSolved = solved != 0
		q.IsStarred = starred != 0
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating questions: %w", err)
	}
	return qs, nil
}

func (s *SQLiteStore) loadPrefs(st *model.State) error {
	rows, err := s.db.Query(`SELECT key, value FROM prefs`)
	if err != nil {
		return fmt.Errorf("loading prefs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return fmt.Errorf("scanning pref: %w", err)
		}
		switch k {
		case "theme":
			st.Theme = v
		case "expanded_topics":
			// Best-effort: a corrupt pref blob falls back to empty.
			_ = json.Unmarshal([]byte(v), &st.ExpandedTopics)
		case "expanded_subtopics":
			_ = json.Unmarshal([]byte(v), &st.ExpandedSubtopics)
		}
	}
	return rows.Err()
}

// CountQuestions returns the number of stored questions.
func (s *SQLiteStore) CountQuestions() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseJSONStringArray parses a JSON array of strings, tolerating null and
// empty input.
func parseJSONStringArray(s string) []string {
	if s == "" || s == "null" || s == "[]" {
		return nil
	}
	var result []string
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		return nil
	}
	return result
}
