package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"pdfcast/models"
)

// ErrNotFound is returned when no project exists for the given id.
var ErrNotFound = errors.New("project not found")

// SQLiteStore persists projects and their podcasts.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping reports whether the database connection is alive.
func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS projects (
        id TEXT PRIMARY KEY, -- UUID
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL,
        pdf_filename TEXT NOT NULL DEFAULT '',
        pdf_path TEXT NOT NULL DEFAULT '',
        pdf_text TEXT NOT NULL DEFAULT '',
        chunks_json TEXT NOT NULL DEFAULT '[]',
        index_path TEXT NOT NULL DEFAULT ''
    );

    CREATE TABLE IF NOT EXISTS podcasts (
        id TEXT PRIMARY KEY, -- UUID
        project_id TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        topic TEXT NOT NULL DEFAULT '',
        duration TEXT NOT NULL,
        script TEXT NOT NULL,
        audio_path TEXT NOT NULL,
        audio_filename TEXT NOT NULL,
        segment_count INTEGER NOT NULL,
        FOREIGN KEY (project_id) REFERENCES projects (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// CreateProject inserts a new, empty project record.
func (s *SQLiteStore) CreateProject(id, name, description string) (*models.Project, error) {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		"INSERT INTO projects (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, name, description, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}
	return &models.Project{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Podcasts:    []models.Podcast{},
	}, nil
}

// GetProject loads a project and its podcasts by id.
func (s *SQLiteStore) GetProject(id string) (*models.Project, error) {
	var p models.Project
	var chunksJSON string
	err := s.db.QueryRow(
		`SELECT id, name, description, created_at, updated_at,
                pdf_filename, pdf_path, pdf_text, chunks_json, index_path
         FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt,
		&p.PDFFilename, &p.PDFPath, &p.PDFText, &chunksJSON, &p.IndexPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query project: %w", err)
	}

	if err := json.Unmarshal([]byte(chunksJSON), &p.Chunks); err != nil {
		return nil, fmt.Errorf("failed to decode stored chunks: %w", err)
	}

	podcasts, err := s.GetPodcasts(id)
	if err != nil {
		return nil, err
	}
	p.Podcasts = podcasts
	return &p, nil
}

// ListProjects returns a summary row per project.
func (s *SQLiteStore) ListProjects() ([]models.ProjectSummary, error) {
	rows, err := s.db.Query(
		`SELECT p.id, p.name, p.description, p.created_at, p.pdf_filename,
                (SELECT COUNT(*) FROM podcasts WHERE project_id = p.id)
         FROM projects p ORDER BY p.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	summaries := []models.ProjectSummary{}
	for rows.Next() {
		var sum models.ProjectSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Description, &sum.CreatedAt,
			&sum.PDFFilename, &sum.PodcastCount); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// UpdateProjectPDF stores the results of upload processing in a single
// transaction: filename, path, extracted text, chunks, and index path are
// set together or not at all.
func (s *SQLiteStore) UpdateProjectPDF(id, filename, path, text string, chunks []models.Chunk, indexPath string) error {
	chunksJSON, err := json.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("failed to encode chunks: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE projects
         SET pdf_filename = ?, pdf_path = ?, pdf_text = ?, chunks_json = ?, index_path = ?, updated_at = ?
         WHERE id = ?`,
		filename, path, text, string(chunksJSON), indexPath, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// AddPodcast appends a podcast record to its project.
func (s *SQLiteStore) AddPodcast(p models.Podcast) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO podcasts (id, project_id, created_at, topic, duration, script, audio_path, audio_filename, segment_count)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ProjectID, p.CreatedAt, p.Topic, p.Duration, p.Script, p.AudioPath, p.AudioFilename, p.SegmentCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert podcast: %w", err)
	}
	_, err = tx.Exec("UPDATE projects SET updated_at = ? WHERE id = ?", time.Now().UTC(), p.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to touch project: %w", err)
	}
	return tx.Commit()
}

// GetPodcasts returns all podcasts for a project, oldest first.
func (s *SQLiteStore) GetPodcasts(projectID string) ([]models.Podcast, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, created_at, topic, duration, script, audio_path, audio_filename, segment_count
         FROM podcasts WHERE project_id = ? ORDER BY created_at ASC`, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query podcasts: %w", err)
	}
	defer rows.Close()

	podcasts := []models.Podcast{}
	for rows.Next() {
		var p models.Podcast
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.CreatedAt, &p.Topic, &p.Duration,
			&p.Script, &p.AudioPath, &p.AudioFilename, &p.SegmentCount); err != nil {
			return nil, fmt.Errorf("failed to scan podcast row: %w", err)
		}
		podcasts = append(podcasts, p)
	}
	return podcasts, rows.Err()
}

// DeleteProject removes a project and its podcasts, returning the deleted
// record so the caller can clean up its files.
func (s *SQLiteStore) DeleteProject(id string) (*models.Project, error) {
	project, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM podcasts WHERE project_id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete podcasts: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM projects WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delete: %w", err)
	}
	return project, nil
}

// CountProjects returns the total number of projects.
func (s *SQLiteStore) CountProjects() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}
