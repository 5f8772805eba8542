package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/model"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the local, single-user store used by the CLI.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(migration.SQLiteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

const resumeColumns = `id, user_id, title, template_id, content, created_at, updated_at`

func scanResume(scan func(dest ...any) error) (*model.Resume, error) {
	var (
		res          model.Resume
		id, uid, tpl string
		content      string
		created, upd time.Time
	)
	if err := scan(&id, &uid, &res.Title, &tpl, &content, &created, &upd); err != nil {
		return nil, err
	}
	var err error
	if res.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if res.UserID, err = uuid.Parse(uid); err != nil {
		return nil, err
	}
	res.TemplateID = model.ParseTemplateID(tpl)
	res.CreatedAt, res.UpdatedAt = created, upd
	if res.Content, err = decodeContent(content); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *SQLiteStore) GetResume(ctx context.Context, id uuid.UUID) (*model.Resume, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = ?`, id.String())
	res, err := scanResume(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return res, err
}

func (s *SQLiteStore) SaveResume(ctx context.Context, res *model.Resume) error {
	content, err := encodeContent(res.Content)
	if err != nil {
		return err
	}
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now
	res.TemplateID = res.TemplateID.Resolve()

	_, err = s.db.ExecContext(ctx, `INSERT INTO resumes (`+resumeColumns+`)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title, template_id = excluded.template_id, content = excluded.content, updated_at = excluded.updated_at`,
		res.ID.String(), res.UserID.String(), res.Title, string(res.TemplateID), content, res.CreatedAt, res.UpdatedAt)
	return err
}

func (s *SQLiteStore) ListResumes(ctx context.Context, userID uuid.UUID) ([]model.Resume, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE user_id = ? ORDER BY updated_at DESC`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Resume
	for rows.Next() {
		res, err := scanResume(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteResume(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM resumes WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SaveExport(ctx context.Context, j *domain.ExportJob) error {
	var resumeID sql.NullString
	if j.ResumeID != nil {
		resumeID = sql.NullString{String: j.ResumeID.String(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO resume_exports (id, resume_id, template_id, mode, status, filename, pages, size_bytes, error, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET status = excluded.status, pages = excluded.pages, size_bytes = excluded.size_bytes, error = excluded.error, updated_at = excluded.updated_at`,
		j.ID.String(), resumeID, j.TemplateID, j.Mode, j.Status, j.Filename, j.Pages, j.SizeBytes, j.Error, j.CreatedAt, j.UpdatedAt)
	return err
}

func (s *SQLiteStore) ListExports(ctx context.Context, resumeID uuid.UUID) ([]domain.ExportJob, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, resume_id, template_id, mode, status, filename, pages, size_bytes, error, created_at, updated_at
		FROM resume_exports WHERE resume_id = ? ORDER BY created_at DESC`, resumeID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExportJob
	for rows.Next() {
		var (
			j      domain.ExportJob
			id     string
			resume sql.NullString
		)
		if err := rows.Scan(&id, &resume, &j.TemplateID, &j.Mode, &j.Status, &j.Filename, &j.Pages, &j.SizeBytes, &j.Error, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		if j.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if resume.Valid {
			rid, err := uuid.Parse(resume.String)
			if err != nil {
				return nil, err
			}
			j.ResumeID = &rid
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
