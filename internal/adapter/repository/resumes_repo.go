package repository

import (
	"context"
	"errors"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PostgresStore keeps resumes and their export history in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (r *PostgresStore) GetResume(ctx context.Context, id uuid.UUID) (*model.Resume, error) {
	var (
		res     model.Resume
		tpl     string
		content string
	)
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, title, template_id, content, created_at, updated_at
		FROM resumes WHERE id = $1`, id).
		Scan(&res.ID, &res.UserID, &res.Title, &tpl, &content, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	res.TemplateID = model.ParseTemplateID(tpl)
	if res.Content, err = decodeContent(content); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *PostgresStore) SaveResume(ctx context.Context, res *model.Resume) error {
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

	_, err = r.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, title, template_id, content, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, template_id = EXCLUDED.template_id, content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`,
		res.ID, res.UserID, res.Title, string(res.TemplateID), content, res.CreatedAt, res.UpdatedAt)
	return err
}

func (r *PostgresStore) ListResumes(ctx context.Context, userID uuid.UUID) ([]model.Resume, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, title, template_id, content, created_at, updated_at
		FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Resume
	for rows.Next() {
		var (
			res     model.Resume
			tpl     string
			content string
		)
		if err := rows.Scan(&res.ID, &res.UserID, &res.Title, &tpl, &content, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		res.TemplateID = model.ParseTemplateID(tpl)
		if res.Content, err = decodeContent(content); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PostgresStore) DeleteResume(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresStore) SaveExport(ctx context.Context, j *domain.ExportJob) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO resume_exports (id, resume_id, template_id, mode, status, filename, pages, size_bytes, error, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, pages = EXCLUDED.pages, size_bytes = EXCLUDED.size_bytes, error = EXCLUDED.error, updated_at = EXCLUDED.updated_at`,
		j.ID, j.ResumeID, j.TemplateID, j.Mode, j.Status, j.Filename, j.Pages, j.SizeBytes, j.Error, j.CreatedAt, j.UpdatedAt)
	return err
}

func (r *PostgresStore) ListExports(ctx context.Context, resumeID uuid.UUID) ([]domain.ExportJob, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, resume_id, template_id, mode, status, filename, pages, size_bytes, error, created_at, updated_at
		FROM resume_exports WHERE resume_id = $1 ORDER BY created_at DESC`, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExportJob
	for rows.Next() {
		var j domain.ExportJob
		if err := rows.Scan(&j.ID, &j.ResumeID, &j.TemplateID, &j.Mode, &j.Status, &j.Filename, &j.Pages, &j.SizeBytes, &j.Error, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *PostgresStore) Close() error {
	r.pool.Close()
	return nil
}
