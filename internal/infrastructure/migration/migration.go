package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

var migrations = []Migration{
	{Name: "create_resumes", Up: execSQL(`
		CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			template_id TEXT NOT NULL DEFAULT 'professional',
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`)},
	{Name: "index_resumes_user", Up: execSQL(`
		CREATE INDEX IF NOT EXISTS resumes_user_id_idx ON resumes (user_id, updated_at DESC);`)},
	{Name: "create_resume_exports", Up: execSQL(`
		CREATE TABLE IF NOT EXISTS resume_exports (
			id UUID PRIMARY KEY,
			resume_id UUID NULL REFERENCES resumes (id) ON DELETE CASCADE,
			template_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			status TEXT NOT NULL,
			filename TEXT NOT NULL,
			pages INTEGER NOT NULL DEFAULT 0,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`)},
}

func execSQL(query string) func(ctx context.Context, pool *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, query)
		return err
	}
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	log.Info("Starting database migrations")
	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			log.Error("Migration failed", zap.String("name", m.Name), zap.Error(err))
			return err
		}
		log.Info("Migration completed", zap.String("name", m.Name))
	}
	log.Info("All migrations completed successfully")
	return nil
}

// SQLiteSchema is the equivalent schema for the local SQLite store.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS resumes (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	template_id TEXT NOT NULL DEFAULT 'professional',
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS resumes_user_id_idx ON resumes (user_id, updated_at DESC);

CREATE TABLE IF NOT EXISTS resume_exports (
	id TEXT PRIMARY KEY,
	resume_id TEXT NULL REFERENCES resumes (id) ON DELETE CASCADE,
	template_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	status TEXT NOT NULL,
	filename TEXT NOT NULL,
	pages INTEGER NOT NULL DEFAULT 0,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`
