package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/GetTogetherComm/GetTogether/internal/config"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

// Repository is the Postgres-backed storage layer. Consumers depend on their
// own narrow interfaces; this type satisfies all of them.
type Repository struct {
	log *slog.Logger
	DB  *sqlx.DB
}

func New(log *slog.Logger, cfg *config.Config) *Repository {
	op := "repository.New()"
	logger := log.With(slog.String("op", op))

	dsn := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		cfg.DBConfig.Host,
		cfg.DBConfig.Port,
		cfg.DBConfig.Name,
		cfg.DBConfig.User,
		cfg.DBConfig.Password,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Error("cannot connect to database", slog.String("error", err.Error()))
		panic(err)
	}

	logger.Info("connected to database",
		slog.String("host", cfg.DBConfig.Host),
		slog.String("name", cfg.DBConfig.Name),
	)

	return &Repository{log: log, DB: db}
}

func (r *Repository) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit repository: %w", ctx.Err())
	default:
		return r.DB.Close()
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

func fromNullString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func fromNullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func fromNullInt(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}

func notFound(err error) error {
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	return err
}
