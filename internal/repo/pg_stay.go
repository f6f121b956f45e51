package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgStayRepo is the Postgres implementation of StayRepo.
// Each stay is one row; everything but the ID lives in the doc JSONB column.
type pgStayRepo struct {
	db db
}

// NewPgStayRepo constructs a StayRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPgStayRepo(db db) StayRepo {
	return &pgStayRepo{db: db}
}

func (r *pgStayRepo) List(ctx context.Context, f domain.StayFilter) ([]domain.Stay, int64, error) {
	where, args := BuildPgCriteria(f)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM stays WHERE `+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PgStayRepo.List: count: %w", err)
	}

	pageArgs := maps.Clone(args)
	pageArgs["limit"] = domain.StayPageSize
	pageArgs["offset"] = f.Offset()

	q := `
		SELECT id, doc
		FROM stays
		WHERE ` + where + `
		ORDER BY created_at, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pageArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PgStayRepo.List: %w", err)
	}
	defer rows.Close()

	stays := []domain.Stay{}
	for rows.Next() {
		s, err := scanStay(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.PgStayRepo.List: scan: %w", err)
		}
		stays = append(stays, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.PgStayRepo.List: rows: %w", err)
	}
	return stays, total, nil
}

func (r *pgStayRepo) GetByID(ctx context.Context, id string) (domain.Stay, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return domain.Stay{}, fmt.Errorf("repo.PgStayRepo.GetByID: %w", err)
	}

	row := r.db.QueryRow(ctx, `SELECT id, doc FROM stays WHERE id = @id`, pgx.NamedArgs{"id": uid})
	s, err := scanStay(row)
	if err != nil {
		return domain.Stay{}, fmt.Errorf("repo.PgStayRepo.GetByID: %w", err)
	}
	return s, nil
}

func (r *pgStayRepo) Create(ctx context.Context, stay domain.Stay) (domain.Stay, error) {
	stay.ID = ""
	doc, err := json.Marshal(stay)
	if err != nil {
		return domain.Stay{}, fmt.Errorf("repo.PgStayRepo.Create: marshal: %w", err)
	}

	var id pgtype.UUID
	err = r.db.QueryRow(ctx,
		`INSERT INTO stays (doc) VALUES (@doc::jsonb) RETURNING id`,
		pgx.NamedArgs{"doc": doc},
	).Scan(&id)
	if err != nil {
		return domain.Stay{}, fmt.Errorf("repo.PgStayRepo.Create: %w", err)
	}

	stay.ID = uuid.UUID(id.Bytes).String()
	return stay, nil
}

// Update merges the patch into doc at the top level, like MongoDB $set.
func (r *pgStayRepo) Update(ctx context.Context, stay domain.Stay, fields []string) error {
	uid, err := parseUUID(stay.ID)
	if err != nil {
		return fmt.Errorf("repo.PgStayRepo.Update: %w", err)
	}

	patch, err := jsonPatch(stay, fields)
	if err != nil {
		return fmt.Errorf("repo.PgStayRepo.Update: %w", err)
	}
	if len(patch) == 0 {
		return nil
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("repo.PgStayRepo.Update: marshal: %w", err)
	}

	const q = `UPDATE stays SET doc = doc || @patch::jsonb WHERE id = @id`
	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": uid, "patch": raw}); err != nil {
		return fmt.Errorf("repo.PgStayRepo.Update: %w", err)
	}
	return nil
}

func (r *pgStayRepo) Delete(ctx context.Context, id string) error {
	uid, err := parseUUID(id)
	if err != nil {
		return fmt.Errorf("repo.PgStayRepo.Delete: %w", err)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM stays WHERE id = @id`, pgx.NamedArgs{"id": uid}); err != nil {
		return fmt.Errorf("repo.PgStayRepo.Delete: %w", err)
	}
	return nil
}

func (r *pgStayRepo) PushMessage(ctx context.Context, stayID string, msg domain.Message) error {
	uid, err := parseUUID(stayID)
	if err != nil {
		return fmt.Errorf("repo.PgStayRepo.PushMessage: %w", err)
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("repo.PgStayRepo.PushMessage: marshal: %w", err)
	}

	const q = `
		UPDATE stays
		SET doc = jsonb_set(doc, '{msgs}',
			COALESCE(doc->'msgs', '[]'::jsonb) || jsonb_build_array(@msg::jsonb))
		WHERE id = @id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": uid, "msg": raw}); err != nil {
		return fmt.Errorf("repo.PgStayRepo.PushMessage: %w", err)
	}
	return nil
}

func (r *pgStayRepo) PullMessage(ctx context.Context, stayID, msgID string) error {
	uid, err := parseUUID(stayID)
	if err != nil {
		return fmt.Errorf("repo.PgStayRepo.PullMessage: %w", err)
	}

	const q = `
		UPDATE stays
		SET doc = jsonb_set(doc, '{msgs}', COALESCE((
			SELECT jsonb_agg(m.value ORDER BY m.ord)
			FROM jsonb_array_elements(COALESCE(doc->'msgs', '[]'::jsonb)) WITH ORDINALITY AS m(value, ord)
			WHERE m.value->>'id' IS DISTINCT FROM @msg_id
		), '[]'::jsonb))
		WHERE id = @id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": uid, "msg_id": msgID}); err != nil {
		return fmt.Errorf("repo.PgStayRepo.PullMessage: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanStay maps an (id, doc) row into a domain.Stay.
func scanStay(s scanner) (domain.Stay, error) {
	var (
		id  pgtype.UUID
		doc []byte
	)
	if err := s.Scan(&id, &doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stay{}, domain.ErrNotFound
		}
		return domain.Stay{}, err
	}

	var stay domain.Stay
	if err := json.Unmarshal(doc, &stay); err != nil {
		return domain.Stay{}, fmt.Errorf("decode doc: %w", err)
	}
	stay.ID = uuid.UUID(id.Bytes).String()
	return stay, nil
}

func parseUUID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return uid, nil
}
