// AngelaMos | 2026
// store_postgres.go

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/markustips/biblenotelm-backend/internal/core"
)

type postgresStore struct {
	db core.DBTX
}

func NewPostgresStore(db core.DBTX) Store {
	return &postgresStore{db: db}
}

type entryRow struct {
	ID                 string    `db:"id"`
	IdentityID         string    `db:"identity_id"`
	Action             string    `db:"action"`
	ResourceCollection string    `db:"resource_collection"`
	ResourceID         *string   `db:"resource_id"`
	Result             string    `db:"result"`
	Metadata           []byte    `db:"metadata"`
	CreatedAt          time.Time `db:"created_at"`
}

func (s *postgresStore) Insert(ctx context.Context, entry *Entry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_entries
			(id, identity_id, action, resource_collection, resource_id,
			 result, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.IdentityID,
		entry.Action,
		entry.ResourceCollection,
		entry.ResourceID,
		entry.Result,
		metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

func (s *postgresStore) List(
	ctx context.Context,
	params ListParams,
) ([]Entry, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.IdentityID != "" {
		conditions = append(
			conditions,
			fmt.Sprintf("identity_id = $%d", argIdx),
		)
		args = append(args, params.IdentityID)
		argIdx++
	}

	if params.Action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argIdx))
		args = append(args, params.Action)
		argIdx++
	}

	if params.Result != "" {
		conditions = append(conditions, fmt.Sprintf("result = $%d", argIdx))
		args = append(args, params.Result)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM audit_entries WHERE %s",
		whereClause,
	)
	var total int
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, identity_id, action, resource_collection, resource_id,
		       result, metadata, created_at
		FROM audit_entries
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var rows []entryRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry := Entry{
			ID:                 row.ID,
			IdentityID:         row.IdentityID,
			Action:             row.Action,
			ResourceCollection: row.ResourceCollection,
			ResourceID:         row.ResourceID,
			Result:             Result(row.Result),
			CreatedAt:          row.CreatedAt,
		}
		if len(row.Metadata) > 0 {
			if err := json.Unmarshal(row.Metadata, &entry.Metadata); err != nil {
				return nil, 0, fmt.Errorf("unmarshal audit metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	return entries, total, nil
}

func (s *postgresStore) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	query := `DELETE FROM audit_entries WHERE created_at < $1`

	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old audit entries: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete old audit entries: %w", err)
	}

	return deleted, nil
}
