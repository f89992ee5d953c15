package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// CreateConnection records a directed connector->connectee pair. The unique
// constraint is the only duplicate check: a concurrent insert of the same
// pair loses with ErrConnectionExists instead of racing a prior read.
func (r *Repository) CreateConnection(ctx context.Context, connectorPhone, connecteePhone string) error {
	query, args, err := squirrel.
		Insert("connections").
		Columns("connector_phone", "connectee_phone").
		Values(connectorPhone, connecteePhone).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build connection insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if uniqueViolation(err) == constraintConnectionOnce {
			return ErrConnectionExists
		}
		return fmt.Errorf("failed to insert connection: %w", err)
	}

	return nil
}
