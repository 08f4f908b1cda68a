package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-admin/internal/domain/repository"
	"github.com/jhoicas/pos-admin/internal/domain/sequence"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contadores en document_sequences. El UPDATE ... RETURNING toma el lock de fila,
// así dos transacciones concurrentes nunca obtienen el mismo valor.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar la tx que inserta el documento.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) Increment(ctx context.Context, kind sequence.Kind) (int64, bool, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		UPDATE document_sequences
		SET last_value = last_value + 1, updated_at = now()
		WHERE kind = $1
		RETURNING last_value`, string(kind)).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, storeErr("increment sequence", err)
	}
	return n, true, nil
}

func (r *SequenceRepo) Seed(ctx context.Context, kind sequence.Kind, lastValue int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO document_sequences (kind, last_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (kind) DO NOTHING`, string(kind), lastValue)
	if err != nil {
		return storeErr("seed sequence", err)
	}
	return nil
}

func (r *SequenceRepo) Set(ctx context.Context, kind sequence.Kind, lastValue int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO document_sequences (kind, last_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (kind) DO UPDATE SET last_value = EXCLUDED.last_value, updated_at = now()`,
		string(kind), lastValue)
	if err != nil {
		return storeErr("set sequence", err)
	}
	return nil
}
