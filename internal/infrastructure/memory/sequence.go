package memory

import (
	"context"

	"github.com/jhoicas/pos-admin/internal/domain/repository"
	"github.com/jhoicas/pos-admin/internal/domain/sequence"
)

// SequenceRepo contadores de documentos. Dentro de RunInTx el incremento queda serializado
// por el lock de escritura del almacén.
type SequenceRepo struct {
	a accessor
}

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

func (r *SequenceRepo) Increment(_ context.Context, kind sequence.Kind) (int64, bool, error) {
	st, unlock := r.a.write()
	defer unlock()
	n, ok := st.sequences[kind]
	if !ok {
		return 0, false, nil
	}
	n++
	st.sequences[kind] = n
	return n, true, nil
}

func (r *SequenceRepo) Seed(_ context.Context, kind sequence.Kind, lastValue int64) error {
	st, unlock := r.a.write()
	defer unlock()
	if _, ok := st.sequences[kind]; !ok {
		st.sequences[kind] = lastValue
	}
	return nil
}

func (r *SequenceRepo) Set(_ context.Context, kind sequence.Kind, lastValue int64) error {
	st, unlock := r.a.write()
	defer unlock()
	st.sequences[kind] = lastValue
	return nil
}
