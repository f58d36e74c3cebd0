// internal/orderstore/pebble_repository.go
package orderstore

import (
	"context"
	"fmt"

	"rank-boost/internal/models"

	"github.com/cockroachdb/pebble"
)

var (
	pebbleLower = []byte("order/")
	pebbleUpper = []byte("order/~")
)

// PebbleRepository stores orders in an embedded pebble database under order/<id>.
type PebbleRepository struct {
	db *pebble.DB
}

func NewPebbleRepository(dir string) (*PebbleRepository, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		DisableWAL: false,
	})
	if err != nil {
		return nil, fmt.Errorf("open pebble %s: %w", dir, err)
	}
	return &PebbleRepository{db: db}, nil
}

func (r *PebbleRepository) Save(ctx context.Context, o *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeOrder(o)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", o.ID, err)
	}
	return r.db.Set(pebbleKey(o.ID), data, pebble.Sync)
}

func (r *PebbleRepository) LoadAll(ctx context.Context) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iter, err := r.db.NewIter(&pebble.IterOptions{
		LowerBound: pebbleLower,
		UpperBound: pebbleUpper,
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	result := &LoadResult{}
	for iter.First(); iter.Valid(); iter.Next() {
		// the iterator reuses its buffers
		val := append([]byte(nil), iter.Value()...)
		result.add(string(iter.Key()), val)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PebbleRepository) Close() error {
	return r.db.Close()
}

func pebbleKey(id string) []byte {
	return append(append([]byte(nil), pebbleLower...), id...)
}
