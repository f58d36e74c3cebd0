// internal/orderstore/repository.go
package orderstore

import (
	"context"
	"encoding/json"

	"rank-boost/internal/models"
)

// Repository persists order records keyed by order id.
type Repository interface {
	// Save creates or replaces the record for o.ID.
	Save(ctx context.Context, o *models.Order) error
	// LoadAll returns every decodable record in enumeration order. Records that
	// fail to decode are reported in Corrupt; an error means storage itself was unreadable.
	LoadAll(ctx context.Context) (*LoadResult, error)
	Close() error
}

type LoadResult struct {
	Orders  []*models.Order
	Corrupt []CorruptRecord
}

// CorruptRecord identifies a stored record that could not be decoded.
type CorruptRecord struct {
	Key string
	Err error
}

func (r *LoadResult) add(key string, data []byte) {
	var o models.Order
	if err := json.Unmarshal(data, &o); err != nil {
		r.Corrupt = append(r.Corrupt, CorruptRecord{Key: key, Err: err})
		return
	}
	r.Orders = append(r.Orders, &o)
}

func encodeOrder(o *models.Order) ([]byte, error) {
	return json.MarshalIndent(o, "", "  ")
}
