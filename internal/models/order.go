// internal/models/order.go
package models

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// AutoMatchProvider is stored as recommendedProvider when no roster entry is chosen.
const AutoMatchProvider = "系统自动匹配"

const (
	FieldID                  = "id"
	FieldTimestamp           = "timestamp"
	FieldStatus              = "status"
	FieldRecommendedProvider = "recommendedProvider"
	FieldCurrentLevel        = "currentLevel"
	FieldTargetLevel         = "targetLevel"
	FieldServiceType         = "serviceType"
)

// EnvelopeFields are owned by the store; callers cannot set them.
var EnvelopeFields = []string{FieldID, FieldTimestamp, FieldStatus, FieldRecommendedProvider}

// Fields keeps caller-supplied JSON values in submission order.
type Fields = orderedmap.OrderedMap[string, json.RawMessage]

func NewFields() *Fields {
	return orderedmap.New[string, json.RawMessage]()
}

// Order is a persisted service order. The envelope is always written first,
// followed by the caller's fields verbatim, in the order they were submitted.
type Order struct {
	ID                  string
	Timestamp           int64
	Status              string
	RecommendedProvider string

	// Fields holds every caller-supplied key except the envelope ones.
	Fields *Fields
}

// CurrentLevel is the caller's current rank, or "" when absent or not a string.
func (o *Order) CurrentLevel() string { return stringField(o.Fields, FieldCurrentLevel) }

// TargetLevel is the caller's target rank, or "" when absent or not a string.
func (o *Order) TargetLevel() string { return stringField(o.Fields, FieldTargetLevel) }

// ServiceType is the requested service, or "" when absent or not a string.
func (o *Order) ServiceType() string { return stringField(o.Fields, FieldServiceType) }

// OrderRequest is a decoded order submission.
type OrderRequest struct {
	Fields *Fields

	// Dropped lists envelope keys present in the payload; their values are ignored.
	Dropped []string
}

func (r *OrderRequest) CurrentLevel() string { return stringField(r.Fields, FieldCurrentLevel) }

func (r *OrderRequest) TargetLevel() string { return stringField(r.Fields, FieldTargetLevel) }

func (r *OrderRequest) ServiceType() string { return stringField(r.Fields, FieldServiceType) }

// ParseOrderRequest decodes a JSON object into an OrderRequest. Values are not
// type-checked; a rank that is not a string reads as an unknown rank.
func ParseOrderRequest(body []byte) (*OrderRequest, error) {
	fields := NewFields()
	if err := fields.UnmarshalJSON(body); err != nil {
		return nil, fmt.Errorf("decode order payload: %w", err)
	}

	req := &OrderRequest{Fields: fields}
	for _, key := range EnvelopeFields {
		if _, ok := fields.Delete(key); ok {
			req.Dropped = append(req.Dropped, key)
		}
	}
	return req, nil
}

// Clone returns a deep copy so callers can mutate it without touching stored state.
func (o *Order) Clone() *Order {
	c := *o
	c.Fields = NewFields()
	if o.Fields != nil {
		for pair := o.Fields.Oldest(); pair != nil; pair = pair.Next() {
			c.Fields.Set(pair.Key, append(json.RawMessage(nil), pair.Value...))
		}
	}
	return &c
}

func (o Order) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[string, any]()
	out.Set(FieldID, o.ID)
	out.Set(FieldTimestamp, o.Timestamp)
	out.Set(FieldStatus, o.Status)
	out.Set(FieldRecommendedProvider, o.RecommendedProvider)
	if o.Fields != nil {
		for pair := o.Fields.Oldest(); pair != nil; pair = pair.Next() {
			if _, taken := out.Get(pair.Key); taken {
				continue
			}
			out.Set(pair.Key, pair.Value)
		}
	}
	return json.Marshal(out)
}

func (o *Order) UnmarshalJSON(data []byte) error {
	fields := NewFields()
	if err := fields.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode order: %w", err)
	}

	var decoded Order
	var err error
	if decoded.ID, err = takeString(fields, FieldID); err != nil {
		return err
	}
	if raw, ok := fields.Delete(FieldTimestamp); ok {
		if err := json.Unmarshal(raw, &decoded.Timestamp); err != nil {
			return fmt.Errorf("field %s: %w", FieldTimestamp, err)
		}
	}
	if decoded.Status, err = takeString(fields, FieldStatus); err != nil {
		return err
	}
	if decoded.RecommendedProvider, err = takeString(fields, FieldRecommendedProvider); err != nil {
		return err
	}
	if decoded.ID == "" {
		return fmt.Errorf("order record has no %s", FieldID)
	}
	decoded.Fields = fields
	*o = decoded
	return nil
}

func takeString(fields *Fields, key string) (string, error) {
	raw, ok := fields.Delete(key)
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %s must be a string: %w", key, err)
	}
	return s, nil
}

func stringField(fields *Fields, key string) string {
	if fields == nil {
		return ""
	}
	raw, ok := fields.Get(key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
