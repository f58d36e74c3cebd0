package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// OrderSubmissionSchema accepts any JSON object. Field values are stored as sent;
// a rank of any other type or outside the ladder is matched as unknown.
const OrderSubmissionSchema = `{
  "type": "object",
  "additionalProperties": true
}`

// StatusUpdateSchema requires a non-empty status string.
const StatusUpdateSchema = `{
  "type": "object",
  "properties": {
    "status": {"type": "string", "minLength": 1}
  },
  "required": ["status"]
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins all errors into one line.
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Validator holds compiled schemas.
type Validator struct {
	order  *gojsonschema.Schema
	status *gojsonschema.Schema
}

func NewValidator() (*Validator, error) {
	order, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(OrderSubmissionSchema))
	if err != nil {
		return nil, fmt.Errorf("compile order schema: %w", err)
	}
	status, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(StatusUpdateSchema))
	if err != nil {
		return nil, fmt.Errorf("compile status schema: %w", err)
	}
	return &Validator{order: order, status: status}, nil
}

// ValidateOrder checks a raw order submission body. A malformed document is returned as error.
func (v *Validator) ValidateOrder(body []byte) (*ValidationResult, error) {
	return validate(v.order, body)
}

// ValidateStatusUpdate checks a raw status update body.
func (v *Validator) ValidateStatusUpdate(body []byte) (*ValidationResult, error) {
	return validate(v.status, body)
}

func validate(schema *gojsonschema.Schema, body []byte) (*ValidationResult, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}
