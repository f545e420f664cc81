package woocommerce

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New()

// Decode unmarshals one raw remote record and validates its required fields.
// Synchronizers call it inside their per-record isolation so a malformed
// record fails alone.
func Decode[T any](raw json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if err := validate.Struct(&v); err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}
	return &v, nil
}
