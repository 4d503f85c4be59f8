package llm

import (
	"encoding/json"
	"fmt"
)

// ValidateReply checks a fence-stripped model reply against the reply
// schema.
func ValidateReply(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal reply: %w", err)
	}
	schema, err := replySchema()
	if err != nil {
		return fmt.Errorf("compile reply schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("reply does not match schema: %w", err)
	}
	return nil
}
