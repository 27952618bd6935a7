package camedomotic

import (
	"encoding/json"
	"fmt"
)

// unmarshalResponse unmarshals a gateway response with consistent error
// formatting. This helper reduces boilerplate across response parsing.
func unmarshalResponse[T any](data []byte, resourceName string) (*T, error) {
	var resp T
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v (body: %s)", ErrServer, resourceName, err, truncatePreview(data))
	}
	return &resp, nil
}

// truncatePreview returns a truncated string for error messages.
func truncatePreview(data []byte) string {
	s := string(data)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
