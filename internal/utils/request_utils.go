package utils

import (
	"bytes"
	"encoding/json"
	"fmt"

	"rpc-cache-proxy/internal/models"
)

// ParseClientRequests normalizes a JSON-RPC body into an ordered request
// slice. batch reports whether the body was an array, so the response can
// preserve the client's cardinality.
func ParseClientRequests(body []byte) (requests []models.ClientRequest, batch bool, err error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty request body")
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &requests); err != nil {
			return nil, true, fmt.Errorf("failed to parse batch request: %w", err)
		}
		return requests, true, nil
	}

	var request models.ClientRequest
	if err := json.Unmarshal(trimmed, &request); err != nil {
		return nil, false, fmt.Errorf("failed to parse request: %w", err)
	}
	return []models.ClientRequest{request}, false, nil
}
