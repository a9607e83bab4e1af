package models

import "encoding/json"

// Version is the JSON-RPC protocol version spoken on both sides of the proxy.
const Version = "2.0"

// ClientRequest is a single JSON-RPC call submitted by a client. IDs must be
// unsigned integers; a pointer distinguishes a missing id from id 0.
type ClientRequest struct {
	Jsonrpc string          `json:"jsonrpc,omitempty"`
	ID      *uint64         `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// BatchItem is one entry of the batch body forwarded to an upstream node.
type BatchItem struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// RPCError is the error member of a JSON-RPC response object.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// UpstreamResult is one element of an upstream batch response. A non-nil
// Error means the sub-call failed on the node.
type UpstreamResult struct {
	Jsonrpc string          `json:"jsonrpc,omitempty"`
	ID      *uint64         `json:"id"`
	Error   *RPCError       `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// Response is a client-facing JSON-RPC response object.
type Response struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
}
