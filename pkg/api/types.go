package api

import (
	"encoding/json"

	"github.com/ssargent/listpositions/pkg/order"
)

// Envelope is the uniform wire wrapper every handler responds with.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port   int
	APIKey string
}

// receiveMetasRequest is the body of POST /order/metas.
type receiveMetasRequest = []order.BunchMeta

// createPositionRequest is the body of POST /order/position.
type createPositionRequest struct {
	Prev  order.Position `json:"prev"`
	Next  order.Position `json:"next"`
	Count int            `json:"count"`
}

// createPositionResponse is the response of POST /order/position.
type createPositionResponse struct {
	Position order.Position  `json:"position"`
	Lex      string          `json:"lex"`
	Meta     *order.BunchMeta `json:"meta,omitempty"`
}

// listSetRequest is the body of POST /list/{name}/set.
type listSetRequest struct {
	Position order.Position  `json:"position"`
	Value    json.RawMessage `json:"value"`
}

// listDeleteRequest is the body of POST /list/{name}/delete.
type listDeleteRequest struct {
	Position order.Position `json:"position"`
}

// listAtResponse is the response of GET /list/{name}/at/{index}.
type listAtResponse struct {
	Position order.Position  `json:"position"`
	Value    json.RawMessage `json:"value"`
}
