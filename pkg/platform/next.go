package platform

import "encoding/json"

// NextRequest is a turn in the successor webhook revision. Parsing is limited
// to shape detection for now; the raw body is retained for the eventual
// implementation.
type NextRequest struct {
	Body json.RawMessage
}

// NextResponse is the reply slot for the successor webhook revision. No
// render strategy fills it yet.
type NextResponse struct {
	FulfillmentText string `json:"fulfillmentText,omitempty"`
}
