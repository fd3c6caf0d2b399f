// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// DataHandler handles dataset requests.
type DataHandler struct {
	deps Dependencies
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps Dependencies) *DataHandler {
	return &DataHandler{deps: deps}
}

// HandleData handles GET /api/data requests.
// The dataset file is re-read and re-decoded on every request; the response
// body is the document re-encoded as JSON. A missing or malformed file
// surfaces as a 500, matching the endpoint's contract of propagating read
// failures unhandled.
func (h *DataHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	doc, err := h.deps.Data(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}
