package api

import (
	"io"
	"net/http"

	"github.com/dgallion1/syllaboss/internal/blocks"
	"github.com/dgallion1/syllaboss/internal/notion"
)

const maxConvertBytes = 1 << 20

// handleConvert turns a markdown body into blocks. ?format=notion returns
// Notion block objects instead of the neutral form.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxConvertBytes+1))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(body) > maxConvertBytes {
		jsonError(w, "markdown exceeds 1MB", http.StatusRequestEntityTooLarge)
		return
	}

	bs := blocks.Convert(string(body))
	if r.URL.Query().Get("format") == "notion" {
		writeJSON(w, http.StatusOK, map[string]any{
			"blocks": notion.Children(bs),
			"count":  len(bs),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"blocks": bs,
		"count":  len(bs),
	})
}
