package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stridelog/stridelog/internal/ctxkeys"
	"github.com/stridelog/stridelog/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Export answers with a download link when uploads are enabled and streams
// the document as an attachment otherwise.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	export, err := h.exportService.Export(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "failed to export goals")
		return
	}

	if export.URL != "" {
		writeJSON(w, http.StatusOK, map[string]string{"url": export.URL})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=goals-export.json")

	err = json.NewEncoder(w).Encode(export.Document)
	if err != nil {
		slog.Error("failed to encode export", "error", err, "user_id", userID)
	}
}
