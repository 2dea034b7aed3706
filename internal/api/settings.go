package api

import (
	"net/http"

	"github.com/starford/lifeflow/internal/checksum"
	"github.com/starford/lifeflow/internal/export"
)

// GetSettings handles GET /api/settings.
//
//	@Summary		Get all settings merged with defaults
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.tasks.Settings(r.Context())
	if err != nil {
		writeError(w, err, "get settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// PutSettings handles PUT /api/settings.
//
//	@Summary		Upsert settings
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		map[string]any	true	"Keys to set"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	errResponse
//	@Router			/settings [put]
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if !decodeJSON(w, r, &req, false) {
		return
	}
	settings, err := h.tasks.PutSettings(r.Context(), req)
	if err != nil {
		writeError(w, err, "put settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Export handles GET /api/settings/export. The ETag is the SHA-256 of the
// body, so unchanged data answers If-None-Match with 304.
//
//	@Summary		Export all data
//	@Tags			settings
//	@Produce		json
//	@Param			format			query	string	false	"json or xlsx"	Enums(json, xlsx)
//	@Param			If-None-Match	header	string	false	"Previous ETag"
//	@Success		200				"Export document"
//	@Success		304				"Not modified"
//	@Failure		400				{object}	errResponse
//	@Router			/settings/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	res, err := h.exporter.Render(r.Context(), format)
	if err != nil {
		writeError(w, err, "export")
		return
	}

	w.Header().Set("ETag", checksum.ETag(res.Checksum))
	if checksum.Match(r.Header.Get("If-None-Match"), res.Checksum) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	if format == export.FormatXLSX {
		w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}
