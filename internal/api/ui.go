// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/reeldeck/reeldeck/internal/logging"
)

//go:embed web/templates/index.html
var uiFS embed.FS

var uiTemplate = template.Must(template.ParseFS(uiFS, "web/templates/index.html"))

// uiData is the template context for the single-page UI.
type uiData struct {
	Version string
}

// UI serves the embedded single-page application.
//
// GET /
func (h *Handler) UI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := uiTemplate.Execute(w, uiData{Version: h.version}); err != nil {
		logging.Err(err).Msg("failed to render UI template")
	}
}
