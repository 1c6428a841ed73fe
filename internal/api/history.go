// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/reeldeck/reeldeck/internal/cache"
	"github.com/reeldeck/reeldeck/internal/models"
)

// sessionCookie identifies a browser session for query history.
const sessionCookie = "reeldeck_session"

// maxHistoryEntries caps the per-session history length.
const maxHistoryEntries = 5

// sessionTTL is how long an idle session's history survives.
const sessionTTL = 24 * time.Hour

// HistoryStore keeps per-session recommendation history in memory.
// Entries are lost on restart; history is a UI convenience, not a
// durable record.
type HistoryStore struct {
	sessions *cache.Cache
}

// NewHistoryStore creates the history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		sessions: cache.New("history", sessionTTL),
	}
}

// Close releases the backing cache.
func (h *HistoryStore) Close() {
	h.sessions.Close()
}

// Record prepends an entry to the session's history, keeping the most
// recent maxHistoryEntries. A repeated title moves to the front rather
// than appearing twice.
func (h *HistoryStore) Record(sessionID string, entry models.HistoryEntry) {
	entries := h.Get(sessionID)
	updated := make([]models.HistoryEntry, 0, maxHistoryEntries)
	updated = append(updated, entry)
	for _, e := range entries {
		if len(updated) == maxHistoryEntries {
			break
		}
		if e.Title == entry.Title {
			continue
		}
		updated = append(updated, e)
	}
	h.sessions.Set(sessionID, updated)
}

// Get returns the session's history, newest first.
func (h *HistoryStore) Get(sessionID string) []models.HistoryEntry {
	val, ok := h.sessions.Get(sessionID)
	if !ok {
		return nil
	}
	entries, ok := val.([]models.HistoryEntry)
	if !ok {
		return nil
	}
	return entries
}

// sessionID returns the request's session ID, setting the cookie on
// first contact.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
