package snapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const validPayload = `{
	"ok": true,
	"sourceFile": {"name": "tracker.xlsx", "updatedIso": "2026-03-02T08:15:00Z"},
	"meta": {"sheetName": "Compliance 2026", "extractedAtIso": "2026-03-02T08:16:30Z"},
	"weekCols": [{"monthName": "March", "weekOfMonth": 1}],
	"tasks": [{"label": "Fire drill", "cells": [{"bg": "#00ff00", "date": "2026-03-02", "monthName": "March", "weekOfMonth": 1}]}]
}`

func TestHTTPFetcher_Fetch(t *testing.T) {
	// given
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validPayload))
	}))
	defer server.Close()

	// when
	snap, err := NewHTTPFetcher(server.URL).Fetch(context.Background())

	// then
	assert.NoError(t, err)
	assert.NotEmpty(t, snap.Id)
	assert.Len(t, snap.Tasks, 1)
	assert.Equal(t, "Fire drill", snap.Tasks[0].Label)
}

func TestHTTPFetcher_Fetch_serverError(t *testing.T) {
	// given
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// when
	_, err := NewHTTPFetcher(server.URL).Fetch(context.Background())

	// then
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFileFetcher_Fetch(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "snapshot.json")
	assert.NoError(t, os.WriteFile(path, []byte(validPayload), 0o644))

	// when
	snap, err := NewFileFetcher(path).Fetch(context.Background())

	// then
	assert.NoError(t, err)
	assert.NotEmpty(t, snap.Id)
	assert.Equal(t, "Compliance 2026", snap.Meta.SheetName)
}

func TestFileFetcher_Fetch_missingFile(t *testing.T) {
	_, err := NewFileFetcher(filepath.Join(t.TempDir(), "nope.json")).Fetch(context.Background())
	assert.Error(t, err)
}
