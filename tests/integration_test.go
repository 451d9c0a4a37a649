package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mkaraca/pitwall/internal/api"
	"github.com/mkaraca/pitwall/internal/dash"
	"github.com/mkaraca/pitwall/internal/logger"
)

// mockBackend is an in-memory stand-in for the dashboard backend, covering
// the endpoints the client talks to.
type mockBackend struct {
	files      map[int]string
	nextFileID int
	failSeason bool
}

func newMockBackend() *mockBackend {
	return &mockBackend{files: map[int]string{}, nextFileID: 1}
}

func (b *mockBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /f1/fetch-data", func(w http.ResponseWriter, r *http.Request) {
		if b.failSeason {
			writeJSON(w, map[string]any{"success": false, "message": "OpenF1 quota exceeded"})
			return
		}
		writeJSON(w, map[string]any{
			"success": true,
			"data": map[string]any{
				"driver_standings": []map[string]any{
					{"position": 1, "full_name": "Max Verstappen", "team_name": "Red Bull", "points": 437.0, "wins": 15},
					{"position": 2, "full_name": "Sergio Perez", "team_name": "Red Bull", "points": 285.0, "wins": 2},
				},
				"constructor_standings": []map[string]any{
					{"position": 1, "team_name": "Red Bull", "points": 741.0, "wins": 17},
				},
				"latest_race": map[string]any{
					"meeting_name":       "Abu Dhabi Grand Prix",
					"circuit_short_name": "Yas Marina Circuit",
					"location":           "Abu Dhabi, UAE",
					"date_start":         "2023-11-26",
				},
				"race_results": []map[string]any{
					{"position": 1, "driver_name": "Max Verstappen", "team": "Red Bull", "points": 25.0, "status": "Finished"},
				},
			},
		})
	})

	mux.HandleFunc("GET /f1/insights", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"insights": []map[string]any{
				{"type": "Dominant Season", "insight": "Red Bull leads both championships", "explanation": "Based on points gap."},
			},
		})
	})

	mux.HandleFunc("GET /f1/historical/{year}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("year") != "1988" {
			writeJSON(w, map[string]any{"success": false, "year": 0, "message": "no data", "races": []any{}, "race_count": 0})
			return
		}
		writeJSON(w, map[string]any{
			"success":    true,
			"year":       1988,
			"race_count": 1,
			"champion":   map[string]any{"name": "Ayrton Senna", "team": "McLaren", "points": "90", "wins": "8"},
			"races": []map[string]any{
				{"round": "1", "meeting_name": "Brazilian Grand Prix", "circuit_short_name": "Jacarepagua", "location": "Rio de Janeiro, Brazil", "date_start": "1988-04-03"},
			},
		})
	})

	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		files := make([]map[string]any, 0, len(b.files))
		for id, name := range b.files {
			files = append(files, map[string]any{
				"id": id, "filename": name, "upload_date": "2024-05-01 10:00:00", "file_type": "csv", "insights": nil,
			})
		}
		writeJSON(w, map[string]any{"files": files})
	})

	mux.HandleFunc("POST /files/upload", func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]any{"detail": "missing file field"})
			return
		}
		id := b.nextFileID
		b.nextFileID++
		b.files[id] = header.Filename
		writeJSON(w, map[string]any{"success": true, "file_id": id, "filename": header.Filename, "file_type": "csv"})
	})

	mux.HandleFunc("GET /files/{id}/analyze", func(w http.ResponseWriter, r *http.Request) {
		var id int
		_, _ = fmt.Sscanf(r.PathValue("id"), "%d", &id)
		name, ok := b.files[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{"detail": "File not found"})
			return
		}
		writeJSON(w, map[string]any{
			"success":  true,
			"filename": name,
			"analysis": map[string]any{
				"summary":  map[string]any{"total_rows": 120, "total_columns": 2, "columns": []string{"driver", "lap_time"}},
				"insights": []map[string]any{{"type": "Fastest Driver", "insight": "VER dominates", "details": "Based on 40 laps."}},
				"charts":   map[string]any{"driver_performance": []map[string]any{{"driver": "VER", "avg_lap_time": 92.4}}},
			},
		})
	})

	mux.HandleFunc("DELETE /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		var id int
		_, _ = fmt.Sscanf(r.PathValue("id"), "%d", &id)
		delete(b.files, id)
		writeJSON(w, map[string]any{"success": true, "message": "File deleted successfully"})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestStack(t *testing.T) (*dash.Store, *api.Client, *mockBackend) {
	t.Helper()

	backend := newMockBackend()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	log := logger.NewWithCallback("test", nil)
	log.SetWriter(io.Discard)

	return dash.NewStore(log), client, backend
}

// TestSeasonLifecycle walks the full fetch flow: season snapshot, then the
// dependent insights fetch, with standings projected through the store.
func TestSeasonLifecycle(t *testing.T) {
	store, client, _ := newTestStack(t)
	ctx := context.Background()

	store.BeginSeasonFetch()
	snap, err := client.FetchSeason(ctx, "test-key")
	if !store.CompleteSeasonFetch(snap, err) {
		t.Fatal("Expected the insights fetch to follow a successful season fetch")
	}

	store.BeginInsightsFetch()
	insights, err := client.FetchInsights(ctx)
	store.CompleteInsightsFetch(insights, err)

	if store.SeasonState() != dash.StateReady || store.InsightsState() != dash.StateReady {
		t.Errorf("Expected ready resources, got season=%s insights=%s", store.SeasonState(), store.InsightsState())
	}

	rows := store.TopDriverStandings()
	if len(rows) != 2 || rows[0].FullName != "Max Verstappen" {
		t.Errorf("Unexpected standings projection: %+v", rows)
	}
	if _, ok := store.Notifier().Banner(); ok {
		t.Error("Expected no banner after a successful fetch")
	}
}

// TestSeasonFailureSetsBanner verifies a declared backend failure surfaces
// on the banner and skips the insights fetch.
func TestSeasonFailureSetsBanner(t *testing.T) {
	store, client, backend := newTestStack(t)
	backend.failSeason = true

	store.BeginSeasonFetch()
	snap, err := client.FetchSeason(context.Background(), "test-key")
	if store.CompleteSeasonFetch(snap, err) {
		t.Fatal("Expected no insights fetch after a failed season fetch")
	}

	banner, ok := store.Notifier().Banner()
	if !ok || !strings.Contains(banner, "OpenF1 quota exceeded") {
		t.Errorf("Expected the backend message on the banner, got %q", banner)
	}
	if store.SeasonState() != dash.StateError {
		t.Errorf("Expected season error state, got %s", store.SeasonState())
	}
}

// TestHistoricalNoDataYear verifies an archive miss surfaces the backend's
// message and leaves the cache empty.
func TestHistoricalNoDataYear(t *testing.T) {
	store, client, _ := newTestStack(t)

	store.BeginHistoricalFetch(1949)
	season, err := client.FetchHistorical(context.Background(), 1949)
	store.CompleteHistoricalFetch(1949, season, err)

	banner, ok := store.Notifier().Banner()
	if !ok || banner != "no data" {
		t.Errorf("Expected the archive message on the banner, got %q", banner)
	}
	if _, ok := store.Historical(); ok {
		t.Error("Expected an empty historical cache after an archive miss")
	}
}

// TestFileLifecycle walks upload, analyze, and delete end to end, including
// the analysis tab retraction when its file is deleted.
func TestFileLifecycle(t *testing.T) {
	store, client, _ := newTestStack(t)
	ctx := context.Background()

	// Upload and refresh the list, as the TUI does after a success.
	store.BeginUpload()
	receipt, err := client.Upload(ctx, "laps.csv", strings.NewReader("driver,lap_time\nVER,92.3\n"))
	if !store.CompleteUpload(err) {
		t.Fatalf("Expected a refresh after a successful upload (err=%v)", err)
	}

	store.BeginFileListFetch()
	files, err := client.ListFiles(ctx)
	store.CompleteFileListFetch(files, err)

	listed, ok := store.Files()
	if !ok || len(listed) != 1 || listed[0].Filename != "laps.csv" {
		t.Fatalf("Unexpected file list: %+v", listed)
	}

	// Analyze forces the analysis tab.
	store.BeginAnalyze(receipt.FileID)
	analysis, err := client.Analyze(ctx, receipt.FileID)
	store.CompleteAnalyze(receipt.FileID, analysis, err)

	if store.ActiveTab() != dash.TabFileAnalysis {
		t.Fatalf("Expected the analysis tab after a successful analyze, got %s", store.ActiveTab())
	}

	// Delete the analyzed file; the analysis tab must retract.
	if !store.RequestDelete(receipt.FileID) {
		t.Fatal("Expected the delete request to be accepted")
	}
	fileID, ok := store.ConfirmDelete()
	if !ok {
		t.Fatal("Expected a confirmed delete")
	}
	if err := client.Delete(ctx, fileID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !store.CompleteDelete(fileID) {
		t.Error("Expected a file list refresh after the delete")
	}

	if store.ActiveTab() != dash.TabFiles {
		t.Errorf("Expected retraction to the files tab, got %s", store.ActiveTab())
	}
	if _, ok := store.Analysis(); ok {
		t.Error("Expected the analysis cache to be cleared")
	}

	store.BeginFileListFetch()
	files, err = client.ListFiles(ctx)
	store.CompleteFileListFetch(files, err)
	if listed, _ := store.Files(); len(listed) != 0 {
		t.Errorf("Expected an empty file list after the delete, got %+v", listed)
	}
}
