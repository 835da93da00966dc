package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"EODFeed/internal/loader"
	"EODFeed/internal/usecase"
)

func newTestHandler(t *testing.T) *BarsEchoHandler {
	t.Helper()
	root := t.TempDir()

	var lines []string
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		d := start.AddDate(0, 0, i)
		lines = append(lines, fmt.Sprintf("%s,10,11,9,10.5,%d", d.Format("2006-01-02"), 100+i))
	}
	body := "Date,Open,High,Low,Close,Volume\n" + strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(root, "tcs.csv"), []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src, err := loader.NewEODFile(loader.FileConfig{Root: root}, nil, nil)
	if err != nil {
		t.Fatalf("NewEODFile: %v", err)
	}
	w := usecase.NewWatchlist(src, nil, 0, 2, nil, nil)
	return NewBarsEchoHandler(w, nil)
}

func doRequest(t *testing.T, h *BarsEchoHandler, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, body
}

func TestGetSymbolBars(t *testing.T) {
	h := newTestHandler(t)
	rec, body := doRequest(t, h, "/api/bars/tcs?tf=daily&period=10")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"].(float64) != 200 {
		t.Fatalf("body status = %v", body["status"])
	}
	data := body["data"].(map[string]interface{})
	if data["symbol"] != "tcs" {
		t.Fatalf("symbol = %v", data["symbol"])
	}
	bars := data["bars"].([]interface{})
	if len(bars) != 10 {
		t.Fatalf("got %d bars, want 10", len(bars))
	}
}

func TestGetSymbolBarsMissingSymbolStillOK(t *testing.T) {
	h := newTestHandler(t)
	rec, body := doRequest(t, h, "/api/bars/ghost?tf=daily")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := body["data"].(map[string]interface{})
	if data["bars"] != nil {
		t.Fatalf("expected no bars, got %v", data["bars"])
	}
	warnings := data["warnings"].([]interface{})
	if len(warnings) == 0 {
		t.Fatalf("expected warnings")
	}
}

func TestGetBarsBatch(t *testing.T) {
	h := newTestHandler(t)
	rec, body := doRequest(t, h, "/api/bars?symbols=tcs,ghost&tf=daily&period=5")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := body["data"].(map[string]interface{})
	rows := data["rows"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	first := rows[0].(map[string]interface{})
	if first["symbol"] != "tcs" {
		t.Fatalf("rows out of request order: %v", first["symbol"])
	}
	second := rows[1].(map[string]interface{})
	if len(second["warnings"].([]interface{})) == 0 {
		t.Fatalf("expected warnings for missing symbol")
	}
}

func TestGetBarsRejectsBadTimeframe(t *testing.T) {
	h := newTestHandler(t)
	rec, body := doRequest(t, h, "/api/bars?symbols=tcs&tf=hourly")

	if rec.Code != http.StatusOK {
		t.Fatalf("transport status = %d", rec.Code)
	}
	if body["status"].(float64) != 400 {
		t.Fatalf("body status = %v", body["status"])
	}
}

func TestGetBarsRejectsMissingSymbols(t *testing.T) {
	h := newTestHandler(t)
	_, body := doRequest(t, h, "/api/bars?tf=daily")
	if body["status"].(float64) != 400 {
		t.Fatalf("body status = %v", body["status"])
	}
}

func TestGetBarsRejectsBadDate(t *testing.T) {
	h := newTestHandler(t)
	_, body := doRequest(t, h, "/api/bars?symbols=tcs&date=31-01-2024")
	if body["status"].(float64) != 400 {
		t.Fatalf("body status = %v", body["status"])
	}
}
