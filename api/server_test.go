package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"

	"github.com/jangbu-dev/jangbu/engine"
)

const testConfigYAML = `
guess:
  keywords:
    date: ['날짜', '거래일', '일자']
    description: ['내용', '적요', '거래내용']
    memo: ['메모', '비고']
    deposit: ['입금']
    withdrawal: ['출금']
    amount: ['금액', '거래금액']
  balance_columns: ['잔액', '거래후 잔액', '잔액(원)']
normalize:
  vendors:
    - pattern: 'starbucks|스타벅스'
      name: 스타벅스
`

func setupTestConfig() {
	viper.Reset()
	viper.SetConfigType("yaml")
	viper.ReadConfig(bytes.NewBufferString(testConfigYAML))
}

func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to build form file: %v", err)
	}
	part.Write(content)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/parse", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestNew(t *testing.T) {
	cfg := DefaultConfig()
	server := New(cfg)

	if server == nil {
		t.Fatal("Expected server to be created")
	}
	if server.mux == nil {
		t.Fatal("Expected mux to be initialized")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != ":8080" {
		t.Errorf("Expected port ':8080', got '%s'", cfg.Port)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := New(DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response["status"])
	}
}

func TestParseEndpoint_MethodNotAllowed(t *testing.T) {
	server := New(DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/parse", nil)
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestParseEndpoint_NoFile(t *testing.T) {
	server := New(DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "/parse", nil)
	req.Header.Set("Content-Type", "multipart/form-data")
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestParseEndpoint_CSVUpload(t *testing.T) {
	setupTestConfig()
	server := New(DefaultConfig())

	csv := []byte("날짜,내용,입금,출금\n" +
		"2024-01-05,월급,3000000,\n" +
		"2024-01-06,스타벅스 강남점,,4500\n")
	rules := `[{"keyword":"스타벅스","target":"vendor","category":"카페","is_enabled":true}]`

	req := uploadRequest(t, "통장내역.csv", csv, map[string]string{
		"branch": "강남지점",
		"rules":  rules,
	})
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var results []engine.Result
	if err := json.NewDecoder(w.Body).Decode(&results); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Record.Branch != "강남지점" {
		t.Errorf("Expected branch override, got %q", results[0].Record.Branch)
	}
	if results[1].Classification.Category != "카페" {
		t.Errorf("Expected category '카페', got %q", results[1].Classification.Category)
	}
	if results[0].Fingerprint == results[1].Fingerprint {
		t.Error("Expected distinct fingerprints")
	}
}

func TestParseEndpoint_UnparseableFile(t *testing.T) {
	setupTestConfig()
	server := New(DefaultConfig())

	req := uploadRequest(t, "notes.txt", []byte("just some text"), nil)
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", w.Code)
	}
}

func TestParseEndpoint_BadRulesJSON(t *testing.T) {
	setupTestConfig()
	server := New(DefaultConfig())

	req := uploadRequest(t, "a.csv", []byte("날짜,내용,입금\n2024-01-05,x,1\n"), map[string]string{
		"rules": "{not json",
	})
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestParseOptions_QueryParamBranch(t *testing.T) {
	server := New(DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "/parse?branch=서초지점", nil)

	opts, err := server.parseOptions(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if opts.Branch != "서초지점" {
		t.Errorf("Expected branch '서초지점', got %q", opts.Branch)
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		input    []string
		expected string
	}{
		{[]string{"", "", "third"}, "third"},
		{[]string{"first", "second"}, "first"},
		{[]string{"", ""}, ""},
		{[]string{}, ""},
		{[]string{"only"}, "only"},
	}

	for _, tt := range tests {
		result := coalesce(tt.input...)
		if result != tt.expected {
			t.Errorf("coalesce(%v) = '%s', expected '%s'", tt.input, result, tt.expected)
		}
	}
}

func TestHandler(t *testing.T) {
	server := New(DefaultConfig())
	handler := server.Handler()

	if handler == nil {
		t.Fatal("Expected handler to be returned")
	}

	// Verify it's the same mux
	if handler != server.mux {
		t.Error("Expected handler to be the server's mux")
	}
}
