package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JairPrada/RadarColTfm/config"
	"github.com/JairPrada/RadarColTfm/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// upstreamBody builds a list response with n contracts alternating risk
// labels Alto, Medio, Bajo.
func upstreamBody(n int) string {
	labels := []string{"Alto", "Medio", "Bajo"}
	var records []string
	for i := 0; i < n; i++ {
		records = append(records, fmt.Sprintf(`{
			"Contrato": {"Codigo": "CO-%03d", "Descripcion": "Contrato %d"},
			"Entidad": "Entidad %d",
			"Monto": "%d",
			"FechaInicio": "2024-01-%02d",
			"NivelRiesgo": %q,
			"Anomalia": %d
		}`, i, i, i, (i+1)*1000, i%28+1, labels[i%3], i%101))
	}
	return fmt.Sprintf(`{
		"totalContratosAnalizados": 400,
		"contratosAltoRiesgo": 100,
		"montoTotalCOP": 9000000000,
		"metadata": {},
		"contratos": [%s]
	}`, strings.Join(records, ","))
}

func newTestRouter(upstreamURL string) (*gin.Engine, *ContractHandler) {
	cfg := &config.APIConfig{
		BaseURL:        upstreamURL,
		ListPath:       "/contratos",
		DetailPath:     "/contratos/%s/analisis",
		TimeoutSeconds: 5,
	}

	client := service.NewClient(cfg, testLogger())
	pipeline := service.NewPipeline(testLogger())
	cache := service.NewWorkingSetCache(time.Minute)
	h := NewContractHandler(client, pipeline, cache, testLogger())

	router := gin.New()
	api := router.Group("/api")
	api.GET("/contracts", h.List)
	api.GET("/contracts/:id/analysis", h.GetAnalysis)
	api.GET("/stats", h.Stats)
	api.GET("/health", h.Health)

	return router, h
}

func doRequest(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v (body: %s)", err, w.Body.String())
	}
	return w, body
}

func TestListContracts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(upstreamBody(23)))
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)
	w, body := doRequest(t, router, "/api/contracts?page=1&page_size=10")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	data := body["data"].([]any)
	if len(data) != 10 {
		t.Errorf("Expected 10 items on page 1, got %d", len(data))
	}
	if body["totalItems"].(float64) != 23 {
		t.Errorf("Expected totalItems 23, got %v", body["totalItems"])
	}
	if body["totalPages"].(float64) != 3 {
		t.Errorf("Expected totalPages 3, got %v", body["totalPages"])
	}
	if body["hasNextPage"] != true || body["hasPrevPage"] != false {
		t.Errorf("Page flags wrong: %v %v", body["hasNextPage"], body["hasPrevPage"])
	}

	stats := body["stats"].(map[string]any)
	if stats["count"].(float64) != 23 {
		t.Errorf("Expected stats over the full working set, got %v", stats["count"])
	}

	first := data[0].(map[string]any)
	if first["id"] != "CO-000" {
		t.Errorf("Unexpected first id %v", first["id"])
	}
	if first["riskLevel"] != "high" {
		t.Errorf("Expected normalized risk level, got %v", first["riskLevel"])
	}
}

func TestListContractsLastPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamBody(23)))
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)
	_, body := doRequest(t, router, "/api/contracts?page=3&page_size=10")

	if len(body["data"].([]any)) != 3 {
		t.Errorf("Expected 3 items on page 3, got %d", len(body["data"].([]any)))
	}
	if body["hasNextPage"] != false {
		t.Error("Page 3 of 23/10 is the last page")
	}
}

func TestListContractsRiskFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamBody(9))) // 3 Alto, 3 Medio, 3 Bajo
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)
	_, body := doRequest(t, router, "/api/contracts?risk_levels=high&page_size=50")

	data := body["data"].([]any)
	if len(data) != 3 {
		t.Fatalf("Expected 3 high-risk contracts, got %d", len(data))
	}
	for _, item := range data {
		if item.(map[string]any)["riskLevel"] != "high" {
			t.Errorf("Expected only high risk, got %v", item)
		}
	}

	// Stats cover the post-filter working set.
	stats := body["stats"].(map[string]any)
	if stats["count"].(float64) != 3 {
		t.Errorf("Expected stats count 3 after filter, got %v", stats["count"])
	}
}

func TestListContractsSorted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamBody(5)))
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)
	_, body := doRequest(t, router, "/api/contracts?sort_by=amount&sort_dir=desc&page_size=50")

	data := body["data"].([]any)
	prev := data[0].(map[string]any)["amount"].(float64)
	for _, item := range data[1:] {
		amount := item.(map[string]any)["amount"].(float64)
		if amount > prev {
			t.Fatalf("Amounts not descending: %v after %v", amount, prev)
		}
		prev = amount
	}
}

func TestListContractsPageChangeUsesCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(upstreamBody(23)))
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)

	doRequest(t, router, "/api/contracts?page=1&page_size=10")
	doRequest(t, router, "/api/contracts?page=2&page_size=10")
	doRequest(t, router, "/api/contracts?page=3&page_size=10")

	// Page-number changes re-run only sort and pagination locally.
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 upstream call across page changes, got %d", got)
	}

	// A filter change is a new canonical query and re-fetches.
	doRequest(t, router, "/api/contracts?page=1&page_size=10&nombre_contrato=obra")
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected a fresh fetch on filter change, got %d calls", got)
	}
}

func TestListContractsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)
	w, body := doRequest(t, router, "/api/contracts")

	// The list path has no fallback: the classified error is the response.
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", w.Code)
	}
	if body["kind"] != "http" {
		t.Errorf("Expected http kind, got %v", body["kind"])
	}
	if body["retryable"] != true {
		t.Error("Expected the failure to be marked retryable")
	}
	if _, ok := body["data"]; ok {
		t.Error("No partial table once the list has failed")
	}
	if body["url"] == "" || body["hint"] == "" {
		t.Errorf("Expected actionable error details, got %v", body)
	}
}

func TestListContractsMalformedUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sin": "contratos"}`))
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)
	w, body := doRequest(t, router, "/api/contracts")

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", w.Code)
	}
	if body["kind"] != "malformed_response" {
		t.Errorf("Expected malformed kind, got %v", body["kind"])
	}
}

func TestListContractsBadParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamBody(3)))
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)

	for _, path := range []string{
		"/api/contracts?sort_by=color",
		"/api/contracts?sort_dir=sideways",
		"/api/contracts?page=0",
		"/api/contracts?page_size=-1",
		"/api/contracts?page=abc",
		"/api/contracts?valor_minimo=mucho",
		"/api/contracts?risk_levels=extreme",
	} {
		w, _ := doRequest(t, router, path)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestGetAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contratos/CO-7/analisis" {
			t.Errorf("Unexpected upstream path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"contract": {"codigo": "CO-7", "descripcion": "Obra", "entidad": "ANI", "monto": "1.000", "nivelRiesgo": "Alto", "anomalia": 90},
			"analysis": {"contractId": "CO-7", "resumenEjecutivo": "R", "factoresPrincipales": [], "recomendaciones": [], "shapValues": [], "probabilidadBase": 10, "confianza": 0.9, "fechaAnalisis": "2024-04-02T10:30:00Z"}
		}`))
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)
	w, body := doRequest(t, router, "/api/contracts/CO-7/analysis")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body["fallback"] != false {
		t.Error("Expected live data, not fallback")
	}
	contract := body["contract"].(map[string]any)
	if contract["id"] != "CO-7" || contract["amount"].(float64) != 1000 {
		t.Errorf("Unexpected contract %v", contract)
	}
}

func TestGetAnalysisFallsBackWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	router, _ := newTestRouter(url)
	w, body := doRequest(t, router, "/api/contracts/CO-unknown/analysis")

	// The detail path degrades to example data rather than failing.
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body["fallback"] != true {
		t.Error("Expected fallback flag")
	}
	if body["fallbackReason"] != "transport" {
		t.Errorf("Expected transport reason, got %v", body["fallbackReason"])
	}
	analysis := body["analysis"].(map[string]any)
	if analysis["contractId"] != "CO-unknown" {
		t.Errorf("Expected analysis contract id rewritten to requested id, got %v", analysis["contractId"])
	}
}

func TestGetAnalysisFallsBackOnNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)
	w, body := doRequest(t, router, "/api/contracts/CO-404/analysis")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body["fallback"] != true || body["fallbackReason"] != "not_found" {
		t.Errorf("Expected not_found fallback, got %v / %v", body["fallback"], body["fallbackReason"])
	}
}

func TestStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamBody(9)))
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)
	w, body := doRequest(t, router, "/api/stats?risk_levels=high")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body["count"].(float64) != 3 {
		t.Errorf("Expected count 3 for high filter, got %v", body["count"])
	}
	rollup := body["rollup"].(map[string]any)
	if rollup["totalAnalyzed"].(float64) != 400 {
		t.Errorf("Expected rollup carried through, got %v", rollup)
	}
	// highRiskCount/totalAnalyzed from the rollup, as a percentage.
	if body["riskPercentage"].(float64) != 25 {
		t.Errorf("Expected riskPercentage 25, got %v", body["riskPercentage"])
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"contratos": []}`))
	}))
	defer server.Close()

	router, _ := newTestRouter(server.URL)
	w, body := doRequest(t, router, "/api/health")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	upstream := body["upstream"].(map[string]any)
	if upstream["reachable"] != true {
		t.Errorf("Expected reachable upstream, got %v", upstream)
	}
}

func TestHealthUnreachableStill200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	router, _ := newTestRouter(url)
	w, body := doRequest(t, router, "/api/health")

	// The probe result is data; the endpoint itself never fails.
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	upstream := body["upstream"].(map[string]any)
	if upstream["reachable"] != false {
		t.Errorf("Expected unreachable upstream, got %v", upstream)
	}
}
