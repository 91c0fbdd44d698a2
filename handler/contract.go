package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JairPrada/RadarColTfm/model"
	"github.com/JairPrada/RadarColTfm/service"
)

// ContractHandler serves the pipeline's outputs to the presentation layer:
// the filtered, sorted, paginated contract list, per-contract analyses,
// aggregate statistics and the availability probe.
type ContractHandler struct {
	client   *service.Client
	pipeline *service.Pipeline
	cache    *service.WorkingSetCache
	log      *slog.Logger
}

func NewContractHandler(client *service.Client, pipeline *service.Pipeline, cache *service.WorkingSetCache, log *slog.Logger) *ContractHandler {
	return &ContractHandler{
		client:   client,
		pipeline: pipeline,
		cache:    cache,
		log:      log,
	}
}

// List handles GET /api/contracts. Filter parameters mirror the upstream
// names (fecha_desde, fecha_hasta, valor_minimo, valor_maximo,
// nombre_contrato, id_contrato); risk_levels, sort_by, sort_dir, page and
// page_size are resolved locally. A page-number-only change hits the cached
// working set and skips the upstream call.
func (h *ContractHandler) List(c *gin.Context) {
	spec, err := parseFilterSpec(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sortField := service.SortField(c.Query("sort_by"))
	if sortField != "" && !sortField.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort_by: " + string(sortField)})
		return
	}
	sortDir := service.SortDirection(c.DefaultQuery("sort_dir", string(service.SortAsc)))
	if sortDir != service.SortAsc && sortDir != service.SortDesc {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort_dir: " + string(sortDir)})
		return
	}

	page, err := intQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pageSize, err := intQuery(c, "page_size", 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if page < 1 || pageSize < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page and page_size must be positive"})
		return
	}
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contracts, rollup, err := h.workingSet(c, spec, limit)
	if err != nil {
		// No partial table on a list-level failure: the classified error
		// is the whole response.
		respondUpstreamError(c, err)
		return
	}

	filtered := service.FilterByRisk(contracts, spec.RiskLevels)
	sorted := service.SortContracts(filtered, sortField, sortDir)
	result := service.Paginate(sorted, model.PageRequest{Page: page, PageSize: pageSize})
	stats := service.ComputeStats(filtered, rollup)

	c.JSON(http.StatusOK, gin.H{
		"data":        result.Data,
		"page":        result.Page,
		"pageSize":    result.PageSize,
		"totalItems":  result.TotalItems,
		"totalPages":  result.TotalPages,
		"hasNextPage": result.HasNextPage,
		"hasPrevPage": result.HasPrevPage,
		"stats":       stats,
	})
}

// GetAnalysis handles GET /api/contracts/:id/analysis. Any upstream failure
// degrades to the local fallback pair instead of failing the request; the
// response is flagged so the presentation layer can label the example data.
func (h *ContractHandler) GetAnalysis(c *gin.Context) {
	id := c.Param("id")

	detail, err := h.client.FetchAnalysis(c.Request.Context(), id)
	if err != nil {
		kind := "error"
		var apiErr *service.APIError
		if errors.As(err, &apiErr) {
			kind = string(apiErr.Kind)
		}
		h.log.Warn("serving fallback analysis",
			"contract_id", id,
			"reason", kind,
			"error", err.Error(),
		)

		contract, analysis := service.FallbackPair(id)
		c.JSON(http.StatusOK, gin.H{
			"contract":       contract,
			"analysis":       analysis,
			"fallback":       true,
			"fallbackReason": kind,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract": service.NormalizeDetailContract(detail.Contract),
		"analysis": service.NormalizeAnalysis(detail.Analysis),
		"fallback": false,
	})
}

// Stats handles GET /api/stats with the same filter parameters as List.
func (h *ContractHandler) Stats(c *gin.Context) {
	spec, err := parseFilterSpec(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contracts, rollup, err := h.workingSet(c, spec, limit)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	filtered := service.FilterByRisk(contracts, spec.RiskLevels)
	c.JSON(http.StatusOK, service.ComputeStats(filtered, rollup))
}

// Health handles GET /api/health. Always 200; the upstream probe result is
// data, not a failure of this endpoint.
func (h *ContractHandler) Health(c *gin.Context) {
	upstream := h.client.CheckHealth(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"upstream":  upstream,
	})
}

// workingSet resolves the normalized contract set for spec, from the cache
// when the canonical query matches the last fetch, from the API otherwise.
// The cached set is pre-risk-filter: the risk dimension is client-side and
// applied per request.
func (h *ContractHandler) workingSet(c *gin.Context, spec model.FilterSpec, limit int) ([]model.Contract, model.Rollup, error) {
	key := service.BuildListQuery(spec, limit)

	if contracts, rollup, ok := h.cache.Get(key); ok {
		h.log.Debug("working set served from cache", "query", key, "records", len(contracts))
		return contracts, rollup, nil
	}

	list, err := h.client.ListContracts(c.Request.Context(), spec, limit)
	if err != nil {
		return nil, model.Rollup{}, err
	}

	contracts := h.pipeline.BuildWorkingSet(*list.Contratos)
	rollup := model.Rollup{
		TotalAnalyzed:  list.TotalContratosAnalizados,
		HighRiskCount:  list.ContratosAltoRiesgo,
		TotalAmountCOP: list.MontoTotalCOP,
	}
	h.cache.Put(key, contracts, rollup)

	return contracts, rollup, nil
}

func parseFilterSpec(c *gin.Context) (model.FilterSpec, error) {
	spec := model.FilterSpec{
		DateFrom:   c.Query("fecha_desde"),
		DateTo:     c.Query("fecha_hasta"),
		Name:       c.Query("nombre_contrato"),
		ContractID: c.Query("id_contrato"),
	}

	var err error
	if spec.MinAmount, err = floatQuery(c, "valor_minimo"); err != nil {
		return spec, err
	}
	if spec.MaxAmount, err = floatQuery(c, "valor_maximo"); err != nil {
		return spec, err
	}

	if raw := c.Query("risk_levels"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			level, ok := model.ParseRiskLevel(strings.TrimSpace(part))
			if !ok {
				return spec, errors.New("invalid risk level: " + part)
			}
			spec.RiskLevels = append(spec.RiskLevels, level)
		}
	}

	return spec, nil
}

func floatQuery(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New("invalid " + name + ": " + raw)
	}
	return &v, nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name + ": " + raw)
	}
	return v, nil
}

// respondUpstreamError maps a classified API failure to the list path's
// explicit error state. The presentation layer shows it with a retry
// action; there is no partial table once the list has failed.
func respondUpstreamError(c *gin.Context, err error) {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.Kind == service.ErrKindNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error":     apiErr.Error(),
			"kind":      string(apiErr.Kind),
			"url":       apiErr.URL,
			"hint":      apiErr.Hint,
			"retryable": apiErr.Kind != service.ErrKindNotFound,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
