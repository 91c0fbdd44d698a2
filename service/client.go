package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/JairPrada/RadarColTfm/config"
	"github.com/JairPrada/RadarColTfm/model"
)

// healthTimeout bounds the availability probe. The in-flight request is
// cancelled at the ceiling and reported as unreachable.
const healthTimeout = 10 * time.Second

// Client issues the two network operations of the pipeline against the
// contract-analysis API and classifies their failures.
type Client struct {
	cfg        *config.APIConfig
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg *config.APIConfig, log *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		log: log,
	}
}

func (c *Client) listURL(query string) string {
	u := c.cfg.BaseURL + c.cfg.ListPath
	if query != "" {
		u += "?" + query
	}
	return u
}

func (c *Client) detailURL(contractID string) string {
	return c.cfg.BaseURL + fmt.Sprintf(c.cfg.DetailPath, url.PathEscape(contractID))
}

// ListContracts fetches the raw contract list matching spec. A 2xx body
// that lacks the contratos array is a malformed response even though the
// status was a success.
func (c *Client) ListContracts(ctx context.Context, spec model.FilterSpec, limit int) (*ListResponse, error) {
	endpoint := c.listURL(BuildListQuery(spec, limit))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var list ListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &APIError{
			Kind: ErrKindMalformed,
			URL:  endpoint,
			Hint: "the API answered but its response is not valid JSON; check that the configured base_url points at the analysis service",
			Err:  err,
		}
	}
	if list.Contratos == nil {
		return nil, &APIError{
			Kind: ErrKindMalformed,
			URL:  endpoint,
			Hint: "the API answered with JSON but without a contract list; the service may be running an incompatible version",
			Err:  errors.New("response body has no contratos array"),
		}
	}

	c.log.Debug("contract list fetched",
		"url", endpoint,
		"records", len(*list.Contratos),
		"total_analyzed", list.TotalContratosAnalizados,
	)
	return &list, nil
}

// FetchAnalysis fetches one contract together with its AI analysis. A 404
// is reported as not-found, distinct from other HTTP failures; a body
// missing either object is malformed, since with a single record there is
// no partial result worth keeping.
func (c *Client) FetchAnalysis(ctx context.Context, contractID string) (*DetailResponse, error) {
	endpoint := c.detailURL(contractID)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var detail DetailResponse
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, &APIError{
			Kind: ErrKindMalformed,
			URL:  endpoint,
			Hint: "the API answered but its response is not valid JSON",
			Err:  err,
		}
	}
	if detail.Contract == nil || detail.Analysis == nil {
		return nil, &APIError{
			Kind: ErrKindMalformed,
			URL:  endpoint,
			Hint: "the API answered without the contract or analysis object",
			Err:  errors.New("response body is missing the contract or analysis object"),
		}
	}

	c.log.Debug("contract analysis fetched", "url", endpoint, "contract_id", contractID)
	return &detail, nil
}

// CheckHealth probes the list endpoint with a hard 10 second ceiling and
// reports whether the API is reachable. It always returns a result; any
// failure, including the deadline firing, becomes part of the status.
func (c *Client) CheckHealth(ctx context.Context) model.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	endpoint := c.cfg.BaseURL + c.cfg.ListPath
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.HealthStatus{Error: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		reason := err.Error()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = fmt.Sprintf("no response within %s", healthTimeout)
		}
		c.log.Warn("health probe failed", "url", endpoint, "error", reason)
		return model.HealthStatus{Reachable: false, ResponseTimeMs: elapsed, Error: reason}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.HealthStatus{Reachable: false, ResponseTimeMs: elapsed, Error: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.HealthStatus{
			Reachable:      false,
			ResponseTimeMs: elapsed,
			Error:          fmt.Sprintf("HTTP %d from %s", resp.StatusCode, endpoint),
		}
	}
	if !json.Valid(body) {
		return model.HealthStatus{
			Reachable:      false,
			ResponseTimeMs: elapsed,
			Error:          "response is not valid JSON",
		}
	}

	return model.HealthStatus{Reachable: true, ResponseTimeMs: elapsed}
}

// get performs one GET with no-cache semantics and maps transport and HTTP
// failures to the error taxonomy. It returns the raw body on 2xx.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Kind: ErrKindTransport,
			URL:  endpoint,
			Hint: "the analysis API is not answering; verify the service is running and that base_url is correct",
			Err:  err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Kind: ErrKindTransport,
			URL:  endpoint,
			Hint: "the connection dropped while reading the response",
			Err:  err,
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &APIError{
			Kind:   ErrKindNotFound,
			URL:    endpoint,
			Status: resp.StatusCode,
			Hint:   "the requested contract does not exist upstream",
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Kind:   ErrKindHTTP,
			URL:    endpoint,
			Status: resp.StatusCode,
			Hint:   "the analysis API rejected the request; check its logs for the failing status",
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	return body, nil
}
