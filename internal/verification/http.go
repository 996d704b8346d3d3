package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/clinic-console/internal/observability/metrics"
	"github.com/wolfman30/clinic-console/pkg/logging"
)

var tracer = otel.Tracer("clinic-console/verification")

const checkPath = "/api/call-history/checkAppointments"

// HTTPConfig configures the call-history gateway client.
type HTTPConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *logging.Logger
	Metrics    *metrics.ReconcileMetrics
}

// HTTPGateway calls the call-history service over HTTP.
type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.ReconcileMetrics
}

func NewHTTPGateway(cfg HTTPConfig) (*HTTPGateway, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("verification: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &HTTPGateway{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: httpClient,
		logger:     logger,
		metrics:    cfg.Metrics,
	}, nil
}

type checkRequest struct {
	AppointmentIDs []string `json:"appointmentIDs"`
}

// Check posts the batch and returns the verified subset. Empty batches are
// answered locally; every failure degrades to nothing verified.
func (g *HTTPGateway) Check(ctx context.Context, ids []string) Result {
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return Result{Found: []string{}, NotFound: []string{}}
	}

	ctx, span := tracer.Start(ctx, "verification.check")
	defer span.End()
	span.SetAttributes(attribute.Int("verification.batch_size", len(ids)))

	start := time.Now()
	res, err := g.post(ctx, ids)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "verification failed")
		g.metrics.ObserveVerification("error", elapsed)
		g.logger.Warn("verification gateway failed; treating batch as unverified",
			"batch_size", len(ids),
			"error", err,
		)
		return FailSafe(ids)
	}

	res = restrict(ids, res)
	span.SetAttributes(attribute.Int("verification.found", len(res.Found)))
	g.metrics.ObserveVerification("ok", elapsed)
	return res
}

func (g *HTTPGateway) post(ctx context.Context, ids []string) (Result, error) {
	body, err := json.Marshal(checkRequest{AppointmentIDs: ids})
	if err != nil {
		return Result{}, fmt.Errorf("verification: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+checkPath, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("verification: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("verification: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("verification: upstream error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("verification: decode response: %w", err)
	}
	return out, nil
}
