package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/clinic-console/internal/records"
)

var tracer = otel.Tracer("clinic-console/sources")

// maxBody caps how much of an upstream response is read.
const maxBody = 32 << 20

// HTTPConfig configures the backend record client.
type HTTPConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

// HTTPSource reads appointments, patients and the doctor directory from the
// clinic backend.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPSource(cfg HTTPConfig) (*HTTPSource, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("sources: backend base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPSource{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: httpClient,
	}, nil
}

// Appointments fetches by clinic when one is set and by doctor emails
// otherwise. A query naming neither returns nothing without a request.
func (s *HTTPSource) Appointments(ctx context.Context, q AppointmentQuery) ([]records.RawRecord, error) {
	if q.Empty() {
		return nil, nil
	}
	var endpoint string
	if clinic := strings.TrimSpace(q.Clinic); clinic != "" {
		endpoint = "/api/appointments/all?" + url.Values{"clinicName": {clinic}}.Encode()
	} else {
		emails := cleanEmails(q.DoctorEmails)
		for i, e := range emails {
			emails[i] = url.PathEscape(e)
		}
		endpoint = "/api/appointments/" + strings.Join(emails, ",")
	}
	return s.getRecords(ctx, "sources.appointments", endpoint)
}

// Patients fetches the patient list, scoped to clinic when given.
func (s *HTTPSource) Patients(ctx context.Context, clinic string) ([]records.RawRecord, error) {
	return s.getRecords(ctx, "sources.patients", withClinic("/api/patients", clinic))
}

// Doctors fetches the doctor directory, scoped to clinic when given.
func (s *HTTPSource) Doctors(ctx context.Context, clinic string) ([]Doctor, error) {
	raws, err := s.getRecords(ctx, "sources.doctors", withClinic("/api/call-history/doctors", clinic))
	if err != nil {
		return nil, err
	}
	out := make([]Doctor, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeDoctor(raw))
	}
	return out, nil
}

func withClinic(path, clinic string) string {
	if clinic = strings.TrimSpace(clinic); clinic == "" {
		return path
	}
	return path + "?" + url.Values{"clinicName": {clinic}}.Encode()
}

func (s *HTTPSource) getRecords(ctx context.Context, span, endpoint string) ([]records.RawRecord, error) {
	ctx, sp := tracer.Start(ctx, span)
	defer sp.End()
	sp.SetAttributes(attribute.String("http.path", endpoint))

	out, err := s.get(ctx, endpoint)
	if err != nil {
		sp.RecordError(err)
		sp.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	sp.SetAttributes(attribute.Int("records.count", len(out)))
	return out, nil
}

func (s *HTTPSource) get(ctx context.Context, endpoint string) ([]records.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("sources: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sources: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sources: upstream error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("sources: read body: %w", err)
	}
	return records.Flatten(body)
}
