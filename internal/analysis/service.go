package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrNotConfigured is returned when no AI credential was provided.
var ErrNotConfigured = errors.New("AI analysis is not configured")

// ErrInvalidJSON is returned when the model's reply is not valid JSON.
var ErrInvalidJSON = errors.New("model returned invalid JSON")

var analysesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lostfound_analyses_total",
		Help: "Item detail analyses by mode and outcome.",
	},
	[]string{"mode", "outcome"},
)

// Service runs one analysis per call against a Completer.
type Service struct {
	completer Completer
}

// NewService returns a service using c. A nil c makes every call fail with
// ErrNotConfigured.
func NewService(c Completer) *Service {
	return &Service{completer: c}
}

// Configured reports whether the service can reach a model.
func (s *Service) Configured() bool {
	return s != nil && s.completer != nil
}

// Analyze builds the prompt for r, issues a single completion and returns the
// model's JSON reply unchanged.
func (s *Service) Analyze(ctx context.Context, r Request) (json.RawMessage, error) {
	mode := r.Mode
	if mode == "" {
		mode = "live"
	}
	if !s.Configured() {
		analysesTotal.WithLabelValues(mode, "not_configured").Inc()
		return nil, ErrNotConfigured
	}

	content, err := s.completer.Complete(ctx, BuildPrompt(r))
	if err != nil {
		analysesTotal.WithLabelValues(mode, "error").Inc()
		return nil, err
	}

	raw := bytes.TrimSpace([]byte(content))
	if len(raw) == 0 || !json.Valid(raw) {
		analysesTotal.WithLabelValues(mode, "invalid_json").Inc()
		return nil, fmt.Errorf("%w: %.80q", ErrInvalidJSON, content)
	}

	analysesTotal.WithLabelValues(mode, "ok").Inc()
	return json.RawMessage(raw), nil
}
