package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/vladimiradmaev/diatrack/internal/config"
	"github.com/vladimiradmaev/diatrack/internal/domain"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
)

const (
	predictorName   = "risk predictor"
	maxPayloadBytes = 1 << 20
	noPayload       = "No payload"
)

// Payload is a prediction the predictor accepted to produce. The
// descriptive fields keep whatever JSON type the predictor used.
type Payload struct {
	RiskLevel       any     `json:"risk_level"`
	RiskProbability float64 `json:"risk_probability"`
	Recommendation  any     `json:"recommendation"`
	ModelUsed       any     `json:"model_used"`
}

// Predictor produces a prediction payload for an input. Errors are
// *errors.AppError of type external_api, timeout or external_rejected.
type Predictor interface {
	Predict(ctx context.Context, input domain.RiskQueryInput) (*Payload, error)
}

// Client calls the external risk predictor over HTTP. It makes exactly one
// attempt per call.
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg config.PredictorConfig) *Client {
	return &Client{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) Predict(ctx context.Context, input domain.RiskQueryInput) (*Payload, error) {
	requestBody, err := json.Marshal(input)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("encode predictor request: %w", err))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(requestBody))
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, predictorName)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewExternalAPIError(
			fmt.Errorf("request failed with status code %d", resp.StatusCode), predictorName).
			WithContext("status", resp.StatusCode)
	}

	return decodePayload(raw)
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.NewTimeoutError(err, predictorName)
	}
	return apperrors.NewExternalAPIError(err, predictorName)
}

// decodePayload accepts only a JSON object with a truthy success flag.
// Anything else is a rejection that keeps the body for diagnostics.
func decodePayload(raw []byte) (*Payload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, apperrors.NewRejectedError(predictorName, noPayload)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apperrors.NewRejectedError(predictorName, string(raw))
	}
	if fields == nil {
		return nil, apperrors.NewRejectedError(predictorName, noPayload)
	}

	if !truthy(fields["success"]) {
		return nil, apperrors.NewRejectedError(predictorName, fields)
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperrors.NewRejectedError(predictorName, fields)
	}
	return &payload, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
