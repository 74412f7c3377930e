package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"labelprint-service/apperrors"
	"labelprint-service/models"
)

var sprintHeaders = http.Header{"Content-Type": []string{"application/json"}}

type sprintJob struct {
	Print *struct {
		JobID string `json:"jobId"`
	} `json:"print"`
}

type sprintResponse struct {
	sprintJob
	Data   *sprintJob        `json:"data"`
	Errors []json.RawMessage `json:"errors"`
}

func (r *sprintResponse) jobID() string {
	if r.Data != nil && r.Data.Print != nil {
		return r.Data.Print.JobID
	}
	if r.Print != nil {
		return r.Print.JobID
	}
	return ""
}

type SprintProvider struct {
	http   *httpClient
	logger *zap.Logger
}

func NewSprintProvider(cfg Config, logger *zap.Logger) *SprintProvider {
	return &SprintProvider{
		http:   newHTTPClient("sprint", cfg),
		logger: logger,
	}
}

// Print posts body to SPrint. Messages in the response's errors array are
// returned as a gateway logic error, comma joined in response order.
func (p *SprintProvider) Print(ctx context.Context, body models.PrintRequestBody) (string, error) {
	respBytes, err := p.http.doJSON(ctx, http.MethodPost, "", nil, sprintHeaders, body, p.translateError)
	if err != nil {
		p.logger.Error("SPrint request failed",
			zap.String("printer", body.Variables.Printer),
			zap.Error(err))
		return "", err
	}

	var resp sprintResponse
	if len(respBytes) > 0 {
		if err := json.Unmarshal(respBytes, &resp); err != nil {
			return "", apperrors.Transport(fmt.Errorf("decode sprint response: %w", err))
		}
	}
	if len(resp.Errors) > 0 {
		return "", apperrors.GatewayLogic(errorMessages(resp.Errors))
	}

	return resp.jobID(), nil
}

// translateError keeps the errors array of a non-2xx answer when SPrint sent
// one; otherwise the status itself is the failure.
func (p *SprintProvider) translateError(status int, body []byte) error {
	var resp sprintResponse
	if err := json.Unmarshal(body, &resp); err == nil && len(resp.Errors) > 0 {
		return apperrors.GatewayLogic(errorMessages(resp.Errors))
	}
	return apperrors.Transport(&StatusError{Service: "sprint", StatusCode: status})
}
