package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"labelprint-service/apperrors"
	"labelprint-service/models"
)

type baracodaResponse struct {
	BarcodesGroup *models.BarcodeGroup `json:"barcodes_group"`
}

type baracodaErrorResponse struct {
	Errors []json.RawMessage `json:"errors"`
}

type BaracodaProvider struct {
	http   *httpClient
	logger *zap.Logger
}

func NewBaracodaProvider(cfg Config, logger *zap.Logger) *BaracodaProvider {
	return &BaracodaProvider{
		http:   newHTTPClient("baracoda", cfg),
		logger: logger,
	}
}

// CreateBarcodes asks Baracoda for count new barcodes from group.
func (p *BaracodaProvider) CreateBarcodes(ctx context.Context, group string, count int) (*models.BarcodeGroup, error) {
	path := fmt.Sprintf("/barcodes_group/%s/new", url.PathEscape(group))
	query := url.Values{"count": []string{strconv.Itoa(count)}}

	body, err := p.http.doJSON(ctx, http.MethodPost, path, query, nil, nil, p.translateError)
	if err != nil {
		p.logger.Error("Baracoda request failed",
			zap.String("group", group),
			zap.Int("count", count),
			zap.Error(err))
		return nil, err
	}

	var resp baracodaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Transport(fmt.Errorf("decode baracoda response: %w", err))
	}
	if resp.BarcodesGroup == nil {
		return nil, apperrors.Transport(fmt.Errorf("baracoda response has no barcodes_group"))
	}

	p.logger.Info("Barcodes issued",
		zap.String("group", group),
		zap.Int("barcodes_group_id", resp.BarcodesGroup.ID),
		zap.Int("count", len(resp.BarcodesGroup.Barcodes)))

	return resp.BarcodesGroup, nil
}

// translateError turns a non-2xx Baracoda answer into a transport error.
// Baracoda reports problems as {"errors": [...]} where each entry is either
// a string or an object with a message; anything else is reported raw.
func (p *BaracodaProvider) translateError(status int, body []byte) error {
	statusErr := &StatusError{Service: "baracoda", StatusCode: status}

	var resp baracodaErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && len(resp.Errors) > 0 {
		statusErr.Message = strings.Join(errorMessages(resp.Errors), ",")
	} else if raw := strings.TrimSpace(string(body)); raw != "" {
		statusErr.Message = raw
	}

	return apperrors.Transport(statusErr)
}

func errorMessages(entries []json.RawMessage) []string {
	messages := make([]string, 0, len(entries))
	for _, entry := range entries {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			messages = append(messages, s)
			continue
		}
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(entry, &obj); err == nil && obj.Message != "" {
			messages = append(messages, obj.Message)
			continue
		}
		messages = append(messages, string(entry))
	}
	return messages
}
