package providers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"labelprint-service/apperrors"
	"labelprint-service/providers"
)

func newBaracoda(url, apiKey string) *providers.BaracodaProvider {
	return providers.NewBaracodaProvider(providers.Config{BaseURL: url, APIKey: apiKey, Timeout: time.Second}, zap.NewNop())
}

func TestCreateBarcodes_Success(t *testing.T) {
	var gotPath, gotCount, gotAuth, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotCount = r.URL.Query().Get("count")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"barcodes_group":{"id":7,"barcodes":["HT-1","HT-2","HT-3"]}}`))
	}))
	defer srv.Close()

	group, err := newBaracoda(srv.URL, "secret").CreateBarcodes(context.Background(), "HT", 3)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/barcodes_group/HT/new", gotPath)
	assert.Equal(t, "3", gotCount)
	assert.Equal(t, "secret", gotAuth)
	assert.Equal(t, 7, group.ID)
	assert.Equal(t, []string{"HT-1", "HT-2", "HT-3"}, group.Barcodes)
}

func TestCreateBarcodes_NoAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"barcodes_group":{"id":1,"barcodes":["HT-1"]}}`))
	}))
	defer srv.Close()

	_, err := newBaracoda(srv.URL+"/", "").CreateBarcodes(context.Background(), "HT", 1)
	assert.NoError(t, err)
}

func TestCreateBarcodes_ErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"string errors", http.StatusUnprocessableEntity, `{"errors":["count too large","bad group"]}`, "count too large,bad group"},
		{"object errors", http.StatusBadRequest, `{"errors":[{"message":"unknown group"}]}`, "unknown group"},
		{"raw body", http.StatusInternalServerError, `Internal Server Error`, "Internal Server Error"},
		{"empty body", http.StatusServiceUnavailable, ``, "baracoda responded with status 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			group, err := newBaracoda(srv.URL, "").CreateBarcodes(context.Background(), "HT", 2)

			assert.Nil(t, group)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, apperrors.KindTransport, apperrors.KindOf(err))

			var statusErr *providers.StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
		})
	}
}

func TestCreateBarcodes_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newBaracoda(url, "").CreateBarcodes(context.Background(), "HT", 1)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindTransport, apperrors.KindOf(err))
}

func TestCreateBarcodes_MissingGroupInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newBaracoda(srv.URL, "").CreateBarcodes(context.Background(), "HT", 1)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindTransport, apperrors.KindOf(err))
}
