package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/orthanc_dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPTransport_Request(t *testing.T) {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")

	t.Run("JSON Response Is Decoded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "orthanc", username)
			assert.Equal(t, "secret", password)
			assert.Equal(t, "/studies/abc", r.URL.Path)
			assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Write([]byte(`{"ID":"abc","Series":["s1","s2"],"IsStable":true}`))
		}))
		defer server.Close()
		transport := NewHTTPTransport(Config{BaseURL: server.URL + "/", Username: "orthanc", Password: "secret"}, zap.NewNop())

		payload, err := transport.Request(ctx, &orthanc_dto.Request{Method: http.MethodGet, Path: "/studies/abc"})

		require.NoError(t, err)
		assert.Equal(t, orthanc_dto.PayloadJSON, payload.Kind)
		object, ok := payload.Object()
		require.True(t, ok)
		assert.Equal(t, "abc", object["ID"])
		assert.Equal(t, []any{"s1", "s2"}, object["Series"])
	})

	t.Run("JSON Body And Query Are Sent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.True(t, r.URL.Query().Has("simplify"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"Level":"Study","Query":{"PatientID":"P*"}}`, string(body))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ID":"q1","Path":"/queries/q1"}`))
		}))
		defer server.Close()
		transport := NewHTTPTransport(Config{BaseURL: server.URL}, zap.NewNop())

		_, err := transport.Request(ctx, &orthanc_dto.Request{
			Method: http.MethodPost,
			Path:   "/modalities/PACS/query",
			Query:  url.Values{"simplify": []string{""}},
			Body:   &orthanc_dto.QueryRequest{Level: "Study", Query: map[string]string{"PatientID": "P*"}},
		})

		require.NoError(t, err)
	})

	t.Run("Binary And Text Responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/studies/abc/archive":
				w.Header().Set("Content-Type", "application/zip")
				w.Write([]byte("PK\x03\x04"))
			case "/patients/p/protected":
				w.Header().Set("Content-Type", "text/plain")
				w.Write([]byte("1"))
			}
		}))
		defer server.Close()
		transport := NewHTTPTransport(Config{BaseURL: server.URL}, zap.NewNop())

		zip, err := transport.Request(ctx, &orthanc_dto.Request{Method: http.MethodGet, Path: "/studies/abc/archive"})
		require.NoError(t, err)
		assert.Equal(t, orthanc_dto.PayloadBinary, zip.Kind)
		assert.Equal(t, []byte("PK\x03\x04"), zip.Raw)

		text, err := transport.Request(ctx, &orthanc_dto.Request{Method: http.MethodGet, Path: "/patients/p/protected"})
		require.NoError(t, err)
		assert.Equal(t, orthanc_dto.PayloadText, text.Kind)
		assert.Equal(t, "1", text.Text)
	})

	t.Run("Error Status Becomes A Transport Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"Message":"Unknown resource"}`))
		}))
		defer server.Close()
		transport := NewHTTPTransport(Config{BaseURL: server.URL}, zap.NewNop())

		_, err := transport.Request(ctx, &orthanc_dto.Request{Method: http.MethodGet, Path: "/studies/missing"})

		var transportErr *exceptions.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusNotFound, transportErr.StatusCode)
		assert.True(t, transportErr.NotFound())
		assert.Contains(t, transportErr.Body, "Unknown resource")
	})

	t.Run("Client Timeout Is Reported As Timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)
		transport := NewHTTPTransport(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond}, zap.NewNop())

		_, err := transport.Request(ctx, &orthanc_dto.Request{Method: http.MethodPost, Path: "/studies/abc/anonymize", Body: map[string]any{}})

		var transportErr *exceptions.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.True(t, transportErr.Timeout())
		assert.Equal(t, 0, transportErr.StatusCode)
	})

	t.Run("Raw Bytes Keep The Caller Content Type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/dicom", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, []byte("DICM"), body)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ID":"i1"}`))
		}))
		defer server.Close()
		transport := NewHTTPTransport(Config{BaseURL: server.URL}, zap.NewNop())

		_, err := transport.Request(ctx, &orthanc_dto.Request{
			Method:  http.MethodPost,
			Path:    "/instances",
			Headers: http.Header{"Content-Type": []string{"application/dicom"}},
			Body:    []byte("DICM"),
		})

		require.NoError(t, err)
	})
}
