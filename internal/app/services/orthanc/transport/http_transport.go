package transport

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/orthanc_dto"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// maxErrorBodyLength bounds the response body kept on a TransportError.
const maxErrorBodyLength = 2048

type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

type httpTransport struct {
	BaseURL  string
	Username string
	Password string
	Client   *http.Client
	Log      *zap.Logger
}

// NewHTTPTransport talks to Orthanc over its REST API with basic auth.
func NewHTTPTransport(config Config, logger *zap.Logger) contracts.OrthancRequester {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = constvars.OrthancDefaultRequestTimeout
	}
	return &httpTransport{
		BaseURL:  strings.TrimRight(config.BaseURL, "/"),
		Username: config.Username,
		Password: config.Password,
		Client:   &http.Client{Timeout: timeout},
		Log:      logger,
	}
}

func (t *httpTransport) Request(ctx context.Context, request *orthanc_dto.Request) (*orthanc_dto.Payload, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	t.Log.Debug("httpTransport.Request called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMethodKey, request.Method),
		zap.String(constvars.LoggingPathKey, request.Path),
	)

	body, contentType, err := encodeBody(request)
	if err != nil {
		t.Log.Error("httpTransport.Request error marshaling JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPathKey, request.Path),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, request.Method, t.buildURL(request), body)
	if err != nil {
		t.Log.Error("httpTransport.Request error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPathKey, request.Path),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	for key, values := range request.Headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if contentType != "" && req.Header.Get(constvars.HeaderContentType) == "" {
		req.Header.Set(constvars.HeaderContentType, contentType)
	}
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}
	if t.Username != "" || t.Password != "" {
		req.SetBasicAuth(t.Username, t.Password)
	}

	start := time.Now()
	resp, err := t.Client.Do(req)
	if err != nil {
		t.Log.Error("httpTransport.Request error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMethodKey, request.Method),
			zap.String(constvars.LoggingPathKey, request.Path),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		return nil, &exceptions.TransportError{Method: request.Method, Path: request.Path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Log.Error("httpTransport.Request error reading response body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPathKey, request.Path),
			zap.Error(err),
		)
		return nil, &exceptions.TransportError{Method: request.Method, Path: request.Path, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		t.Log.Warn("httpTransport.Request orthanc responded with error status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMethodKey, request.Method),
			zap.String(constvars.LoggingPathKey, request.Path),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return nil, &exceptions.TransportError{
			Method:     request.Method,
			Path:       request.Path,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(raw), maxErrorBodyLength),
		}
	}

	payload, err := decodePayload(resp.Header.Get(constvars.HeaderContentType), raw)
	if err != nil {
		t.Log.Error("httpTransport.Request error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPathKey, request.Path),
			zap.Error(err),
		)
		return nil, exceptions.ErrOrthancDecodeResponse(err, request.Path)
	}

	t.Log.Info("httpTransport.Request succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMethodKey, request.Method),
		zap.String(constvars.LoggingPathKey, request.Path),
		zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		zap.String(constvars.LoggingContentTypeKey, payload.Kind.String()),
		zap.Int(constvars.LoggingResponseLenKey, len(raw)),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	return payload, nil
}

func (t *httpTransport) buildURL(request *orthanc_dto.Request) string {
	target := t.BaseURL + request.Path
	if len(request.Query) > 0 {
		target += "?" + request.Query.Encode()
	}
	return target
}

func encodeBody(request *orthanc_dto.Request) (io.Reader, string, error) {
	switch body := request.Body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(body), constvars.MIMEOctetStream, nil
	case string:
		return strings.NewReader(body), constvars.MIMETextPlain, nil
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(encoded), constvars.MIMEApplicationJSON, nil
	}
}

// decodePayload picks the payload kind from the content type. JSON bodies are
// decoded into generic maps and slices.
func decodePayload(contentType string, raw []byte) (*orthanc_dto.Payload, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	payload := &orthanc_dto.Payload{ContentType: contentType, Raw: raw}
	switch {
	case mediaType == constvars.MIMEApplicationJSON:
		if len(bytes.TrimSpace(raw)) == 0 {
			payload.Kind = orthanc_dto.PayloadText
			return payload, nil
		}
		payload.Kind = orthanc_dto.PayloadJSON
		if err := json.Unmarshal(raw, &payload.Data); err != nil {
			return nil, err
		}
	case strings.HasPrefix(mediaType, "text/") || (mediaType == "" && len(raw) == 0):
		payload.Kind = orthanc_dto.PayloadText
		payload.Text = string(raw)
	default:
		payload.Kind = orthanc_dto.PayloadBinary
	}
	return payload, nil
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
