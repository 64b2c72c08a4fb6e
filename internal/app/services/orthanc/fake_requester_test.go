package orthanc

import (
	"context"
	"net/http"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/orthanc_dto"
	"sync"

	"github.com/goccy/go-json"
)

type fakeResponse struct {
	payload *orthanc_dto.Payload
	err     error
}

// fakeRequester answers by "METHOD path". Queued responses are served in order
// and the last one repeats. Unknown routes answer 404.
type fakeRequester struct {
	mu     sync.Mutex
	routes map[string][]fakeResponse
	calls  []*orthanc_dto.Request
}

func newFakeRequester() *fakeRequester {
	return &fakeRequester{routes: map[string][]fakeResponse{}}
}

func (f *fakeRequester) on(method, path string, responses ...fakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = responses
}

func (f *fakeRequester) Request(ctx context.Context, request *orthanc_dto.Request) (*orthanc_dto.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, request)

	key := request.Method + " " + request.Path
	queue := f.routes[key]
	if len(queue) == 0 {
		return nil, &exceptions.TransportError{Method: request.Method, Path: request.Path, StatusCode: http.StatusNotFound}
	}
	response := queue[0]
	if len(queue) > 1 {
		f.routes[key] = queue[1:]
	}
	return response.payload, response.err
}

func (f *fakeRequester) callCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.calls {
		if call.Method == method && call.Path == path {
			count++
		}
	}
	return count
}

func (f *fakeRequester) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRequester) lastCall(method, path string) *orthanc_dto.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method && f.calls[i].Path == path {
			return f.calls[i]
		}
	}
	return nil
}

// jsonResponse goes through a real encode and decode so numbers and arrays
// have the shapes the HTTP transport produces.
func jsonResponse(value any) fakeResponse {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		panic(err)
	}
	return fakeResponse{payload: &orthanc_dto.Payload{Kind: orthanc_dto.PayloadJSON, ContentType: "application/json", Data: data, Raw: raw}}
}

func textResponse(text string) fakeResponse {
	return fakeResponse{payload: &orthanc_dto.Payload{Kind: orthanc_dto.PayloadText, ContentType: "text/plain", Text: text, Raw: []byte(text)}}
}

func binaryResponse(raw []byte) fakeResponse {
	return fakeResponse{payload: &orthanc_dto.Payload{Kind: orthanc_dto.PayloadBinary, ContentType: "application/octet-stream", Raw: raw}}
}

func errorResponse(err error) fakeResponse {
	return fakeResponse{err: err}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "read tcp: i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
