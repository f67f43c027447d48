package cbwapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cyberwatch/cbw-go/pkg/auth"
)

const (
	testAPIKey    = "key"
	testSecretKey = "secret"
)

var testNow = time.Date(2020, time.July, 28, 13, 2, 8, 0, time.UTC)

type fakeRoute struct {
	status int
	body   string
}

type fakeCall struct {
	method string
	uri    string
	body   string
}

// fakeAPI mimics the server side: it rejects badly signed requests and serves
// canned bodies keyed by "METHOD /request/uri".
type fakeAPI struct {
	t      *testing.T
	srv    *httptest.Server
	routes map[string]fakeRoute

	mu    sync.Mutex
	calls []fakeCall
}

func newFakeAPI(t *testing.T, routes map[string]fakeRoute) *fakeAPI {
	t.Helper()
	f := &fakeAPI{t: t, routes: routes}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		f.t.Errorf("read body: %v", err)
	}
	uri := r.URL.RequestURI()

	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{method: r.Method, uri: uri, body: string(body)})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	_, err = auth.Verify(auth.Request{
		Method:      r.Method,
		Path:        uri,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}, auth.Headers{
		Date:          r.Header.Get(auth.HeaderDate),
		ContentMD5:    r.Header.Get(auth.HeaderContentMD5),
		Authorization: r.Header.Get(auth.HeaderAuthorization),
	}, func(apiKey string) (string, bool) {
		if apiKey == testAPIKey {
			return testSecretKey, true
		}
		return "", false
	})
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"Unauthorized"}`)
		return
	}

	route, ok := f.routes[r.Method+" "+uri]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Not found"}`)
		return
	}
	status := route.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, route.body)
}

func (f *fakeAPI) Calls() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAPI) client(t *testing.T, opts ...Option) *Client {
	return f.clientWithKeys(t, testAPIKey, testSecretKey, opts...)
}

func (f *fakeAPI) clientWithKeys(t *testing.T, apiKey, secretKey string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	c, err := New(Config{URL: f.srv.URL, APIKey: apiKey, SecretKey: secretKey, Timeout: 2 * time.Second}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []map[string]any
}

func (l *recordingLogger) InfoObj(string, string, interface{})  {}
func (l *recordingLogger) DebugObj(string, string, interface{}) {}
func (l *recordingLogger) ErrorObj(string, string, interface{}) {}
func (l *recordingLogger) WarnObj(_ string, _ string, obj interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := obj.(map[string]any); ok {
		l.warns = append(l.warns, m)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	statuses []int
}

func (o *recordingObserver) ObserveRequest(_ string, status int, _ time.Duration) {
	o.mu.Lock()
	o.statuses = append(o.statuses, status)
	o.mu.Unlock()
}
