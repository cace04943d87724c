package podcastindex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// testServer wraps an httptest server and counts requests.
type testServer struct {
	*httptest.Server
	requests int32
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *testServer {
	t.Helper()

	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&ts.requests, 1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	return ts
}

func (ts *testServer) Requests() int {
	return int(atomic.LoadInt32(&ts.requests))
}

func newTestClient(t *testing.T, server *testServer) *Client {
	t.Helper()

	return NewClient(Config{
		APIKey:    "test-key",
		APISecret: "test-secret",
		UserAgent: "tracklist-test/1.0",
		BaseURL:   server.URL,
		Timeout:   2 * time.Second,
		Now:       func() time.Time { return time.Unix(1700000000, 0) },
	})
}

func writeBody(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("failed to write response body: %v", err)
	}
}

func TestNewClient_BaseURLSlash(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://api.example.com/api/1.0"})
	if client.baseURL != "https://api.example.com/api/1.0/" {
		t.Errorf("expected trailing slash, got %q", client.baseURL)
	}

	client = NewClient(Config{})
	if client.baseURL != "" {
		t.Errorf("expected empty base URL to stay empty, got %q", client.baseURL)
	}
	if client.timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, client.timeout)
	}
}

func TestClient_SendsAuthHeaders(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET request, got %s", r.Method)
		}
		if got := r.Header.Get(HeaderAuthDate); got != "1700000000" {
			t.Errorf("expected X-Auth-Date 1700000000, got %q", got)
		}
		if got := r.Header.Get(HeaderAuthKey); got != "test-key" {
			t.Errorf("expected X-Auth-Key test-key, got %q", got)
		}
		if got := r.Header.Get(HeaderAuthorization); got != "2782ad65bd878a76107dd3f1cdbfabe647607c5d" {
			t.Errorf("unexpected Authorization %q", got)
		}
		if got := r.Header.Get(HeaderUserAgent); got != "tracklist-test/1.0" {
			t.Errorf("expected User-Agent tracklist-test/1.0, got %q", got)
		}
		writeBody(t, w, http.StatusOK, `{"status":"true","feed":{"id":1,"podcastGuid":"g1","title":"T"}}`)
	})

	client := newTestClient(t, server)
	if _, err := client.Feeds().ByGUID(context.Background(), "g1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_MissingConfigurationSendsNothing(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusOK, `{}`)
	})

	client := NewClient(Config{
		APIKey:    "test-key",
		UserAgent: "tracklist-test/1.0",
		BaseURL:   server.URL,
	})

	_, err := client.Feeds().ByGUID(context.Background(), "g1")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if !strings.Contains(err.Error(), opFeedByGUID) {
		t.Errorf("expected error to name the operation, got %q", err.Error())
	}
	if server.Requests() != 0 {
		t.Errorf("expected no requests, got %d", server.Requests())
	}
}

func TestClient_BlankArgumentsSendNothing(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusOK, `{}`)
	})
	client := newTestClient(t, server)
	ctx := context.Background()

	calls := map[string]func() error{
		"feed by guid": func() error {
			_, err := client.Feeds().ByGUID(ctx, "")
			return err
		},
		"rss url": func() error {
			_, err := client.Feeds().RSSURL(ctx, "   ")
			return err
		},
		"episodes by feed guid": func() error {
			_, err := client.Episodes().ByFeedGUID(ctx, "")
			return err
		},
		"episode by guids": func() error {
			_, err := client.Episodes().ByGUIDs(ctx, "feed", " ")
			return err
		},
		"album": func() error {
			_, err := client.Music().Album(ctx, "")
			return err
		},
		"songs": func() error {
			_, err := client.Music().Songs(ctx, "\t")
			return err
		},
		"search music": func() error {
			_, err := client.Search().Music(ctx, "   ")
			return err
		},
		"search podcasts": func() error {
			_, err := client.Search().Podcasts(ctx, "")
			return err
		},
		"fetch rss": func() error {
			_, err := client.FetchRSS(ctx, "")
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if server.Requests() != 0 {
		t.Errorf("expected no requests, got %d", server.Requests())
	}
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		delay      time.Duration
		wantKind   error
		wantStatus int
	}{
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `oops`,
			wantKind:   ErrUpstream,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"status":"false","description":"Authorization header doesn't match"}`,
			wantKind:   ErrUpstream,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:     "malformed json",
			status:   http.StatusOK,
			body:     `{"status":`,
			wantKind: ErrUpstream,
		},
		{
			name:     "timeout",
			status:   http.StatusOK,
			body:     `{}`,
			delay:    500 * time.Millisecond,
			wantKind: ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.delay > 0 {
					select {
					case <-time.After(tt.delay):
					case <-r.Context().Done():
						return
					}
				}
				writeBody(t, w, tt.status, tt.body)
			})

			client := NewClient(Config{
				APIKey:    "test-key",
				APISecret: "test-secret",
				UserAgent: "tracklist-test/1.0",
				BaseURL:   server.URL,
				Timeout:   100 * time.Millisecond,
			})

			_, err := client.Feeds().ByGUID(context.Background(), "g1")
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("expected %v, got %v", tt.wantKind, err)
			}

			var piErr *Error
			if !errors.As(err, &piErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if piErr.GUID != "g1" {
				t.Errorf("expected guid g1 on error, got %q", piErr.GUID)
			}
			if piErr.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, piErr.StatusCode)
			}
			if tt.wantStatus != 0 && piErr.Status != http.StatusText(tt.wantStatus) {
				t.Errorf("expected status text %q, got %q", http.StatusText(tt.wantStatus), piErr.Status)
			}
			if server.Requests() != 1 {
				t.Errorf("expected exactly one request (no retries), got %d", server.Requests())
			}
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	client := newTestClient(t, server)
	server.Close()

	_, err := client.Feeds().ByGUID(context.Background(), "g1")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if !IsTemporary(err) {
		t.Error("expected network error to be temporary")
	}
}

func TestClient_FetchRSS(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderAuthorization) != "" {
			t.Error("expected no Authorization header on RSS requests")
		}
		if got := r.Header.Get(HeaderUserAgent); got != "tracklist-test/1.0" {
			t.Errorf("expected User-Agent tracklist-test/1.0, got %q", got)
		}
		switch r.URL.Path {
		case "/feed.xml":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(`<rss><channel><title>x</title></channel></rss>`))
		default:
			http.NotFound(w, r)
		}
	})
	client := newTestClient(t, server)

	body, err := client.FetchRSS(context.Background(), server.URL+"/feed.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), "<channel>") {
		t.Errorf("unexpected body %q", body)
	}

	_, err = client.FetchRSS(context.Background(), server.URL+"/missing.xml")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	var piErr *Error
	if errors.As(err, &piErr) && piErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", piErr.StatusCode)
	}
}
