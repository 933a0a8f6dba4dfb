package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetch(t *testing.T) {
	want := []byte("artifact bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", ua, DefaultUserAgent)
		}
		w.Write(want)
	}))
	defer server.Close()

	got, err := NewClient().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Fetch() = %q, want %q", got, want)
	}
}

func TestFetchFollowsRedirects(t *testing.T) {
	want := []byte("redirected payload")

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Write(want)
	})

	got, err := NewClient().Fetch(context.Background(), server.URL+"/start")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Fetch() = %q, want %q", got, want)
	}
}

func TestFetchRedirectLoop(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	_, err := NewClient().Fetch(context.Background(), server.URL+"/loop")
	if err == nil {
		t.Fatal("Fetch() expected error on redirect loop, got none")
	}

	var unreachable *UnreachableError
	if !errors.As(err, &unreachable) {
		t.Errorf("Fetch() error = %T, want *UnreachableError", err)
	}
}

func TestFetchStatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "not_found", status: http.StatusNotFound},
		{name: "forbidden", status: http.StatusForbidden},
		{name: "server_error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewClient().Fetch(context.Background(), server.URL)
			if err == nil {
				t.Fatal("Fetch() expected error, got none")
			}

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("Fetch() error = %T, want *StatusError", err)
			}
			if statusErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.status)
			}
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient().Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("Fetch() expected error, got none")
	}

	var unreachable *UnreachableError
	if !errors.As(err, &unreachable) {
		t.Errorf("Fetch() error = %T, want *UnreachableError", err)
	}
	if unreachable.URL != url {
		t.Errorf("URL = %q, want %q", unreachable.URL, url)
	}
}

func TestFetchCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "never read")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().Fetch(ctx, server.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}
