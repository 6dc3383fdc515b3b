package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DeepanshuK43/cropml/pkg/errors"
)

func TestHTTPStore_Get(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantVal  string
		wantOK   bool
		wantPath string
	}{
		{name: "present string", body: `"active"`, wantVal: "active", wantOK: true, wantPath: "/registry/station.json"},
		{name: "present object", body: `{"state":"active"}`, wantVal: `{"state":"active"}`, wantOK: true, wantPath: "/registry/station.json"},
		{name: "absent null", body: `null`, wantVal: "", wantOK: false, wantPath: "/registry/station.json"},
		{name: "absent empty", body: ``, wantVal: "", wantOK: false, wantPath: "/registry/station.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				if r.Method != http.MethodGet {
					t.Errorf("expected GET, got %s", r.Method)
				}
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			store := NewHTTPStore(srv.URL)
			val, ok, err := store.Get(context.Background(), "registry/station")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("ok: expected %v, got %v", tt.wantOK, ok)
			}
			if val != tt.wantVal {
				t.Errorf("value: expected %q, got %q", tt.wantVal, val)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path: expected %q, got %q", tt.wantPath, gotPath)
			}
		})
	}
}

func TestHTTPStore_GetErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL)
	_, _, err := store.Get(context.Background(), "registry/station")

	var remoteErr *errors.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remoteErr.Op != "get" {
		t.Errorf("expected op get, got %q", remoteErr.Op)
	}
}

func TestHTTPStore_Put(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotBody   map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL)
	if err := store.Put(context.Background(), "predictions", "2026-08-25T12:00:00Z", "rice"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("expected PATCH, got %s", gotMethod)
	}
	if gotPath != "/predictions.json" {
		t.Errorf("expected path /predictions.json, got %q", gotPath)
	}
	if gotBody["2026-08-25T12:00:00Z"] != "rice" {
		t.Errorf("expected body to carry the prediction, got %v", gotBody)
	}
}

func TestHTTPStore_PutErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL)
	err := store.Put(context.Background(), "predictions", "k", "v")

	var remoteErr *errors.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remoteErr.Op != "put" {
		t.Errorf("expected op put, got %q", remoteErr.Op)
	}
}

func TestHTTPStore_Unreachable(t *testing.T) {
	// A server that is already closed refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	store := NewHTTPStore(srv.URL)

	_, _, err := store.Get(context.Background(), "registry/station")
	if !errors.Is(err, errors.ErrStoreUnavailable) {
		t.Errorf("Get: expected ErrStoreUnavailable in chain, got %v", err)
	}

	err = store.Put(context.Background(), "predictions", "k", "v")
	if !errors.Is(err, errors.ErrStoreUnavailable) {
		t.Errorf("Put: expected ErrStoreUnavailable in chain, got %v", err)
	}
}
