package updater

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func releaseServer(t *testing.T, status int, rel Release) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Error("missing User-Agent")
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(rel)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// --- Newer ---

func TestNewer(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer patch", "0.2.0", "0.2.1", true},
		{"newer minor", "0.2.0", "0.3.0", true},
		{"newer major", "0.2.0", "1.0.0", true},
		{"same version", "0.2.0", "0.2.0", false},
		{"older version", "0.3.0", "0.2.0", false},
		{"v prefixes", "v0.2.0", "v0.2.1", true},
		{"empty current", "", "0.2.0", false},
		{"empty latest", "0.2.0", "", false},
		{"dev current", "dev", "0.2.0", false},
		{"two part version", "0.2", "0.3.0", true},
		{"minor jump", "0.9.0", "0.10.0", true},
		{"pre-release suffix ignored", "1.0.0-rc.1", "1.0.0", false},
		{"garbage latest", "1.0.0", "one.two", false},
		{"too many parts", "1.0.0", "1.0.0.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Newer(tt.current, tt.latest); got != tt.want {
				t.Errorf("Newer(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
			}
		})
	}
}

// --- Check ---

func TestCheck_UpdateAvailable(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, Release{TagName: "v0.5.0", HTMLURL: "https://example.com/r/0.5.0"})

	res, err := New(WithEndpoint(srv.URL)).Check(context.Background(), "v0.4.2")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := Result{Current: "0.4.2", Latest: "0.5.0", Available: true, URL: "https://example.com/r/0.5.0"}
	if res != want {
		t.Errorf("Check = %+v, want %+v", res, want)
	}
}

func TestCheck_AlreadyLatest(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, Release{TagName: "v0.5.0"})

	res, err := New(WithEndpoint(srv.URL)).Check(context.Background(), "0.5.0")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Available {
		t.Error("same version should not be an update")
	}
}

func TestCheck_DevBuild(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, Release{TagName: "v9.9.9"})

	res, err := New(WithEndpoint(srv.URL)).Check(context.Background(), "dev")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Available || res.Latest != "9.9.9" {
		t.Errorf("Check = %+v", res)
	}
}

func TestCheck_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := releaseServer(t, http.StatusForbidden, Release{})
		if _, err := New(WithEndpoint(srv.URL)).Check(context.Background(), "0.1.0"); err == nil {
			t.Error("expected error for non-200 status")
		}
	})
	t.Run("no tag", func(t *testing.T) {
		srv := releaseServer(t, http.StatusOK, Release{})
		if _, err := New(WithEndpoint(srv.URL)).Check(context.Background(), "0.1.0"); err == nil {
			t.Error("expected error for a release without a tag")
		}
	})
	t.Run("unreachable", func(t *testing.T) {
		c := New(WithEndpoint("http://127.0.0.1:1"), WithHTTPClient(&http.Client{Timeout: time.Second}))
		if _, err := c.Check(context.Background(), "0.1.0"); err == nil {
			t.Error("expected error for unreachable endpoint")
		}
	})
	t.Run("canceled", func(t *testing.T) {
		srv := releaseServer(t, http.StatusOK, Release{TagName: "v1.0.0"})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := New(WithEndpoint(srv.URL)).Check(ctx, "0.1.0"); err == nil {
			t.Error("expected error for canceled context")
		}
	})
}

func TestNew_Defaults(t *testing.T) {
	c := New(WithHTTPClient(nil))
	if c.endpoint != "https://api.github.com/repos/IlumCI/HACF/releases/latest" {
		t.Errorf("endpoint = %q", c.endpoint)
	}
	if c.client == nil || c.client.Timeout != DefaultTimeout {
		t.Error("expected default client with timeout")
	}
}
