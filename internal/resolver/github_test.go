package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestResolver(baseURL string) *GitHub {
	g := NewGitHub()
	g.BaseURL = baseURL
	return g
}

func TestLatest(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want string
	}{
		{name: "v_prefix_trimmed", tag: "v1.20.0", want: "1.20.0"},
		{name: "bare_tag_unchanged", tag: "1.5.7", want: "1.5.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/repos/kubernetes/kops/releases/latest" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				if r.Header.Get("User-Agent") == "" {
					t.Error("missing User-Agent header")
				}
				fmt.Fprintf(w, `{"tag_name": %q}`, tt.tag)
			}))
			defer server.Close()

			got, err := newTestResolver(server.URL).Latest(context.Background(), "kubernetes/kops")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLatestUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	if _, err := newTestResolver(server.URL).Latest(context.Background(), "nosuch/repo"); err == nil {
		t.Fatal("expected error for missing repository")
	}
}

func TestLatestEmptyTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	if _, err := newTestResolver(server.URL).Latest(context.Background(), "some/repo"); err == nil {
		t.Fatal("expected error for release without a tag")
	}
}

func TestLatestMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	if _, err := newTestResolver(server.URL).Latest(context.Background(), "some/repo"); err == nil {
		t.Fatal("expected decode error")
	}
}
