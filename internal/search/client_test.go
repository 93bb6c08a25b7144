package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/wgomg/oratoria/internal/config"
	"github.com/wgomg/oratoria/internal/utils"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	client, err := NewClient(&config.Config{
		App:    config.AppConfig{HttpTimeoutSeconds: 5},
		Search: config.SearchConfig{URL: url},
	}, utils.NewDiscardLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestSnippetsFlattensGroups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "la tierra es plana" {
			t.Errorf("q = %q", q)
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("format = %q", r.URL.Query().Get("format"))
		}
		w.Write([]byte(`{
			"Heading": "Tierra",
			"RelatedTopics": [
				{"Text": "La Tierra es el tercer planeta.", "FirstURL": "https://x/1"},
				{"Name": "Forma", "Topics": [
					{"Text": "La Tierra es un esferoide oblato."},
					{"Text": "  "}
				]}
			]
		}`))
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL).Snippets(context.Background(), "la tierra es plana")
	if err != nil {
		t.Fatalf("Snippets: %v", err)
	}
	want := []string{"La Tierra es el tercer planeta.", "La Tierra es un esferoide oblato."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSnippetsNoTopics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Heading": ""}`))
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL).Snippets(context.Background(), "nada")
	if err != nil {
		t.Fatalf("Snippets: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty non-nil slice", got)
	}
}

func TestSnippetsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Snippets(context.Background(), "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("err = %v, want APIError 502", err)
	}
}
