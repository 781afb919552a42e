package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDoGetEncodesQuery(t *testing.T) {
	var gotPath, gotQuery, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotHeader = r.Header.Get("X-Token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, Headers: map[string]string{"X-Token": "abc"}}
	res, err := c.Do(context.Background(), "get", "/books/", Params{{Key: "limit", Value: 3}, {Key: "q", Value: "go"}})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", res.StatusCode)
	}
	if gotPath != "/books/" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "limit=3") || !strings.Contains(gotQuery, "q=go") {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotHeader != "abc" {
		t.Fatalf("default header not sent, got %q", gotHeader)
	}
	if string(res.Body) != `{"ok":true}` {
		t.Fatalf("unexpected body %s", res.Body)
	}
}

func TestDoDuplicateParamKeysFirstWins(t *testing.T) {
	var gotQuery string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	dup := Params{{Key: "limit", Value: 3}, {Key: "limit", Value: 9}}

	if _, err := c.Do(context.Background(), "GET", "/books/", dup); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotQuery != "limit=3" {
		t.Fatalf("expected first value to win in query, got %q", gotQuery)
	}

	if _, err := c.Do(context.Background(), "POST", "/books", dup); err != nil {
		t.Fatalf("do: %v", err)
	}
	if got := gotBody["limit"]; got != float64(3) {
		t.Fatalf("expected first value to win in body, got %v", got)
	}
}

func TestDoPostSendsJSONBody(t *testing.T) {
	var gotContentType string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL + "/"}
	if _, err := c.Do(context.Background(), "POST", "/books", Params{{Key: "name", Value: "Clean Code"}}); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotBody["name"] != "Clean Code" {
		t.Fatalf("unexpected body %v", gotBody)
	}
}

func TestDoNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	if _, err := c.Do(context.Background(), "GET", "/fail", nil); err == nil {
		t.Fatal("expected error for 500 response")
	} else if !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("error should name the status: %v", err)
	}
}

func TestDoNetworkErrorFails(t *testing.T) {
	c := &Client{BaseURL: "http://127.0.0.1:1"}
	if _, err := c.Do(context.Background(), "GET", "/x", nil); err == nil {
		t.Fatal("expected network error")
	}
}
