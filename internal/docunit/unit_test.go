package docunit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yourorg/adfmt/internal/annotate"
	"github.com/yourorg/adfmt/internal/probe"
	"github.com/yourorg/adfmt/internal/schema"
)

func testServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{Name: "", Client: &probe.Client{BaseURL: "http://x"}}); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit for empty name, got %v", err)
	}
	if _, err := New(Config{Name: "books", Client: &probe.Client{}}); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit for empty base url, got %v", err)
	}
	if _, err := New(Config{Name: "books"}); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit for nil client, got %v", err)
	}
}

func TestGetRendersDoc(t *testing.T) {
	srv := testServer(t, `{"id":1,"name":"Clean Code"}`)
	u, err := New(Config{
		Name:   "books",
		Group:  "Books",
		Client: &probe.Client{BaseURL: srv.URL},
	})
	if err != nil {
		t.Fatal(err)
	}

	doc, err := u.Get(context.Background(), "/books/", "Get books", probe.Params{{Key: "limit", Value: 3}})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Method != "get" || doc.Path != "/books/" || doc.StatusCode != http.StatusOK {
		t.Fatalf("unexpected doc meta %+v", doc)
	}

	out := doc.Output()
	for _, want := range []string{
		"def books() -> None:",
		"@api {get} /books/ Get books",
		"@apiGroup Books",
		"@apiParam {Number} limit ready to fill in",
		"@apiSuccess {Number} id ready to fill in",
		"@apiSuccess {String} name ready to fill in",
		"@apiSuccessExample {json} success-example",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	// success lines keep walker order: id before name
	if strings.Index(out, "{Number} id") > strings.Index(out, "{String} name") {
		t.Fatalf("success fields out of order:\n%s", out)
	}
}

func TestGetErrorSection(t *testing.T) {
	srv := testServer(t, `{"ok":true}`)
	u, err := New(Config{
		Name:         "books",
		Client:       &probe.Client{BaseURL: srv.URL},
		Permission:   Permission{Name: "Admin", Explain: "User admin is required"},
		ErrorExample: map[string]any{"code": 403, "message": "forbidden"},
	})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := u.Get(context.Background(), "/books/", "Books", nil)
	if err != nil {
		t.Fatal(err)
	}
	out := doc.Output()
	if !strings.Contains(out, "@apiPermission admin User admin is required") {
		t.Fatalf("permission line missing:\n%s", out)
	}
	if !strings.Contains(out, "@apiError {Number} code") || !strings.Contains(out, "@apiError {String} message") {
		t.Fatalf("error fields missing:\n%s", out)
	}
	if !strings.Contains(out, "@apiErrorExample {json} error-example") {
		t.Fatalf("error example missing:\n%s", out)
	}
}

func TestHeaderSection(t *testing.T) {
	srv := testServer(t, `{}`)
	u, err := New(Config{
		Name: "books",
		Client: &probe.Client{
			BaseURL: srv.URL,
			Headers: map[string]string{"X-Token": "abc"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := u.Get(context.Background(), "/books/", "Books", nil)
	if err != nil {
		t.Fatal(err)
	}
	out := doc.Output()
	if !strings.Contains(out, "@apiHeader {String} X-Token") {
		t.Fatalf("header line missing:\n%s", out)
	}
	if !strings.Contains(out, "@apiHeaderExample {json} header-example") {
		t.Fatalf("header example missing:\n%s", out)
	}
}

func TestNonJSONBodyFailsFast(t *testing.T) {
	srv := testServer(t, `<html>not json</html>`)
	u, err := New(Config{Name: "books", Client: &probe.Client{BaseURL: srv.URL}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := u.Get(context.Background(), "/books/", "Books", nil); !errors.Is(err, schema.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestHTTPFailureYieldsNoDoc(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()
	u, err := New(Config{Name: "books", Client: &probe.Client{BaseURL: srv.URL}})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := u.Get(context.Background(), "/books/", "Books", nil)
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if doc != nil {
		t.Fatal("failed probe must not produce a partial doc")
	}
}

func TestIllegalPathRejected(t *testing.T) {
	u, err := New(Config{Name: "books", Client: &probe.Client{BaseURL: "http://localhost"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := u.Get(context.Background(), "?bad", "Bad", nil); !errors.Is(err, annotate.ErrIllegalPath) {
		t.Fatalf("expected ErrIllegalPath, got %v", err)
	}
}
