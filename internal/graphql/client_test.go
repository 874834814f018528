package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func testServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, req gqlRequest)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, r, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDoSendsQueryVariablesAndHeaders(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request, req gqlRequest) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-key" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer secret-key")
		}
		if got := r.Header.Get(TenantHeader); got != "tenant-1" {
			t.Errorf("%s = %q, want %q", TenantHeader, got, "tenant-1")
		}
		if got := r.Header.Get("X-Extra"); got != "yes" {
			t.Errorf("X-Extra = %q, want %q", got, "yes")
		}
		if !strings.Contains(req.Query, "flow_run") {
			t.Errorf("query = %q, want it to contain flow_run", req.Query)
		}
		if req.Variables["flow_name"] != "etl" {
			t.Errorf("flow_name = %v, want etl", req.Variables["flow_name"])
		}
		w.Write([]byte(`{"data":{"flow_run":[{"id":"r1"},{"id":"r2"}]}}`))
	})

	c := New(Options{
		URL:      srv.URL,
		APIKey:   "secret-key",
		TenantID: "tenant-1",
		Headers:  map[string]string{"X-Extra": "yes"},
	})
	data, err := c.Do(context.Background(), `query F($flow_name:String){ flow_run { id } }`, map[string]any{"flow_name": "etl"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	runs, ok := data["flow_run"].([]any)
	if !ok {
		t.Fatalf("flow_run = %T, want []any", data["flow_run"])
	}
	if len(runs) != 2 {
		t.Errorf("len(flow_run) = %d, want 2", len(runs))
	}
}

func TestDoOmitsAuthWithoutKey(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request, req gqlRequest) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want empty", got)
		}
		w.Write([]byte(`{"data":{"secret_names":[]}}`))
	})

	c := New(Options{URL: srv.URL})
	if _, err := c.Do(context.Background(), `query { secret_names }`, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestDoReturnsGraphQLErrors(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request, req gqlRequest) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"Unauthenticated"}]}`))
	})

	c := New(Options{URL: srv.URL})
	_, err := c.Do(context.Background(), `query { agents { id } }`, nil)
	if err == nil {
		t.Fatal("Do: expected error")
	}
	if !strings.Contains(err.Error(), "Unauthenticated") {
		t.Errorf("error = %q, want it to mention Unauthenticated", err)
	}
}

func TestDoReturnsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	c := New(Options{URL: srv.URL})
	if _, err := c.Do(context.Background(), `query { agents { id } }`, nil); err == nil {
		t.Fatal("Do: expected error for non-200 response")
	}
}

func TestEndpoint(t *testing.T) {
	c := New(Options{URL: "http://localhost:4200/graphql"})
	if got := c.Endpoint(); got != "http://localhost:4200/graphql" {
		t.Errorf("Endpoint() = %q", got)
	}
}
