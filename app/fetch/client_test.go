package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientGet(t *testing.T) {
	var gotUA, gotExtra string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotExtra = r.Header.Get("Referer")
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "test-agent", Credentials{}, false)
	data, err := client.Get(context.Background(), server.URL, map[string]string{"Referer": "https://example.org"})
	if err != nil {
		t.Fatalf("Expected fetch to succeed, got error: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Expected body 'payload', got: %q", data)
	}
	if gotUA != "test-agent" {
		t.Errorf("Expected configured User-Agent, got: %q", gotUA)
	}
	if gotExtra != "https://example.org" {
		t.Errorf("Expected extra header applied, got: %q", gotExtra)
	}
}

func TestClientGetStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "test-agent", Credentials{}, false)
	_, err := client.Get(context.Background(), server.URL, nil)
	if err == nil {
		t.Fatal("Expected an error for a 403 response")
	}

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected TransportError, got: %v", err)
	}
	if terr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403 in error, got: %d", terr.StatusCode)
	}
}

func TestClientGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 42}`))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "test-agent", Credentials{}, false)
	var out struct {
		ID int `json:"id"`
	}
	if err := client.GetJSON(context.Background(), server.URL, &out); err != nil {
		t.Fatalf("Expected JSON fetch to succeed, got error: %v", err)
	}
	if out.ID != 42 {
		t.Errorf("Expected id 42, got: %d", out.ID)
	}
}

func TestAuthHeaders(t *testing.T) {
	client := NewClient(time.Second, "test-agent", Credentials{Bearer: "b", Token: "t", Cookie: "c"}, false)
	headers := client.authHeaders("https://example.org")
	if headers["Authorization"] != "Bearer b" {
		t.Errorf("Expected bearer to win over token, got: %q", headers["Authorization"])
	}
	if headers["Cookie"] != "c" || headers["Referer"] != "https://example.org" {
		t.Errorf("Unexpected headers: %v", headers)
	}

	client = NewClient(time.Second, "test-agent", Credentials{Token: "t"}, false)
	headers = client.authHeaders("https://example.org")
	if headers["Authorization"] != "Token t" {
		t.Errorf("Expected token auth when no bearer set, got: %q", headers["Authorization"])
	}

	client = NewClient(time.Second, "test-agent", Credentials{}, false)
	headers = client.authHeaders("https://example.org")
	if _, ok := headers["Authorization"]; ok {
		t.Error("Expected no Authorization header without credentials")
	}
}
