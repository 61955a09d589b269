package verification

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegistryClientRegister(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewRegistryClient(srv.URL)
	if err := client.Register(context.Background(), "abc-123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/user/abc-123" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
}

func TestRegistryClientRegisterNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewRegistryClient(srv.URL)
	if err := client.Register(context.Background(), "abc-123"); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}

func TestRegistryClientProof(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		verified bool
	}{
		{"success payload", http.StatusOK, `{"status":"success","nationality":"AR","passport_number":"X123"}`, true},
		{"pending payload", http.StatusOK, `{"status":"pending"}`, false},
		{"not found", http.StatusNotFound, "", false},
		{"malformed body", http.StatusOK, `{"status":`, false},
		{"empty body", http.StatusOK, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/user/abc-123/proof" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			client := NewRegistryClient(srv.URL)
			identity, verified, err := client.Proof(context.Background(), "abc-123")
			if err != nil {
				t.Fatalf("proof: %v", err)
			}
			if verified != tc.verified {
				t.Fatalf("expected verified=%v, got %v", tc.verified, verified)
			}
			if tc.verified && (identity.Nationality != "AR" || identity.PassportNumber != "X123") {
				t.Fatalf("unexpected identity: %+v", identity)
			}
		})
	}
}

func TestRegistryClientProofTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close() // refuse connections

	client := NewRegistryClient(srv.URL)
	if _, _, err := client.Proof(context.Background(), "abc-123"); err == nil {
		t.Fatalf("expected transport error from closed server")
	}
}
