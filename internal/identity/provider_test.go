package identity

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		first string
		last  string
	}{
		{"two parts", "Ada Lovelace", "Ada", "Lovelace"},
		{"single word", "Ada", "Ada", ""},
		{"three parts", "Ada King Lovelace", "Ada", "King Lovelace"},
		{"extra whitespace", "  Ada   Lovelace ", "Ada", "Lovelace"},
		{"empty", "", "", ""},
		{"only spaces", "   ", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitName(tt.input)
			if first != tt.first || last != tt.last {
				t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)",
					tt.input, first, last, tt.first, tt.last)
			}
		})
	}
}

func TestHTTPProviderUpdateName(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "secret-key")
	if err := p.UpdateName(context.Background(), "user_123", "Ada", "Lovelace"); err != nil {
		t.Fatalf("UpdateName error: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
	if gotPath != "/v1/users/user_123" {
		t.Errorf("path = %s, want /v1/users/user_123", gotPath)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	for _, want := range []string{`"first_name":"Ada"`, `"last_name":"Lovelace"`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("body %q missing %s", gotBody, want)
		}
	}
}

func TestHTTPProviderDeleteUser(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL+"/", "key")
	if err := p.DeleteUser(context.Background(), "user_9"); err != nil {
		t.Fatalf("DeleteUser error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/v1/users/user_9" {
		t.Errorf("request = %s %s, want DELETE /v1/users/user_9", gotMethod, gotPath)
	}
}

func TestHTTPProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "key")
	if err := p.DeleteUser(context.Background(), "user_9"); err == nil {
		t.Error("DeleteUser succeeded against 502 response, want error")
	}
}

func TestNoop(t *testing.T) {
	var p Provider = Noop{}
	if err := p.UpdateName(context.Background(), "x", "a", "b"); err != nil {
		t.Errorf("Noop.UpdateName = %v", err)
	}
	if err := p.DeleteUser(context.Background(), "x"); err != nil {
		t.Errorf("Noop.DeleteUser = %v", err)
	}
}
