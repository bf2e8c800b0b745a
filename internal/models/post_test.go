package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTagListValue(t *testing.T) {
	tests := []struct {
		name string
		tags TagList
		want string
	}{
		{"nil becomes empty array", nil, "[]"},
		{"empty list", TagList{}, "[]"},
		{"single tag", TagList{"go"}, `["go"]`},
		{"order preserved", TagList{"go", "web", "api"}, `["go","web","api"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.tags.Value()
			if err != nil {
				t.Fatalf("Value() error: %v", err)
			}
			got := string(v.([]byte))
			if got != tt.want {
				t.Errorf("Value() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTagListScan(t *testing.T) {
	var tags TagList
	if err := tags.Scan([]byte(`["go","web"]`)); err != nil {
		t.Fatalf("Scan bytes: %v", err)
	}
	if len(tags) != 2 || tags[0] != "go" || tags[1] != "web" {
		t.Errorf("Scan bytes = %v, want [go web]", tags)
	}

	// Drivers may hand jsonb over as a string.
	if err := tags.Scan(`["one"]`); err != nil {
		t.Fatalf("Scan string: %v", err)
	}
	if len(tags) != 1 || tags[0] != "one" {
		t.Errorf("Scan string = %v, want [one]", tags)
	}

	if err := tags.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if tags != nil {
		t.Errorf("Scan nil = %v, want nil", tags)
	}

	if err := tags.Scan(42); err == nil {
		t.Error("Scan int succeeded, want error")
	}
}

func TestTagListContains(t *testing.T) {
	tags := TagList{"go", "web"}
	if !tags.Contains("go") {
		t.Error(`Contains("go") = false, want true`)
	}
	if tags.Contains("Go") {
		t.Error(`Contains("Go") = true, want false (matching is exact)`)
	}
	if TagList(nil).Contains("go") {
		t.Error("nil list Contains = true, want false")
	}
}

// TestUserJSONHidesSecrets verifies the credential fields never leak into
// API responses.
func TestUserJSONHidesSecrets(t *testing.T) {
	hash := "bcrypt-hash"
	ext := "user_abc"
	secret := "JBSWY3DP"
	u := User{Name: "Ada", Email: "ada@example.com", Role: RoleCreator,
		PasswordHash: &hash, ExternalID: &ext, TOTPSecret: &secret}

	body, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	for _, leaked := range []string{"bcrypt-hash", "user_abc", "JBSWY3DP"} {
		if strings.Contains(string(body), leaked) {
			t.Errorf("serialized user leaks %q: %s", leaked, body)
		}
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleReader.Valid() || !RoleCreator.Valid() {
		t.Error("known roles reported invalid")
	}
	if Role("admin").Valid() {
		t.Error(`Role("admin").Valid() = true, want false`)
	}
}
