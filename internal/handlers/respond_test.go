package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"notely/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindForbidden, http.StatusForbidden},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindUnauthenticated, http.StatusUnauthorized},
		{apperr.Kind(99), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.kind); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	t.Run("domain error maps to status and message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, apperr.NotFound("Post not found"))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if body.Success {
			t.Error("success = true in error response")
		}
		if body.Message != "Post not found" {
			t.Errorf("message = %q, want %q", body.Message, "Post not found")
		}
	})

	t.Run("unexpected error is opaque 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, errors.New("pq: connection refused"))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "connection refused") {
			t.Errorf("internal detail leaked to client: %s", rec.Body.String())
		}
	})
}

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	writeData(rec, http.StatusCreated, map[string]string{"id": "x"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body dataResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
}

func TestDecodeBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	newReq := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}

	t.Run("valid body", func(t *testing.T) {
		var p payload
		if err := decodeBody(newReq(`{"name":"ok"}`), &p); err != nil {
			t.Fatalf("decodeBody error: %v", err)
		}
		if p.Name != "ok" {
			t.Errorf("Name = %q, want ok", p.Name)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		var p payload
		err := decodeBody(newReq(`{"name":"ok","nmae":"typo"}`), &p)
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("error = %v, want validation error", err)
		}
	})

	t.Run("malformed JSON rejected", func(t *testing.T) {
		var p payload
		if err := decodeBody(newReq(`{`), &p); err == nil {
			t.Error("malformed body accepted")
		}
	})

	t.Run("trailing data rejected", func(t *testing.T) {
		var p payload
		if err := decodeBody(newReq(`{"name":"a"}{"name":"b"}`), &p); err == nil {
			t.Error("trailing JSON accepted")
		}
	})
}

func TestDecodeWebhook(t *testing.T) {
	// Provider payloads carry unmodeled fields; those must not fail decode.
	var event webhookEvent
	body := `{"type":"user.created","object":"event","data":{"id":"u_1","first_name":"Ada","unknown":true}}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if err := decodeWebhook(req, &event); err != nil {
		t.Fatalf("decodeWebhook error: %v", err)
	}
	if event.Type != "user.created" || event.Data.ID != "u_1" {
		t.Errorf("decoded event = %+v", event)
	}
}

func TestIntQuery(t *testing.T) {
	tests := []struct {
		raw     string
		def     int
		want    int
		wantErr bool
	}{
		{"", 10, 10, false},
		{"3", 10, 3, false},
		{"1", 1, 1, false},
		{"0", 10, 0, true},
		{"-5", 10, 0, true},
		{"abc", 10, 0, true},
		{"1.5", 10, 0, true},
	}

	for _, tt := range tests {
		got, err := intQuery(tt.raw, tt.def)
		if (err != nil) != tt.wantErr {
			t.Errorf("intQuery(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("intQuery(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestOrEmpty(t *testing.T) {
	out, err := json.Marshal(orEmpty[string](nil))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "[]" {
		t.Errorf("nil slice encodes as %s, want []", out)
	}

	in := []int{1, 2}
	if got := orEmpty(in); len(got) != 2 {
		t.Errorf("orEmpty dropped elements: %v", got)
	}
}
