package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inventrackpro/inventrack/internal/domain/product"
	"github.com/inventrackpro/inventrack/internal/http/handlers"
)

func bindRouter(out func() interface{}) *gin.Engine {
	r := gin.New()

	r.POST("/bind", func(c *gin.Context) {
		target := out()

		if !handlers.BindJSON(c, target) {
			return
		}

		c.Status(http.StatusOK)
	})

	return r
}

func postJSON(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestBindJSONValidationErrorsUseJSONFieldNames(t *testing.T) {
	r := bindRouter(func() interface{} { return &product.CreateProductRequest{} })

	w := postJSON(t, r, `{"name": "Widget"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Error struct {
			Details struct {
				Fields []handlers.FieldError `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if len(resp.Error.Details.Fields) == 0 {
		t.Fatalf("expected field errors, body=%s", w.Body.String())
	}

	// field names come from json tags, not Go names
	for _, fe := range resp.Error.Details.Fields {
		if fe.Field != strings.ToLower(fe.Field[:1])+fe.Field[1:] {
			t.Fatalf("field %q is not lower-camel json style", fe.Field)
		}
	}
}

func TestBindJSONSyntaxError(t *testing.T) {
	r := bindRouter(func() interface{} { return &product.CreateProductRequest{} })

	w := postJSON(t, r, `{"name": `)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "invalid_json_syntax") {
		t.Fatalf("expected syntax error detail, body=%s", w.Body.String())
	}
}

func TestBindJSONTypeMismatch(t *testing.T) {
	r := bindRouter(func() interface{} { return &product.CreateProductRequest{} })

	w := postJSON(t, r, `{"name": "Widget", "description": "d", "category": "c", "price": "ten"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "invalid_json_type") {
		t.Fatalf("expected type error detail, body=%s", w.Body.String())
	}
}
