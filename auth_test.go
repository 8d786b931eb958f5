package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestAuthMiddleware_MissingHeader verifies requests without a Bearer token are
// rejected before any token lookup.
func TestAuthMiddleware_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := Handler{}
	router := gin.New()
	router.GET("/api/profile", h.authMiddleware(), func(c *gin.Context) {
		t.Error("handler should not run without a token")
	})

	for _, header := range []string{"", "Token abc", "bearer abc"} {
		req := httptest.NewRequest("GET", "/api/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestRegister_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := Handler{}
	router := gin.New()
	router.POST("/api/register", h.register)

	cases := []struct {
		name string
		body string
	}{
		{"malformed", `{"username":`},
		{"missing password", `{"username":"ana","email":"ana@example.com"}`},
		{"blank username", `{"username":"  ","email":"ana@example.com","password":"pw"}`},
		{"bad email", `{"username":"ana","email":"ana.example.com","password":"pw"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/register", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
