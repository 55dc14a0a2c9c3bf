package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func brotliRouter(body string) *gin.Engine {
	r := gin.New()
	r.Use(Brotli(5))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, body)
	})
	return r
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	body := strings.Repeat("attendance ", 500)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
	rec := httptest.NewRecorder()
	brotliRouter(body).ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("Content-Encoding = %q", rec.Header().Get("Content-Encoding"))
	}
	plain, err := io.ReadAll(brotli.NewReader(rec.Body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(plain) != body {
		t.Fatal("round trip mismatch")
	}
}

func TestBrotliSkipsSmallBodiesAndOtherClients(t *testing.T) {
	small := httptest.NewRequest(http.MethodGet, "/", nil)
	small.Header.Set("Accept-Encoding", "br")
	rec := httptest.NewRecorder()
	brotliRouter("ok").ServeHTTP(rec, small)
	if rec.Header().Get("Content-Encoding") != "" || rec.Body.String() != "ok" {
		t.Fatalf("small body: encoding=%q body=%q", rec.Header().Get("Content-Encoding"), rec.Body.String())
	}

	large := strings.Repeat("x", 4096)
	rec = httptest.NewRecorder()
	brotliRouter(large).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("Content-Encoding") != "" || rec.Body.String() != large {
		t.Fatal("client without br received encoded body")
	}
}
