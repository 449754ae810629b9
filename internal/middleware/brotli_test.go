package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func brotliRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/payload", handler)
	return r
}

func getPayload(r http.Handler, acceptEncoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/payload", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBrotli(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	decoded, err := io.ReadAll(brotli.NewReader(body))
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return string(decoded)
}

func TestBrotliCompressesLargeResponse(t *testing.T) {
	payload := strings.Repeat("institution directory row\n", 100)
	r := brotliRouter(func(c *gin.Context) {
		c.String(http.StatusOK, payload)
	})

	w := getPayload(r, "gzip, br")
	if got := w.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q, want br", got)
	}
	if got := decodeBrotli(t, w.Body); got != payload {
		t.Errorf("decoded body does not round-trip (%d bytes, want %d)", len(got), len(payload))
	}
}

func TestBrotliMultiWriteTail(t *testing.T) {
	head := strings.Repeat("a", brotliMinLength+500)
	tail := "short trailing chunk"
	r := brotliRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
		if _, err := c.Writer.WriteString(head); err != nil {
			t.Errorf("write head: %v", err)
		}
		if _, err := c.Writer.WriteString(tail); err != nil {
			t.Errorf("write tail: %v", err)
		}
	})

	w := getPayload(r, "br")
	if got := w.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q, want br", got)
	}
	// The tail sits below the threshold when the handler returns; it must
	// still arrive inside the compressed stream, not as raw trailing bytes.
	if got := decodeBrotli(t, w.Body); got != head+tail {
		t.Errorf("decoded body = %d bytes, want %d", len(got), len(head)+len(tail))
	}
}

func TestBrotliSkipsSmallResponse(t *testing.T) {
	r := brotliRouter(func(c *gin.Context) {
		c.String(http.StatusOK, "tiny")
	})

	w := getPayload(r, "br")
	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want empty for small body", got)
	}
	if w.Body.String() != "tiny" {
		t.Errorf("body = %q, want plain passthrough", w.Body.String())
	}
}

func TestBrotliSkipsNonAcceptingClient(t *testing.T) {
	payload := strings.Repeat("b", brotliMinLength*2)
	r := brotliRouter(func(c *gin.Context) {
		c.String(http.StatusOK, payload)
	})

	w := getPayload(r, "gzip")
	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want empty without br accept", got)
	}
	if w.Body.String() != payload {
		t.Error("body must pass through uncompressed")
	}
}
