package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kapu/rtms-price-go/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestKakao(t *testing.T, srv *httptest.Server, restKey string) *KakaoProvider {
	t.Helper()

	p := NewKakaoProvider(restKey, discardLogger())
	p.httpClient = srv.Client()
	p.baseURL = srv.URL
	return p
}

var testCoord = domain.Coordinate{Lat: 37.4979, Lon: 127.0276}

func TestKakaoPrefersLegalDongDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "KakaoAK test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}
		if r.URL.Query().Get("x") == "" || r.URL.Query().Get("y") == "" {
			t.Errorf("x/y parameters missing: %s", r.URL.RawQuery)
		}
		// 행정동(H) 문서가 먼저 와도 법정동(B)을 골라야 한다
		_, _ = w.Write([]byte(`{"documents":[
			{"region_type":"H","code":"1168064000","address_name":"서울특별시 강남구 역삼1동"},
			{"region_type":"B","code":"1168010100","address_name":"서울특별시 강남구 역삼동"}
		]}`))
	}))
	defer srv.Close()

	p := newTestKakao(t, srv, "test-key")

	result := p.Resolve(context.Background(), testCoord)
	if result.Code != "1168010100" {
		t.Fatalf("expected legal-dong code, got %+v", result)
	}
	if result.Label != "서울특별시 강남구 역삼동" {
		t.Fatalf("unexpected label: %s", result.Label)
	}
	// 성공 시에도 진단은 항상 채워진다 (어느 문서를 골랐는지)
	if !strings.Contains(result.Diagnostic, "region_type=B") {
		t.Fatalf("expected success diagnostic naming the picked document, got %q", result.Diagnostic)
	}
}

func TestKakaoFallsBackToFirstDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"documents":[{"region_type":"H","code":"1168064000","address_name":"서울특별시 강남구 역삼1동"}]}`))
	}))
	defer srv.Close()

	p := newTestKakao(t, srv, "test-key")

	result := p.Resolve(context.Background(), testCoord)
	if result.Code != "1168064000" {
		t.Fatalf("expected fallback to first document, got %+v", result)
	}
}

func TestKakaoFailureCarriesDiagnostic(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		p := NewKakaoProvider("", discardLogger())
		result := p.Resolve(context.Background(), testCoord)
		if result.HasCode() || result.Diagnostic == "" {
			t.Fatalf("expected diagnostic-only result: %+v", result)
		}
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		p := newTestKakao(t, srv, "bad-key")
		result := p.Resolve(context.Background(), testCoord)
		if result.HasCode() || result.Diagnostic == "" {
			t.Fatalf("expected diagnostic-only result: %+v", result)
		}
	})

	t.Run("no documents", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"documents":[]}`))
		}))
		defer srv.Close()

		p := newTestKakao(t, srv, "test-key")
		result := p.Resolve(context.Background(), testCoord)
		if result.HasCode() || result.Diagnostic == "" {
			t.Fatalf("expected diagnostic-only result: %+v", result)
		}
	})
}
