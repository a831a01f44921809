package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestVWorld(t *testing.T, srv *httptest.Server, apiKey string) *VWorldProvider {
	t.Helper()

	p := NewVWorldProvider(apiKey, discardLogger())
	p.httpClient = srv.Client()
	p.baseURL = srv.URL
	return p
}

func TestVWorldExtractsCodeFromPNU(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("point"); !strings.HasPrefix(got, "127.0276") {
			t.Errorf("point must be lon,lat: %s", got)
		}
		_, _ = w.Write([]byte(`{"response":{"status":"OK","result":[{"text":"서울특별시 강남구 역삼동 736-1","pnu":"1168010100107360001"}]}}`))
	}))
	defer srv.Close()

	p := newTestVWorld(t, srv, "test-key")

	result := p.Resolve(context.Background(), testCoord)
	if result.Code != "1168010100" {
		t.Fatalf("expected first 10 digits of PNU, got %+v", result)
	}
	if result.Label == "" {
		t.Fatalf("expected label from result text")
	}
}

func TestVWorldPrefersStructuredFieldOverBodyScan(t *testing.T) {
	// 본문에 무관한 긴 숫자열이 있어도 구조화 필드의 level4LC가 이긴다
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"status":"OK","result":[{"text":"참조번호 9999999999999999999 서울특별시 강남구 역삼동","structure":{"level1":"서울특별시","level2":"강남구","level4L":"역삼동","level4LC":"1168010100"}}]}}`))
	}))
	defer srv.Close()

	p := newTestVWorld(t, srv, "test-key")

	result := p.Resolve(context.Background(), testCoord)
	if result.Code != "1168010100" {
		t.Fatalf("structured level4LC must win over body digit runs, got %+v", result)
	}
	if !strings.Contains(result.Diagnostic, "level4LC") {
		t.Fatalf("expected success diagnostic naming the source, got %q", result.Diagnostic)
	}
}

func TestVWorldBareCodeFallback(t *testing.T) {
	// PNU 없이 10자리 코드만 있는 응답
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"status":"OK","result":[{"text":"서울특별시 강남구 역삼동","code":"1168010100"}]}}`))
	}))
	defer srv.Close()

	p := newTestVWorld(t, srv, "test-key")

	result := p.Resolve(context.Background(), testCoord)
	if result.Code != "1168010100" {
		t.Fatalf("expected bare 10-digit fallback, got %+v", result)
	}
}

func TestVWorldTriesAddressTypesInOrder(t *testing.T) {
	var types []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addrType := r.URL.Query().Get("type")
		types = append(types, addrType)
		if addrType != "BOTH" {
			_, _ = w.Write([]byte(`{"response":{"status":"NOT_FOUND"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"response":{"status":"OK","result":[{"text":"역삼동","pnu":"1168010100107360001"}]}}`))
	}))
	defer srv.Close()

	p := newTestVWorld(t, srv, "test-key")

	result := p.Resolve(context.Background(), testCoord)
	if result.Code != "1168010100" {
		t.Fatalf("expected success on second type, got %+v", result)
	}
	if len(types) != 2 || types[0] != "PARCEL" || types[1] != "BOTH" {
		t.Fatalf("unexpected type order: %v", types)
	}
}

func TestVWorldAllTypesFailJoinsDiagnostics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"status":"ERROR"}}`))
	}))
	defer srv.Close()

	p := newTestVWorld(t, srv, "test-key")

	result := p.Resolve(context.Background(), testCoord)
	if result.HasCode() {
		t.Fatalf("unexpected success: %+v", result)
	}
	for _, addrType := range vworldAddressTypes {
		if !strings.Contains(result.Diagnostic, addrType) {
			t.Fatalf("diagnostic must mention %s: %s", addrType, result.Diagnostic)
		}
	}
}

func TestVWorldMissingKey(t *testing.T) {
	p := NewVWorldProvider("", discardLogger())
	result := p.Resolve(context.Background(), testCoord)
	if result.HasCode() || result.Diagnostic == "" {
		t.Fatalf("expected diagnostic-only result: %+v", result)
	}
}
