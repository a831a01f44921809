package rtms

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/internal/service/cache"
	"github.com/kapu/rtms-price-go/pkg/errors"
)

// memStore: 테스트용 인메모리 캐시 (TTL 무시)
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (s *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = b
	return nil
}

func newTestFetcher(t *testing.T, srv *httptest.Server, serviceKey string, successCodes []string) *Fetcher {
	t.Helper()

	logger := discardLogger()
	memo := cache.NewMemoizer(newMemStore(), logger)
	f := NewFetcher(newTestClient(srv.Client(), logger), memo, serviceKey, successCodes, logger)
	f.endpointFor = func(p domain.ProductType) Endpoint {
		return Endpoint{ID: p.String(), URL: srv.URL, Product: p}
	}
	return f
}

func okXML(count int, names ...string) string {
	items := ""
	for _, name := range names {
		items += fmt.Sprintf("<item><aptNm>%s</aptNm><dealAmount>100,000</dealAmount><dealYear>2025</dealYear><dealMonth>7</dealMonth><dealDay>1</dealDay></item>", name)
	}
	return fmt.Sprintf(`<response><header><resultCode>00</resultCode><resultMsg>OK</resultMsg></header><body><items>%s</items><totalCount>%d</totalCount></body></response>`, items, count)
}

func TestFetcherFetchAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.URL.Query().Get("LAWD_CD"); got != "11680" {
			t.Errorf("unexpected LAWD_CD: %s", got)
		}
		if got := r.URL.Query().Get("DEAL_YMD"); got != "202507" {
			t.Errorf("unexpected DEAL_YMD: %s", got)
		}
		_, _ = w.Write([]byte(okXML(1, "개포주공")))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, "plainkey", nil)
	ctx := context.Background()
	ym := domain.YearMonth{Year: 2025, Month: 7}

	outcome, err := f.Fetch(ctx, domain.ProductApt, "1168010300", ym)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(outcome.Records) != 1 || outcome.Records[0].ComplexName != "개포주공" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	// 두 번째 호출은 캐시에서 와야 한다
	if _, err := f.Fetch(ctx, domain.ProductApt, "1168010300", ym); err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected single upstream call, got %d", got)
	}
}

func TestFetcherMissingKeyFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no upstream call expected without credentials")
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, "", nil)

	_, err := f.Fetch(context.Background(), domain.ProductApt, "11680", domain.YearMonth{Year: 2025, Month: 7})

	var cfgErr *errors.ConfigError
	if !stderrors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestFetcherKeyVariantFallbackOn403(t *testing.T) {
	// 2번째 변형(퍼센트 디코딩 결과)만 수락하는 업스트림
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("serviceKey") != "abc def==" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(okXML(1, "래미안")))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, "abc+def==", nil)

	outcome, err := f.Fetch(context.Background(), domain.ProductApt, "11680", domain.YearMonth{Year: 2025, Month: 7})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(outcome.Records) != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if got := hits.Load(); got < 2 {
		t.Fatalf("expected variant fallback, hits=%d", got)
	}
}

func TestFetcherUpstreamFailureDespiteHTTP200(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`<response><header><resultCode>99</resultCode><resultMsg>SYSTEM ERROR</resultMsg></header><body><totalCount>0</totalCount></body></response>`))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, "plainkey", nil)

	_, err := f.Fetch(context.Background(), domain.ProductApt, "11680", domain.YearMonth{Year: 2025, Month: 7})

	var upErr *errors.UpstreamError
	if !stderrors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.Code != "99" || upErr.Message != "SYSTEM ERROR" {
		t.Fatalf("upstream message must pass through verbatim: %+v", upErr)
	}
	// 키 문제가 아니므로 변형 전환 없이 1회로 끝나야 한다
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected single attempt, hits=%d", got)
	}
}

func TestFetcherKeyRelatedEmbeddedCodeTriesAllVariants(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`<OpenAPI_ServiceResponse><cmmMsgHeader><returnAuthMsg>SERVICE_KEY_IS_NOT_REGISTERED_ERROR</returnAuthMsg><returnReasonCode>30</returnReasonCode></cmmMsgHeader></OpenAPI_ServiceResponse>`))
	}))
	defer srv.Close()

	key := "abc+def=="
	f := newTestFetcher(t, srv, key, nil)

	_, err := f.Fetch(context.Background(), domain.ProductApt, "11680", domain.YearMonth{Year: 2025, Month: 7})

	var upErr *errors.UpstreamError
	if !stderrors.As(err, &upErr) || upErr.Code != "30" {
		t.Fatalf("expected embedded key error, got %v", err)
	}
	if got := int(hits.Load()); got != len(KeyVariants(key)) {
		t.Fatalf("expected all %d variants tried, hits=%d", len(KeyVariants(key)), got)
	}
}

func TestFetcherConfigurableSuccessCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<response><header><resultCode>77</resultCode><resultMsg>OK</resultMsg></header><body><totalCount>0</totalCount></body></response>`))
	}))
	defer srv.Close()

	// 기본 집합으로는 실패
	f := newTestFetcher(t, srv, "plainkey", nil)
	if _, err := f.Fetch(context.Background(), domain.ProductApt, "11680", domain.YearMonth{Year: 2025, Month: 7}); err == nil {
		t.Fatalf("expected failure with default success codes")
	}

	// 운영 설정으로 동의어를 추가하면 성공
	f = newTestFetcher(t, srv, "plainkey", []string{"00", "77"})
	outcome, err := f.Fetch(context.Background(), domain.ProductApt, "11680", domain.YearMonth{Year: 2025, Month: 7})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if outcome.TotalCount != 0 || len(outcome.Records) != 0 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestFetcherPagination(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Query().Get("pageNo") {
		case "1":
			_, _ = w.Write([]byte(okXML(3, "단지A", "단지B")))
		case "2":
			_, _ = w.Write([]byte(okXML(3, "단지C")))
		default:
			t.Errorf("unexpected page: %s", r.URL.Query().Get("pageNo"))
		}
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, "plainkey", nil)

	outcome, err := f.Fetch(context.Background(), domain.ProductApt, "11680", domain.YearMonth{Year: 2025, Month: 7})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(outcome.Records) != 3 {
		t.Fatalf("expected 3 merged records, got %d", len(outcome.Records))
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected 2 page calls, got %d", got)
	}
}
