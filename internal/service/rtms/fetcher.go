package rtms

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/internal/service/cache"
	"github.com/kapu/rtms-price-go/pkg/errors"
)

// Endpoint: 실거래 API 엔드포인트 (아파트 매매 / 오피스텔 매매)
type Endpoint struct {
	ID      string
	URL     string
	Product domain.ProductType
}

// EndpointFor: 상품 유형에 해당하는 엔드포인트를 반환한다.
func EndpointFor(product domain.ProductType) Endpoint {
	if product == domain.ProductOffi {
		return Endpoint{ID: "offi", URL: constants.APIConfig.OffiTradeURL, Product: domain.ProductOffi}
	}
	return Endpoint{ID: "apt", URL: constants.APIConfig.AptTradeURL, Product: domain.ProductApt}
}

// 자격증명 문제를 나타내는 포털 내장 결과 코드.
// 이 코드들이 오면 다음 키 변형으로 전환해볼 가치가 있다.
var keyRelatedCodes = map[string]bool{
	"20": true, // SERVICE_ACCESS_DENIED
	"30": true, // SERVICE_KEY_IS_NOT_REGISTERED
	"31": true, // DEADLINE_HAS_EXPIRED
	"32": true, // UNREGISTERED_IP
}

// Fetcher: (시군구, 월) 단위 실거래 조회.
// 키 변형 순회, 페이지네이션, 내장 resultCode 판정, 결과 캐싱을 담당한다.
type Fetcher struct {
	client       *Client
	memo         *cache.Memoizer
	serviceKey   string
	successCodes []string
	fingerprint  string
	endpointFor  func(domain.ProductType) Endpoint
	logger       *slog.Logger
}

// NewFetcher: Fetcher를 생성한다. successCodes가 비어있으면 기본 동의어 집합을 쓴다.
func NewFetcher(client *Client, memo *cache.Memoizer, serviceKey string, successCodes []string, logger *slog.Logger) *Fetcher {
	if len(successCodes) == 0 {
		successCodes = constants.ResultCodes.Success
	}
	return &Fetcher{
		client:       client,
		memo:         memo,
		serviceKey:   serviceKey,
		successCodes: successCodes,
		fingerprint:  KeyFingerprint(serviceKey),
		endpointFor:  EndpointFor,
		logger:       logger,
	}
}

// Fetch: 단일 (상품, 시군구, 월) 조합의 실거래 내역을 조회한다.
// 캐시에 살아있는 엔트리가 있으면 외부 호출 없이 반환한다.
func (f *Fetcher) Fetch(ctx context.Context, product domain.ProductType, code domain.AdministrativeCode, ym domain.YearMonth) (*domain.FetchOutcome, error) {
	if f.serviceKey == "" {
		return nil, errors.NewConfigError("SERVICE_KEY", "실거래 API 자격증명이 설정되지 않음")
	}
	if !code.IsValid() {
		return nil, errors.NewValidationError("lawd_cd", fmt.Sprintf("행정구역 코드 형식 오류: %q", code))
	}
	if !ym.IsValid() {
		return nil, errors.NewValidationError("deal_ymd", fmt.Sprintf("조회 월 형식 오류: %+v", ym))
	}

	ep := f.endpointFor(product)
	county := code.County()

	// 키 지문을 포함해 자격증명 교체 시 이전 키의 엔트리와 충돌하지 않게 한다
	cacheKey := fmt.Sprintf("rtms:%s:%s:%s:%s", ep.ID, county, ym.Format(), f.fingerprint)

	return f.memo.Outcome(ctx, cacheKey, constants.CacheTTL.Transactions, func(ctx context.Context) (*domain.FetchOutcome, error) {
		return f.fetchFresh(ctx, ep, county, ym)
	})
}

// fetchFresh: 키 변형 후보를 고정 순서로 시도하며 실제 외부 호출을 수행한다.
// 자격증명성 실패(401/403, 키 관련 내장 코드)에서만 다음 변형으로 넘어간다.
func (f *Fetcher) fetchFresh(ctx context.Context, ep Endpoint, county string, ym domain.YearMonth) (*domain.FetchOutcome, error) {
	variants := KeyVariants(f.serviceKey)

	var lastErr error
	for i, variant := range variants {
		outcome, err := f.fetchAllPages(ctx, ep, variant, county, ym)
		if err == nil {
			if i > 0 {
				f.logger.Info("Key variant succeeded after fallback",
					slog.String("endpoint", ep.ID),
					slog.Int("variant_index", i),
				)
			}
			return outcome, nil
		}

		lastErr = err
		if !isCredentialFailure(err) {
			return nil, err
		}

		f.logger.Warn("Key variant rejected, trying next",
			slog.String("endpoint", ep.ID),
			slog.Int("variant_index", i),
			slog.Any("error", err),
		)
	}

	return nil, lastErr
}

// isCredentialFailure: 다음 키 변형 시도가 의미있는 실패인지 판정한다.
func isCredentialFailure(err error) bool {
	var httpErr *errors.HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden
	}

	var upErr *errors.UpstreamError
	if stderrors.As(err, &upErr) {
		return keyRelatedCodes[upErr.Code]
	}

	return false
}

// fetchAllPages: 한 키 변형으로 totalCount를 다 받을 때까지 페이지를 이어서 조회한다.
func (f *Fetcher) fetchAllPages(ctx context.Context, ep Endpoint, keyVariant, county string, ym domain.YearMonth) (*domain.FetchOutcome, error) {
	outcome := &domain.FetchOutcome{}

	for page := 1; page <= constants.RTMSConfig.MaxPages; page++ {
		reqURL := buildRequestURL(ep.URL, keyVariant, county, ym, page)

		body, status, err := f.client.Get(ctx, reqURL)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, errors.NewHTTPError("rtms "+ep.ID, status)
		}

		env, err := parseEnvelope(body)
		if err != nil {
			return nil, err
		}

		if !f.isSuccessCode(env.ResultCode) {
			// HTTP 200이어도 내장 코드가 실패면 실패. 메시지는 원문 그대로 전달한다.
			return nil, errors.NewUpstreamError(env.ResultCode, env.ResultMsg)
		}

		if page == 1 {
			outcome.ResultCode = env.ResultCode
			outcome.ResultMsg = env.ResultMsg
			outcome.TotalCount = env.TotalCount
		}

		for _, item := range env.Items {
			outcome.Records = append(outcome.Records, mapRecord(item, ep.Product))
		}

		if len(env.Items) == 0 || len(outcome.Records) >= outcome.TotalCount {
			break
		}
	}

	if outcome.TotalCount > len(outcome.Records) {
		f.logger.Warn("Pagination stopped before totalCount",
			slog.String("endpoint", ep.ID),
			slog.String("county", county),
			slog.String("ym", ym.Format()),
			slog.Int("received", len(outcome.Records)),
			slog.Int("total_count", outcome.TotalCount),
		)
	}

	return outcome, nil
}

// buildRequestURL: 요청 URL을 조립한다.
// 이미 인코딩된 키(% 포함)는 url.Values를 거치면 이중 인코딩되어 포털이 403을 내므로
// 쿼리 문자열에 원문 그대로 이어붙인다.
func buildRequestURL(base, keyVariant, county string, ym domain.YearMonth, page int) string {
	params := url.Values{}
	params.Set("LAWD_CD", county)
	params.Set("DEAL_YMD", ym.Format())
	params.Set("numOfRows", strconv.Itoa(constants.RTMSConfig.NumOfRows))
	params.Set("pageNo", strconv.Itoa(page))

	if LooksEncoded(keyVariant) {
		return base + "?serviceKey=" + keyVariant + "&" + params.Encode()
	}

	params.Set("serviceKey", keyVariant)
	return base + "?" + params.Encode()
}

func (f *Fetcher) isSuccessCode(code string) bool {
	for _, s := range f.successCodes {
		if code == s {
			return true
		}
	}
	return false
}
