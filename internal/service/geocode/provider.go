// Package geocode: 좌표 → 법정동 행정구역 코드 역지오코딩.
// 신뢰성이 다른 두 외부 제공자(카카오, VWorld)를 정책에 따라 조합한다.
package geocode

import (
	"context"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/pkg/errors"
)

// Provider: 역지오코딩 제공자 하나.
// 실패는 에러가 아니라 Diagnostic이 채워진 결과로 표현된다 (폴백 체인에서 이어붙이기 위함).
type Provider interface {
	Name() string
	Resolve(ctx context.Context, coord domain.Coordinate) domain.GeocodeResult
}

func newGeocodeHTTPClient() *http.Client {
	return &http.Client{Timeout: constants.APIConfig.GeocodeTimeout}
}

func newGeocodeLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(constants.RateLimitConfig.GeocodeInterval), 1)
}

// fetchBody: 속도 제한 하에 GET 요청을 보내고 본문과 상태코드를 반환한다.
func fetchBody(ctx context.Context, client *http.Client, limiter *rate.Limiter, reqURL string, headers map[string]string) ([]byte, int, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, 0, errors.NewNetworkError("rate limiter wait", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, 0, errors.NewNetworkError("build request", err)
	}
	req.Header.Set("User-Agent", constants.APIConfig.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, errors.NewNetworkError("http get", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.NewNetworkError("read response", err)
	}

	return body, resp.StatusCode, nil
}
