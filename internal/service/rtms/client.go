package rtms

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"log/slog"

	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/util"
	"github.com/kapu/rtms-price-go/pkg/errors"
)

// Client: 공공데이터포털 실거래 API 호출 클라이언트.
// 속도 제한, 서킷 브레이커, 재시도(지수 백오프, 재시도 대상 상태코드 한정)를 포함한다.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *util.CircuitBreaker
	logger      *slog.Logger
}

// NewClient: 새로운 실거래 API 클라이언트를 생성하고 초기화한다.
func NewClient(logger *slog.Logger) *Client {
	transport := &http.Transport{
		MaxConnsPerHost:     constants.TransportConfig.MaxConnsPerHost,
		MaxIdleConnsPerHost: constants.TransportConfig.MaxIdleConnsPerHost,
		IdleConnTimeout:     constants.TransportConfig.IdleConnTimeout,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   constants.APIConfig.RTMSTimeout,
			Transport: transport,
		},
		rateLimiter: rate.NewLimiter(rate.Every(constants.RateLimitConfig.RTMSInterval), 1),
		breaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
		logger: logger,
	}
}

// newTestClient: 테스트에서 타임아웃/속도제한을 짧게 잡은 클라이언트를 만든다.
func newTestClient(httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(rate.Inf, 1),
		breaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
		logger: logger,
	}
}

// Get: URL로 GET 요청을 보내고 본문과 상태코드를 반환한다.
// 네트워크 오류와 재시도 대상 상태코드(429/5xx)는 백오프로 제한된 횟수만큼 재시도한다.
// 그 외 비정상 상태코드는 재시도 없이 상태코드와 함께 그대로 반환한다 (403 변형 전환은 호출자 몫).
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, int, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, 0, errors.NewNetworkError("rate limiter wait", err)
	}

	if !c.breaker.CanExecute() {
		retryAfter := c.breaker.RetryAfter()
		c.logger.Warn("Circuit breaker is open", slog.Int64("retry_after_ms", retryAfter.Milliseconds()))
		return nil, 0, &errors.CircuitOpenError{RetryAfterMs: retryAfter.Milliseconds()}
	}

	var body []byte
	var status int

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
		if err != nil {
			return backoff.Permanent(errors.NewNetworkError("build request", err))
		}
		req.Header.Set("User-Agent", constants.APIConfig.UserAgent)
		req.Header.Set("Accept", "*/*")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.NewNetworkError("http get", err)
		}

		b, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return errors.NewNetworkError("read response", readErr)
		}

		status = resp.StatusCode
		body = b

		if isRetryableStatus(status) {
			return errors.NewHTTPError("rtms get", status)
		}

		return nil
	}

	policy := backoff.WithContext(newBackOff(), ctx)
	notify := func(err error, delay time.Duration) {
		c.logger.Warn("Request failed, retrying",
			slog.Any("error", err),
			slog.Duration("delay", delay),
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		c.breaker.RecordFailure()
		return nil, status, err
	}

	c.breaker.RecordSuccess()
	return body, status, nil
}

func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = constants.RetryConfig.BaseDelay
	b.MaxInterval = constants.RetryConfig.MaxDelay
	b.MaxElapsedTime = constants.RetryConfig.MaxElapsed
	return backoff.WithMaxRetries(b, uint64(constants.RetryConfig.MaxAttempts-1))
}

func isRetryableStatus(status int) bool {
	for _, s := range constants.RetryConfig.RetryableStatus {
		if status == s {
			return true
		}
	}
	return false
}
