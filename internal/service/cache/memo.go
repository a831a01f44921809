package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"log/slog"

	"github.com/kapu/rtms-price-go/internal/domain"
)

// Store: 메모이저가 요구하는 최소 캐시 인터페이스. *Service가 구현한다.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Memoizer: TTL 만료식 메모이즈. 동일 키에 대한 동시 호출은 singleflight로 합쳐져
// producer가 정확히 한 번만 실행된다 (thundering-herd 방지).
// producer 실패는 캐시되지 않는다.
type Memoizer struct {
	cache  Store
	group  singleflight.Group
	logger *slog.Logger
}

// NewMemoizer: 새로운 메모이저를 생성한다.
func NewMemoizer(cache Store, logger *slog.Logger) *Memoizer {
	return &Memoizer{
		cache:  cache,
		logger: logger,
	}
}

// Outcome: (엔드포인트, 시군구, 월, 키 지문) 키의 조회 결과를 메모이즈한다.
// 살아있는 엔트리가 있으면 producer를 호출하지 않고 그대로 반환한다.
func (m *Memoizer) Outcome(
	ctx context.Context,
	key string,
	ttl time.Duration,
	producer func(context.Context) (*domain.FetchOutcome, error),
) (*domain.FetchOutcome, error) {
	var cached domain.FetchOutcome
	if hit, err := m.cache.Get(ctx, key, &cached); err == nil && hit {
		m.logger.Debug("Cache hit", slog.String("key", key))
		return &cached, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		// singleflight 승자 결정 후 재확인: 직전 승자가 채워둔 엔트리를 재사용
		var again domain.FetchOutcome
		if hit, err := m.cache.Get(ctx, key, &again); err == nil && hit {
			return &again, nil
		}

		outcome, err := producer(ctx)
		if err != nil {
			return nil, err
		}

		if err := m.cache.Set(ctx, key, outcome, ttl); err != nil {
			// 저장 실패는 결과 반환을 막지 않는다
			m.logger.Warn("Cache store failed", slog.String("key", key), slog.Any("error", err))
		}
		return outcome, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.FetchOutcome), nil
}

// Geocode: 반올림 좌표 키의 역지오코딩 결과를 메모이즈한다.
// 코드가 없는(실패) 결과는 저장하지 않아서 일시 장애가 TTL만큼 고착되지 않게 한다.
func (m *Memoizer) Geocode(
	ctx context.Context,
	key string,
	ttl time.Duration,
	producer func(context.Context) domain.GeocodeResult,
) domain.GeocodeResult {
	var cached domain.GeocodeResult
	if hit, err := m.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached
	}

	v, _, _ := m.group.Do(key, func() (any, error) {
		var again domain.GeocodeResult
		if hit, err := m.cache.Get(ctx, key, &again); err == nil && hit {
			return again, nil
		}

		result := producer(ctx)
		if result.HasCode() {
			if err := m.cache.Set(ctx, key, result, ttl); err != nil {
				m.logger.Warn("Cache store failed", slog.String("key", key), slog.Any("error", err))
			}
		}
		return result, nil
	})

	return v.(domain.GeocodeResult)
}
