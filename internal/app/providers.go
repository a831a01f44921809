// Package app: 애플리케이션 조립 (의존성 구성, 라우터, 런타임 수명주기)
package app

import (
	"log/slog"

	"github.com/kapu/rtms-price-go/internal/config"
	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/internal/server"
	"github.com/kapu/rtms-price-go/internal/service/cache"
	"github.com/kapu/rtms-price-go/internal/service/geocode"
	"github.com/kapu/rtms-price-go/internal/service/rtms"
)

// ProvideCacheService: Valkey 캐시 서비스를 생성합니다.
func ProvideCacheService(cfg *config.Config, logger *slog.Logger) (*cache.Service, error) {
	return cache.NewService(cache.Config{
		Host:     cfg.Valkey.Host,
		Port:     cfg.Valkey.Port,
		Password: cfg.Valkey.Password,
		DB:       cfg.Valkey.DB,
	}, logger)
}

// ProvideMemoizer: 캐시 + singleflight 메모이저를 생성합니다.
func ProvideMemoizer(cacheSvc *cache.Service, logger *slog.Logger) *cache.Memoizer {
	return cache.NewMemoizer(cacheSvc, logger)
}

// ProvideAggregator: 실거래 조회 파이프라인(클라이언트 → 단건 조회 → 기간 병합)을 조립합니다.
func ProvideAggregator(cfg *config.Config, memo *cache.Memoizer, logger *slog.Logger) *rtms.Aggregator {
	client := rtms.NewClient(logger)
	fetcher := rtms.NewFetcher(client, memo, cfg.RTMS.ServiceKey, cfg.RTMS.SuccessCodes, logger)
	return rtms.NewAggregator(fetcher, logger)
}

// ProvideResolver: 역지오코딩 제공자 체인을 조립합니다.
func ProvideResolver(cfg *config.Config, memo *cache.Memoizer, logger *slog.Logger) *geocode.Resolver {
	kakao := geocode.NewKakaoProvider(cfg.Kakao.RESTKey, logger)
	vworld := geocode.NewVWorldProvider(cfg.VWorld.Key, logger)
	return geocode.NewResolver(kakao, vworld, memo, cfg.Geocode.DefaultPolicy, logger)
}

// ProvideAPIHandler: HTTP API 핸들러를 생성합니다.
func ProvideAPIHandler(resolver *geocode.Resolver, aggregator *rtms.Aggregator, state *domain.AppState, logger *slog.Logger) *server.APIHandler {
	return server.NewAPIHandler(resolver, aggregator, state, logger)
}
