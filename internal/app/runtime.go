package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kapu/rtms-price-go/internal/config"
	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/internal/service/cache"
	"github.com/kapu/rtms-price-go/internal/service/geocode"
	"github.com/kapu/rtms-price-go/internal/service/rtms"
)

// Runtime: 조립이 끝난 애플리케이션. 서버 수명주기와 리소스 정리를 담당한다.
type Runtime struct {
	Config *config.Config
	Logger *slog.Logger

	Cache      *cache.Service
	Resolver   *geocode.Resolver
	Aggregator *rtms.Aggregator
	State      *domain.AppState

	Router *gin.Engine
	Server *http.Server
}

// BuildRuntime: 설정으로부터 전체 런타임을 조립한다.
func BuildRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cacheSvc, err := ProvideCacheService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("캐시 초기화 실패: %w", err)
	}

	memo := ProvideMemoizer(cacheSvc, logger)
	aggregator := ProvideAggregator(cfg, memo, logger)
	resolver := ProvideResolver(cfg, memo, logger)

	state := &domain.AppState{}
	apiHandler := ProvideAPIHandler(resolver, aggregator, state, logger)

	router, err := ProvideAPIRouter(ctx, logger, apiHandler)
	if err != nil {
		cacheSvc.Close()
		return nil, fmt.Errorf("라우터 초기화 실패: %w", err)
	}

	addr := ProvideAPIAddr(cfg)

	return &Runtime{
		Config:     cfg,
		Logger:     logger,
		Cache:      cacheSvc,
		Resolver:   resolver,
		Aggregator: aggregator,
		State:      state,
		Router:     router,
		Server:     ProvideAPIServer(addr, router),
	}, nil
}

// StartServer: HTTP 서버를 백그라운드에서 시작한다. 종료 외 에러는 errCh로 전달된다.
func (r *Runtime) StartServer(errCh chan<- error) {
	if r == nil || r.Server == nil {
		return
	}

	go func() {
		if err := r.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if errCh != nil {
				errCh <- fmt.Errorf("HTTP server error: %w", err)
				return
			}
			r.Logger.Error("HTTP server error", slog.Any("error", err))
		}
	}()

	r.Logger.Info("HTTP server started", slog.String("addr", r.Server.Addr))
}

// Shutdown: 서버를 우아하게 종료하고 리소스를 정리한다.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, constants.AppTimeout.Shutdown)
	defer cancel()

	var firstErr error
	if r.Server != nil {
		if err := r.Server.Shutdown(shutdownCtx); err != nil {
			firstErr = fmt.Errorf("HTTP server shutdown failed: %w", err)
		}
	}

	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("cache close failed: %w", err)
		}
	}

	return firstErr
}
