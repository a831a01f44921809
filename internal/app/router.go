package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kapu/rtms-price-go/internal/config"
	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/server"
)

// ProvideAPIAddr: HTTP 서버가 리슨할 주소를 반환합니다.
func ProvideAPIAddr(cfg *config.Config) string {
	return fmt.Sprintf(":%d", cfg.Server.Port)
}

// ProvideAPIServer: HTTP 서버 인스턴스를 생성합니다.
// H2C(HTTP/2 Cleartext)를 기본으로 사용하여 멀티플렉싱과 헤더 압축 이점을 제공한다.
func ProvideAPIServer(addr string, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           server.WrapH2C(router),
		ReadHeaderTimeout: constants.ServerTimeout.ReadHeader,
		ReadTimeout:       constants.ServerTimeout.Read,
		WriteTimeout:      constants.ServerTimeout.Write,
		IdleTimeout:       constants.ServerTimeout.Idle,
	}
}

// ProvideAPIRouter: 역지오코딩/실거래 조회 API를 서빙하는 Gin 라우터를 설정합니다.
// 지도 프런트엔드(UI 협력자)에서 사용됩니다.
func ProvideAPIRouter(ctx context.Context, logger *slog.Logger, apiHandler *server.APIHandler) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	if err := router.SetTrustedProxies(constants.ServerConfig.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	router.Use(gin.Recovery())
	router.Use(server.LoggerMiddleware(ctx, logger,
		"/health", // 주기적 헬스 폴링은 로그에서 제외
	))
	router.Use(cors.New(newAPICORSConfig()))

	router.GET("/health", apiHandler.GetHealth)

	api := router.Group("/api")
	api.GET("/region", apiHandler.GetRegion)
	api.GET("/transactions", apiHandler.GetTransactions)
	api.GET("/state", apiHandler.GetState)

	return router, nil
}

func newAPICORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = constants.CORSConfig.AllowOrigins
	corsConfig.AllowMethods = constants.CORSConfig.AllowMethods
	corsConfig.AllowHeaders = constants.CORSConfig.AllowHeaders
	return corsConfig
}
