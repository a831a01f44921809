package geocode

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/internal/service/cache"
	"github.com/kapu/rtms-price-go/internal/util"
)

// Resolver: 정책에 따라 제공자를 선택/조합하는 역지오코딩 진입점.
// 반올림 좌표 단위로 결과를 캐싱하며, 실패 결과는 캐싱하지 않는다.
type Resolver struct {
	kakao         Provider
	vworld        Provider
	memo          *cache.Memoizer
	defaultPolicy domain.GeocodePolicy
	logger        *slog.Logger
}

// NewResolver: Resolver를 생성한다.
func NewResolver(kakao, vworld Provider, memo *cache.Memoizer, defaultPolicy domain.GeocodePolicy, logger *slog.Logger) *Resolver {
	if !defaultPolicy.IsValid() {
		defaultPolicy = domain.PolicyAuto
	}
	return &Resolver{
		kakao:         kakao,
		vworld:        vworld,
		memo:          memo,
		defaultPolicy: defaultPolicy,
		logger:        logger,
	}
}

// Resolve: 좌표를 행정구역 코드로 변환한다. policy가 비어있으면 기본 정책을 쓴다.
func (r *Resolver) Resolve(ctx context.Context, coord domain.Coordinate, policy domain.GeocodePolicy) domain.GeocodeResult {
	if err := coord.Validate(); err != nil {
		return domain.GeocodeResult{Diagnostic: fmt.Sprintf("좌표 검증 실패: %v", err)}
	}
	if !policy.IsValid() {
		policy = r.defaultPolicy
	}

	key := fmt.Sprintf("geocode:%s:%s", policy, coord.CacheKey())

	return r.memo.Geocode(ctx, key, constants.CacheTTL.Geocode, func(ctx context.Context) domain.GeocodeResult {
		result := r.resolveFresh(ctx, coord, policy)
		r.logger.Info("Geocode resolved",
			slog.String("policy", policy.String()),
			slog.String("coord", coord.CacheKey()),
			slog.String("code", result.Code.String()),
			slog.Bool("ok", result.HasCode()),
		)
		return result
	})
}

// resolveFresh: 정책별 제공자 체인을 수행한다.
// auto는 카카오 → VWorld 순서로 시도하고, 둘 다 실패하면 진단을 이어붙여 반환한다.
func (r *Resolver) resolveFresh(ctx context.Context, coord domain.Coordinate, policy domain.GeocodePolicy) domain.GeocodeResult {
	switch policy {
	case domain.PolicyKakao:
		return r.kakao.Resolve(ctx, coord)
	case domain.PolicyVWorld:
		return r.vworld.Resolve(ctx, coord)
	}

	primary := r.kakao.Resolve(ctx, coord)
	if primary.HasCode() {
		return primary
	}

	r.logger.Warn("Primary geocode provider failed, falling back",
		slog.String("provider", r.kakao.Name()),
		slog.String("diagnostic", primary.Diagnostic),
	)

	secondary := r.vworld.Resolve(ctx, coord)
	if secondary.HasCode() {
		// 폴백 성공이어도 1차 실패 사유는 진단에 남긴다
		secondary.Diagnostic = util.JoinNonEmpty(" | ", primary.Diagnostic, secondary.Diagnostic)
		return secondary
	}

	return domain.GeocodeResult{
		Diagnostic: util.JoinNonEmpty(" | ", primary.Diagnostic, secondary.Diagnostic),
	}
}
