// Package server: UI 협력자(지도 프런트엔드)용 HTTP API 핸들러와 미들웨어
package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/internal/health"
	"github.com/kapu/rtms-price-go/internal/service/geocode"
	"github.com/kapu/rtms-price-go/internal/service/rtms"
	"github.com/kapu/rtms-price-go/internal/util"
)

// 기본 조회 창 (개월). 비어있으면 자동 확장 단계가 이어받는다.
const defaultMonths = 24

// APIHandler: 역지오코딩/실거래 조회 HTTP 핸들러
type APIHandler struct {
	resolver   *geocode.Resolver
	aggregator *rtms.Aggregator
	state      *domain.AppState
	logger     *slog.Logger
}

// NewAPIHandler: APIHandler를 생성한다.
func NewAPIHandler(resolver *geocode.Resolver, aggregator *rtms.Aggregator, state *domain.AppState, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		resolver:   resolver,
		aggregator: aggregator,
		state:      state,
		logger:     logger,
	}
}

// GetHealth: 서비스 상태를 반환한다.
func (h *APIHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, health.Get())
}

type regionResponse struct {
	Code       string `json:"code"`
	Label      string `json:"label,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// GetRegion: 좌표를 법정동 행정구역 코드로 변환한다.
// GET /api/region?lat=..&lon=..&policy=kakao|vworld|auto
func (h *APIHandler) GetRegion(c *gin.Context) {
	coord, ok := parseCoordinate(c)
	if !ok {
		return
	}

	policy := domain.ParseGeocodePolicy(c.Query("policy"))
	h.state.SetCoordinate(coord)

	result := h.resolver.Resolve(c.Request.Context(), coord, policy)
	h.state.SetResolved(result)

	if !result.HasCode() {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "행정구역 코드 변환 실패",
			"diagnostic": result.Diagnostic,
		})
		return
	}

	c.JSON(http.StatusOK, regionResponse{
		Code:       result.Code.String(),
		Label:      result.Label,
		Diagnostic: result.Diagnostic,
	})
}

type transactionsResponse struct {
	Region     *regionResponse            `json:"region,omitempty"`
	County     string                     `json:"county"`
	MonthsUsed int                        `json:"months_used"`
	Records    []domain.TransactionRecord `json:"records"`
	Outcomes   []domain.MonthOutcome      `json:"outcomes"`
	Succeeded  int                        `json:"succeeded"`
	Attempted  int                        `json:"attempted"`
	LastError  string                     `json:"last_error,omitempty"`
}

// GetTransactions: 좌표 또는 행정구역 코드 기준으로 실거래 내역을 조회한다.
// GET /api/transactions?lat=..&lon=..  또는  ?code=1168010300
// 선택: months, end=YYYYMM, products=apt,offi, policy, expand=false
func (h *APIHandler) GetTransactions(c *gin.Context) {
	var code domain.AdministrativeCode
	var region *regionResponse

	if rawCode := c.Query("code"); rawCode != "" {
		code = domain.AdministrativeCode(rawCode)
		if !code.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code는 5자리 또는 10자리 숫자여야 함"})
			return
		}
	} else {
		coord, ok := parseCoordinate(c)
		if !ok {
			return
		}

		policy := domain.ParseGeocodePolicy(c.Query("policy"))
		h.state.SetCoordinate(coord)

		result := h.resolver.Resolve(c.Request.Context(), coord, policy)
		h.state.SetResolved(result)

		if !result.HasCode() {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "행정구역 코드 변환 실패",
				"diagnostic": result.Diagnostic,
			})
			return
		}

		code = result.Code
		region = &regionResponse{
			Code:       result.Code.String(),
			Label:      result.Label,
			Diagnostic: result.Diagnostic,
		}
	}

	months := defaultMonths
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "months는 1 이상의 정수여야 함"})
			return
		}
		months = n
	}

	end := currentYearMonth()
	if raw := c.Query("end"); raw != "" {
		parsed, err := domain.ParseYearMonth(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end는 YYYYMM 형식이어야 함"})
			return
		}
		end = parsed
	}

	query := rtms.RangeQuery{
		Code:     code,
		End:      end,
		Months:   months,
		Products: domain.ParseProducts(c.Query("products")),
	}

	var result *domain.RangeResult
	monthsUsed := months
	if c.Query("expand") == "false" {
		result = h.aggregator.FetchRange(c.Request.Context(), query)
	} else {
		result, monthsUsed = h.aggregator.FetchRangeAutoExpand(c.Request.Context(), query)
	}

	if result.Succeeded == 0 && result.Attempted > 0 {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "모든 월 조회가 실패함",
			"last_error": result.LastError,
			"outcomes":   result.Outcomes,
		})
		return
	}

	c.JSON(http.StatusOK, transactionsResponse{
		Region:     region,
		County:     code.County(),
		MonthsUsed: monthsUsed,
		Records:    result.Records,
		Outcomes:   result.Outcomes,
		Succeeded:  result.Succeeded,
		Attempted:  result.Attempted,
		LastError:  result.LastError,
	})
}

type stateResponse struct {
	Coordinate *domain.Coordinate `json:"coordinate,omitempty"`
	Code       string             `json:"code,omitempty"`
	Label      string             `json:"label,omitempty"`
	Diagnostic string             `json:"diagnostic,omitempty"`
}

// GetState: 세션 상태 스냅샷(마지막 핀/코드/진단)을 반환한다.
func (h *APIHandler) GetState(c *gin.Context) {
	coord, code, label, diag := h.state.Snapshot()
	c.JSON(http.StatusOK, stateResponse{
		Coordinate: coord,
		Code:       code.String(),
		Label:      label,
		Diagnostic: diag,
	})
}

// parseCoordinate: lat/lon 쿼리 파라미터를 검증하며 파싱한다. 실패 시 400을 쓴다.
func parseCoordinate(c *gin.Context) (domain.Coordinate, bool) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat/lon 쿼리 파라미터가 필요함"})
		return domain.Coordinate{}, false
	}

	coord := domain.Coordinate{Lat: lat, Lon: lon}
	if err := coord.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.Coordinate{}, false
	}

	return coord, true
}

func currentYearMonth() domain.YearMonth {
	now := util.NowKST()
	return domain.YearMonth{Year: now.Year(), Month: int(now.Month())}
}
