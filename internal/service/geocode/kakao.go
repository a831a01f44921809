package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/internal/util"
)

// KakaoProvider: 카카오 로컬 API coord2regioncode 기반 역지오코딩.
// 법정동(region_type=B) 문서를 우선하고, 없으면 첫 문서로 폴백한다.
type KakaoProvider struct {
	httpClient *http.Client
	restKey    string
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewKakaoProvider: KakaoProvider를 생성한다.
func NewKakaoProvider(restKey string, logger *slog.Logger) *KakaoProvider {
	return &KakaoProvider{
		httpClient: newGeocodeHTTPClient(),
		restKey:    restKey,
		baseURL:    constants.APIConfig.KakaoRegionURL,
		limiter:    newGeocodeLimiter(),
		logger:     logger,
	}
}

// Name 은 제공자 식별 이름을 반환한다.
func (p *KakaoProvider) Name() string { return "kakao" }

type kakaoRegionDocument struct {
	RegionType  string `json:"region_type"`
	Code        string `json:"code"`
	AddressName string `json:"address_name"`
	Region1     string `json:"region_1depth_name"`
	Region2     string `json:"region_2depth_name"`
	Region3     string `json:"region_3depth_name"`
}

type kakaoRegionResponse struct {
	Documents []kakaoRegionDocument `json:"documents"`
}

// Resolve: 좌표를 법정동 코드로 변환한다.
// 카카오는 경도(x), 위도(y) 순서를 쓰므로 전달 시 주의한다.
func (p *KakaoProvider) Resolve(ctx context.Context, coord domain.Coordinate) domain.GeocodeResult {
	if p.restKey == "" {
		return domain.GeocodeResult{Diagnostic: "kakao: KAKAO_REST_API_KEY 미설정"}
	}

	params := url.Values{}
	params.Set("x", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	params.Set("y", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	reqURL := p.baseURL + "?" + params.Encode()

	body, status, err := fetchBody(ctx, p.httpClient, p.limiter, reqURL, map[string]string{
		"Authorization": "KakaoAK " + p.restKey,
	})
	if err != nil {
		p.logger.Warn("Kakao request failed", slog.Any("error", err))
		return domain.GeocodeResult{Diagnostic: fmt.Sprintf("kakao: %v", err)}
	}
	if status != http.StatusOK {
		return domain.GeocodeResult{Diagnostic: fmt.Sprintf("kakao: HTTP %d", status)}
	}

	var resp kakaoRegionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.GeocodeResult{Diagnostic: fmt.Sprintf("kakao: 응답 파싱 실패: %v", err)}
	}
	if len(resp.Documents) == 0 {
		return domain.GeocodeResult{Diagnostic: "kakao: 해당 좌표의 행정구역 문서 없음"}
	}

	doc := pickDocument(resp.Documents)
	code := domain.AdministrativeCode(doc.Code)
	if !code.IsValid() {
		return domain.GeocodeResult{Diagnostic: fmt.Sprintf("kakao: 코드 형식 오류: %q", doc.Code)}
	}

	label := doc.AddressName
	if label == "" {
		label = util.JoinNonEmpty(" ", doc.Region1, doc.Region2, doc.Region3)
	}

	return domain.GeocodeResult{
		Code:       code,
		Label:      label,
		Diagnostic: fmt.Sprintf("kakao: region_type=%s 문서 사용", doc.RegionType),
	}
}

// pickDocument: 법정동(B) 문서를 우선 선택한다. 실거래 API의 LAWD_CD는 법정동 기준이다.
func pickDocument(docs []kakaoRegionDocument) kakaoRegionDocument {
	for _, doc := range docs {
		if doc.RegionType == "B" && doc.Code != "" {
			return doc
		}
	}
	return docs[0]
}
