package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/domain"
)

// VWorld 주소 검색 유형. 지번(PARCEL)이 PNU를 줄 가능성이 가장 높아 먼저 시도한다.
var vworldAddressTypes = []string{"PARCEL", "BOTH", "ROAD"}

var (
	pnuPattern      = regexp.MustCompile(`\d{19}`)
	bareCodePattern = regexp.MustCompile(`\d{10}`)
)

// VWorldProvider: VWorld getAddress 기반 역지오코딩.
// 구조화 필드(level4LC, pnu)를 먼저 읽고, 둘 다 비어 있을 때만 본문에서
// 숫자열을 집는 정규식 폴백을 쓴다. 폴백은 응답 형식 변경에 취약한 최후 수단이다.
type VWorldProvider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewVWorldProvider: VWorldProvider를 생성한다.
func NewVWorldProvider(apiKey string, logger *slog.Logger) *VWorldProvider {
	return &VWorldProvider{
		httpClient: newGeocodeHTTPClient(),
		apiKey:     apiKey,
		baseURL:    constants.APIConfig.VWorldAddressURL,
		limiter:    newGeocodeLimiter(),
		logger:     logger,
	}
}

// Name 은 제공자 식별 이름을 반환한다.
func (p *VWorldProvider) Name() string { return "vworld" }

type vworldResponse struct {
	Response struct {
		Status string `json:"status"`
		Result []struct {
			Text      string `json:"text"`
			PNU       string `json:"pnu"`
			Structure struct {
				Level1   string `json:"level1"`
				Level2   string `json:"level2"`
				Level4L  string `json:"level4L"`
				Level4LC string `json:"level4LC"`
			} `json:"structure"`
		} `json:"result"`
	} `json:"response"`
}

// Resolve: 좌표를 법정동 코드로 변환한다. 주소 유형을 순서대로 시도하고
// 첫 성공에서 멈춘다.
func (p *VWorldProvider) Resolve(ctx context.Context, coord domain.Coordinate) domain.GeocodeResult {
	if p.apiKey == "" {
		return domain.GeocodeResult{Diagnostic: "vworld: VWORLD_API_KEY 미설정"}
	}

	var diags []string
	for _, addrType := range vworldAddressTypes {
		result := p.resolveWithType(ctx, coord, addrType)
		if result.HasCode() {
			return result
		}
		if result.Diagnostic != "" {
			diags = append(diags, result.Diagnostic)
		}
	}

	return domain.GeocodeResult{Diagnostic: strings.Join(diags, "; ")}
}

func (p *VWorldProvider) resolveWithType(ctx context.Context, coord domain.Coordinate, addrType string) domain.GeocodeResult {
	params := url.Values{}
	params.Set("service", "address")
	params.Set("request", "getAddress")
	params.Set("version", "2.0")
	params.Set("key", p.apiKey)
	params.Set("point", strconv.FormatFloat(coord.Lon, 'f', -1, 64)+","+strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	params.Set("crs", "epsg:4326")
	params.Set("type", addrType)
	params.Set("format", "json")
	reqURL := p.baseURL + "?" + params.Encode()

	body, status, err := fetchBody(ctx, p.httpClient, p.limiter, reqURL, nil)
	if err != nil {
		p.logger.Warn("VWorld request failed", slog.String("type", addrType), slog.Any("error", err))
		return domain.GeocodeResult{Diagnostic: fmt.Sprintf("vworld(%s): %v", addrType, err)}
	}
	if status != http.StatusOK {
		return domain.GeocodeResult{Diagnostic: fmt.Sprintf("vworld(%s): HTTP %d", addrType, status)}
	}

	var resp vworldResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.GeocodeResult{Diagnostic: fmt.Sprintf("vworld(%s): 응답 파싱 실패: %v", addrType, err)}
	}
	if resp.Response.Status != "OK" {
		return domain.GeocodeResult{Diagnostic: fmt.Sprintf("vworld(%s): status=%s", addrType, resp.Response.Status)}
	}

	code, source := structuredCode(&resp)
	if code == "" {
		code = extractCode(body)
		source = "본문 숫자열 폴백"
	}
	if code == "" {
		return domain.GeocodeResult{Diagnostic: fmt.Sprintf("vworld(%s): 본문에서 법정동 코드를 찾지 못함", addrType)}
	}

	label := ""
	if len(resp.Response.Result) > 0 {
		r := resp.Response.Result[0]
		label = r.Text
		if label == "" {
			label = strings.TrimSpace(r.Structure.Level1 + " " + r.Structure.Level2 + " " + r.Structure.Level4L)
		}
	}

	return domain.GeocodeResult{
		Code:       domain.AdministrativeCode(code),
		Label:      label,
		Diagnostic: fmt.Sprintf("vworld(%s): %s", addrType, source),
	}
}

// structuredCode: 파싱된 응답의 구조화 필드에서 코드를 찾는다.
// level4LC가 법정동 코드 그 자체이고, 없으면 PNU 앞 10자리를 쓴다.
func structuredCode(resp *vworldResponse) (code, source string) {
	for _, r := range resp.Response.Result {
		if c := r.Structure.Level4LC; len(c) == 10 && domain.AdministrativeCode(c).IsValid() {
			return c, "구조화 필드 level4LC"
		}
		if len(r.PNU) == 19 && pnuPattern.MatchString(r.PNU) {
			return r.PNU[:10], "구조화 필드 pnu"
		}
	}
	return "", ""
}

// extractCode: 구조화 필드가 모두 비어 있을 때의 최후 수단.
// 본문 전체에서 19자리 PNU의 앞 10자리, 그것도 없으면 아무 10자리 숫자열을 집는다.
func extractCode(body []byte) string {
	if pnu := pnuPattern.Find(body); pnu != nil {
		return string(pnu[:10])
	}
	if bare := bareCodePattern.Find(body); bare != nil {
		return string(bare)
	}
	return ""
}
