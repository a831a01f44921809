package domain

import "time"

// ProductType: 조회 대상 자산 유형
type ProductType string

// ProductType 상수 목록.
const (
	// ProductApt: 아파트 매매
	ProductApt ProductType = "apt"
	// ProductOffi: 오피스텔 매매
	ProductOffi ProductType = "offi"
)

func (p ProductType) String() string {
	return string(p)
}

// IsValid: 알려진 상품 유형인지 확인한다.
func (p ProductType) IsValid() bool {
	switch p {
	case ProductApt, ProductOffi:
		return true
	default:
		return false
	}
}

// ParseProducts: 요청 파라미터를 상품 목록으로 변환한다.
// "apt", "offi", "both"(기본)를 지원한다. 두 상품은 독립된 병렬 구간으로 합산될 뿐 서로 거르지 않는다.
func ParseProducts(s string) []ProductType {
	switch ProductType(s) {
	case ProductApt:
		return []ProductType{ProductApt}
	case ProductOffi:
		return []ProductType{ProductOffi}
	default:
		return []ProductType{ProductApt, ProductOffi}
	}
}

// TransactionRecord: 신고된 매매 1건. 파생 계약일자를 제외한 모든 필드는 비어있을 수 있다.
// 금액/면적이 파싱 불가하면 0으로 남기고 행 자체는 버리지 않는다 (행 수가 totalCount와 맞아야 함).
type TransactionRecord struct {
	ComplexName   string      `json:"complex_name,omitempty"`   // 단지명 (aptNm/offiNm)
	ExclusiveArea float64     `json:"exclusive_area,omitempty"` // 전용면적 (m²)
	DealAmount    int64       `json:"deal_amount,omitempty"`    // 거래금액 (만원)
	DealYear      int         `json:"deal_year,omitempty"`
	DealMonth     int         `json:"deal_month,omitempty"`
	DealDay       int         `json:"deal_day,omitempty"`
	Floor         int         `json:"floor,omitempty"`
	Dong          string      `json:"dong,omitempty"` // 법정동명 (umdNm)
	Jibun         string      `json:"jibun,omitempty"`
	RoadName      string      `json:"road_name,omitempty"`
	BuildYear     int         `json:"build_year,omitempty"`
	Product       ProductType `json:"product,omitempty"`
}

// DealDate: 계약 연/월/일로부터 정렬용 시각을 만든다. 일자가 없으면 1일로 본다.
func (r TransactionRecord) DealDate() time.Time {
	day := r.DealDay
	if day <= 0 {
		day = 1
	}
	month := r.DealMonth
	if month <= 0 {
		month = 1
	}
	return time.Date(r.DealYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// FetchOutcome: (시군구, 월) 1회 조회의 결과.
// resultCode의 성공 판정은 단일 값 비교가 아니라 엔드포인트별 동의어 집합으로 한다.
type FetchOutcome struct {
	Records    []TransactionRecord `json:"records"`
	ResultCode string              `json:"result_code"`
	ResultMsg  string              `json:"result_msg"`
	TotalCount int                 `json:"total_count"`
}

// MonthOutcome: 기간 조회에서 월별 성공/실패를 보고하기 위한 메타데이터
type MonthOutcome struct {
	YearMonth string      `json:"ym"`
	Product   ProductType `json:"product"`
	Count     int         `json:"count"`
	Error     string      `json:"error,omitempty"`
}

// RangeResult: 기간 조회의 병합 결과와 부분 실패 요약
type RangeResult struct {
	Records   []TransactionRecord `json:"records"`
	Outcomes  []MonthOutcome      `json:"outcomes"`
	Succeeded int                 `json:"succeeded"`
	Attempted int                 `json:"attempted"`
	LastError string              `json:"last_error,omitempty"`
}
