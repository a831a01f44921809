package domain

import (
	"fmt"
	"strconv"

	"github.com/kapu/rtms-price-go/pkg/errors"
)

// YearMonth: 계약년월. "YYYYMM" 6자리 문자열로 직렬화된다.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Format: "YYYYMM" 형식으로 포맷팅한다.
func (ym YearMonth) Format() string {
	return fmt.Sprintf("%04d%02d", ym.Year, ym.Month)
}

// IsValid: 달력상 존재 가능한 연월인지 확인한다.
func (ym YearMonth) IsValid() bool {
	return ym.Year > 0 && ym.Month >= 1 && ym.Month <= 12
}

// Prev: 한 달 전 YearMonth를 반환한다. (1월 → 전년도 12월)
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == 1 {
		return YearMonth{Year: ym.Year - 1, Month: 12}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// ParseYearMonth: "YYYYMM" 문자열을 파싱한다.
func ParseYearMonth(s string) (YearMonth, error) {
	if len(s) != 6 {
		return YearMonth{}, errors.NewValidationError("ym", fmt.Sprintf("expected YYYYMM, got %q", s))
	}

	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return YearMonth{}, errors.NewValidationError("ym", fmt.Sprintf("invalid year in %q", s))
	}
	month, err := strconv.Atoi(s[4:])
	if err != nil || month < 1 || month > 12 {
		return YearMonth{}, errors.NewValidationError("ym", fmt.Sprintf("invalid month in %q", s))
	}

	return YearMonth{Year: year, Month: month}, nil
}

// MonthsBack: end를 포함해 과거 방향으로 n개의 계약년월을 내림차순 생성한다.
// 연 경계(1월 → 전년도 12월)를 정확히 넘긴다.
func MonthsBack(end YearMonth, n int) []YearMonth {
	if n <= 0 || !end.IsValid() {
		return nil
	}

	months := make([]YearMonth, 0, n)
	cur := end
	for i := 0; i < n; i++ {
		months = append(months, cur)
		cur = cur.Prev()
	}

	return months
}
