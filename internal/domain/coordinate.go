package domain

import (
	"fmt"

	"github.com/kapu/rtms-price-go/pkg/errors"
)

// Coordinate: 지도 클릭으로 생성되는 위경도 좌표. UI 협력자가 만들며 불변으로 취급한다.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate: 위경도 범위를 검증한다.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return errors.NewValidationError("lat", fmt.Sprintf("latitude out of range: %f", c.Lat))
	}
	if c.Lon < -180 || c.Lon > 180 {
		return errors.NewValidationError("lon", fmt.Sprintf("longitude out of range: %f", c.Lon))
	}
	return nil
}

// CacheKey: 소수점 6자리로 반올림한 캐시 키를 반환한다.
// 같은 지점을 반복 클릭해도 동일 키로 떨어지게 한다.
func (c Coordinate) CacheKey() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}
