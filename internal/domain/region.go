package domain

import "regexp"

// 법정동코드: 10자리 전체 코드 또는 앞 5자리(시군구) 코드만 유효하다.
var codePattern = regexp.MustCompile(`^\d{5}(\d{5})?$`)

// AdministrativeCode: 법정동코드. 10자리 전체 또는 앞 5자리(시군구)만 담는다.
type AdministrativeCode string

func (c AdministrativeCode) String() string {
	return string(c)
}

// IsValid: 코드가 5자리 또는 10자리 숫자 패턴을 만족하는지 확인한다.
func (c AdministrativeCode) IsValid() bool {
	return codePattern.MatchString(string(c))
}

// County: 실거래 API가 요구하는 앞 5자리(LAWD_CD)를 반환한다.
func (c AdministrativeCode) County() string {
	if len(c) < 5 {
		return ""
	}
	return string(c[:5])
}

// GeocodeResult: 좌표 역변환 결과. Diagnostic은 성공/실패와 무관하게 항상 채워진다.
// Code가 비어있지 않으면 이미 패턴 검증을 통과한 값이다.
type GeocodeResult struct {
	Code       AdministrativeCode `json:"code,omitempty"`
	Label      string             `json:"label,omitempty"`
	Diagnostic string             `json:"diagnostic"`
}

// HasCode: 유효한 코드를 담은 성공 결과인지 확인한다.
func (r GeocodeResult) HasCode() bool {
	return r.Code != "" && r.Code.IsValid()
}

// GeocodePolicy: 역지오코딩 제공자 선택 정책
type GeocodePolicy string

// GeocodePolicy 상수 목록.
const (
	// PolicyKakao: 카카오 로컬 API만 사용
	PolicyKakao GeocodePolicy = "kakao"
	// PolicyVWorld: VWorld 공간정보 API만 사용
	PolicyVWorld GeocodePolicy = "vworld"
	// PolicyAuto: 카카오 우선, 실패 시 VWorld 폴백 (순서 고정)
	PolicyAuto GeocodePolicy = "auto"
)

func (p GeocodePolicy) String() string {
	return string(p)
}

// IsValid: 알려진 정책 값인지 확인한다.
func (p GeocodePolicy) IsValid() bool {
	switch p {
	case PolicyKakao, PolicyVWorld, PolicyAuto:
		return true
	default:
		return false
	}
}

// ParseGeocodePolicy: 문자열을 정책으로 변환한다. 알 수 없는 값은 Auto로 취급한다.
func ParseGeocodePolicy(s string) GeocodePolicy {
	switch GeocodePolicy(s) {
	case PolicyKakao:
		return PolicyKakao
	case PolicyVWorld:
		return PolicyVWorld
	default:
		return PolicyAuto
	}
}
