package util

import "time"

var kstLocation *time.Location

func init() {
	var err error
	kstLocation, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		kstLocation = time.FixedZone("KST", 9*60*60)
	}
}

// NowKST: 현재 시간을 KST 기준으로 반환합니다.
// 계약년월 기본값은 조회자가 있는 한국 기준 '이번 달'이어야 한다.
func NowKST() time.Time {
	return time.Now().In(kstLocation)
}

// FormatKST: 주어진 시간을 KST 기준으로 지정된 포맷 문자열로 변환합니다.
func FormatKST(t time.Time, layout string) string {
	return t.In(kstLocation).Format(layout)
}
