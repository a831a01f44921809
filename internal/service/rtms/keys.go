package rtms

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/kapu/rtms-price-go/internal/util"
)

// 공공데이터포털 서비스키는 발급 경로에 따라 '인코딩키'(% 포함)와 '디코딩키'가 혼재한다.
// 어느 쪽이 설정됐는지 알 수 없으므로 원문 → 디코딩 → 인코딩 순서의 변형 후보를 만들어 시도한다.

// LooksEncoded: 키가 퍼센트 인코딩된 형태로 보이는지 판별한다.
func LooksEncoded(raw string) bool {
	return strings.Contains(raw, "%")
}

// KeyVariants: 자격증명 변형 후보를 우선순위 순서로 생성한다.
// (1) 원문 그대로, (2) 퍼센트 디코딩(원문과 다를 때), (3) 퍼센트 인코딩(원문과 다를 때).
// 변환에 실패한 후보는 조용히 제외되고, 중복은 제거된다. 예외는 던지지 않는다.
func KeyVariants(raw string) []string {
	raw = util.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	variants := make([]string, 0, 3)
	seen := make(map[string]struct{})

	add := func(v string) {
		if v == "" {
			return
		}
		if _, exists := seen[v]; exists {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	add(raw)

	if decoded, err := url.QueryUnescape(raw); err == nil && decoded != raw {
		add(decoded)
	}

	if encoded := url.QueryEscape(raw); encoded != raw {
		add(encoded)
	}

	return variants
}

// KeyFingerprint: 캐시 키에 넣는 자격증명 지문 (SHA-256 앞 12자리 hex).
// 키 교체가 별도 무효화 없이 캐시 미스로 관찰되게 한다.
func KeyFingerprint(raw string) string {
	if raw == "" {
		return "nokey"
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:12]
}
