package util

import (
	"errors"

	"github.com/valkey-io/valkey-go"
)

// IsValkeyNil: 캐시 키 부재(Valkey nil 응답)인지 판별한다.
// 캐시 계층에서 errors.NewCacheError로 감싼 에러도 언랩하며 검사한다.
// 키 부재는 miss일 뿐 장애가 아니므로 호출부가 에러와 구분해야 한다.
func IsValkeyNil(err error) bool {
	for err != nil {
		if valkey.IsValkeyNil(err) {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
