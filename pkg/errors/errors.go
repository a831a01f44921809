// Package errors: 실거래가 조회 서비스 전체에서 사용되는 에러 타입들을 정의한다.
// 모든 외부 호출 실패는 여기 정의된 구조화된 에러로 변환되어 시그니처에 드러난다.
package errors

import "fmt"

// ConfigError: 필수 자격증명/설정 누락 에러 (시작 시 감지, 해당 작업만 단락)
type ConfigError struct {
	Name    string // 누락된 설정 키 이름
	Message string
}

func (e ConfigError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("config error name=%s", e.Name)
	}
	return fmt.Sprintf("config error name=%s: %s", e.Name, e.Message)
}

// NewConfigError: 설정 에러를 생성한다.
func NewConfigError(name, message string) *ConfigError {
	return &ConfigError{Name: name, Message: message}
}

// NetworkError: 연결 실패/타임아웃 등 HTTP 레이어 자체의 에러 (상태코드 없음)
type NetworkError struct {
	Operation string // 수행 중이던 작업
	Err       error  // 원인 에러
}

func (e NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("network error operation=%s", e.Operation)
	}
	return fmt.Sprintf("network error operation=%s: %v", e.Operation, e.Err)
}

func (e NetworkError) Unwrap() error { return e.Err }

// NewNetworkError: 네트워크 에러를 생성한다.
func NewNetworkError(operation string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Err: cause}
}

// HTTPError: 비정상 HTTP 상태 코드 에러 (해당 자격증명 변형에 대해 종결)
type HTTPError struct {
	Operation  string
	StatusCode int
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("http error operation=%s status=%d", e.Operation, e.StatusCode)
}

// NewHTTPError: HTTP 상태 에러를 생성한다.
func NewHTTPError(operation string, statusCode int) *HTTPError {
	return &HTTPError{Operation: operation, StatusCode: statusCode}
}

// ParseError: 응답 본문 파싱 실패 에러 (해당 호출에 대해 종결)
type ParseError struct {
	Operation string // xml, json 등 파싱 단계
	Err       error
}

func (e ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse error operation=%s", e.Operation)
	}
	return fmt.Sprintf("parse error operation=%s: %v", e.Operation, e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

// NewParseError: 파싱 에러를 생성한다.
func NewParseError(operation string, cause error) *ParseError {
	return &ParseError{Operation: operation, Err: cause}
}

// UpstreamError: HTTP 200이어도 페이로드에 포함된 resultCode가 실패를 나타내는 에러
// 메시지는 가공 없이 그대로 호출자에게 노출한다.
type UpstreamError struct {
	Code    string // 페이로드 내장 결과 코드
	Message string // 페이로드 내장 결과 메시지 (원문)
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("upstream error code=%s msg=%s", e.Code, e.Message)
}

// NewUpstreamError: 업스트림 결과 코드 에러를 생성한다.
func NewUpstreamError(code, message string) *UpstreamError {
	return &UpstreamError{Code: code, Message: message}
}

// CacheError: 캐시 작업 중 발생한 에러
type CacheError struct {
	Operation string // get, set, delete 등
	Key       string // 캐시 키
	Err       error  // 원인 에러
}

func (e CacheError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cache error operation=%s key=%s", e.Operation, e.Key)
	}
	return fmt.Sprintf("cache error operation=%s key=%s: %v", e.Operation, e.Key, e.Err)
}

func (e CacheError) Unwrap() error { return e.Err }

// NewCacheError: 캐시 에러를 생성한다.
func NewCacheError(operation, key string, cause error) *CacheError {
	return &CacheError{Operation: operation, Key: key, Err: cause}
}

// CircuitOpenError: 서킷 브레이커가 열려있을 때 발생하는 에러
type CircuitOpenError struct {
	RetryAfterMs int64
}

func (e CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker open retry_after_ms=%d", e.RetryAfterMs)
}

// ValidationError: 입력 검증 실패 에러
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error field=%s: %s", e.Field, e.Message)
}

// NewValidationError: 검증 에러를 생성한다.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
