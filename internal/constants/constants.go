package constants

import "time"

// APIConfig 는 외부 API 엔드포인트/타임아웃 설정이다.
var APIConfig = struct {
	AptTradeURL      string
	OffiTradeURL     string
	KakaoRegionURL   string
	VWorldAddressURL string
	RTMSTimeout      time.Duration
	GeocodeTimeout   time.Duration
	UserAgent        string
}{
	AptTradeURL:      "https://apis.data.go.kr/1613000/RTMSDataSvcAptTrade/getRTMSDataSvcAptTrade",
	OffiTradeURL:     "https://apis.data.go.kr/1613000/RTMSDataSvcOffiTrade/getRTMSDataSvcOffiTrade",
	KakaoRegionURL:   "https://dapi.kakao.com/v2/local/geo/coord2regioncode.json",
	VWorldAddressURL: "https://api.vworld.kr/req/address",
	RTMSTimeout:      20 * time.Second, // 공공데이터포털 간헐적 지연 대응
	GeocodeTimeout:   10 * time.Second,
	UserAgent:        "rtms-price-go/1.0 (+https://github.com/kapu/rtms-price-go)",
}

// RTMSConfig 는 실거래 API 호출 파라미터 설정이다.
// numOfRows는 한 페이지로 대부분의 (시군구, 월) 조합을 커버할 만큼 크게 잡고,
// totalCount가 이를 초과하면 추가 페이지를 이어서 조회한다.
var RTMSConfig = struct {
	NumOfRows int
	MaxPages  int
}{
	NumOfRows: 2000,
	MaxPages:  5,
}

// ResultCodes 는 페이로드 내장 resultCode의 성공 동의어 집합이다.
// 포털 쪽 버전에 따라 "00"/"000"/"0"/빈 문자열이 혼재하므로 단일 값 비교를 쓰지 않는다.
var ResultCodes = struct {
	Success []string
}{
	Success: []string{"00", "000", "0", ""},
}

// RetryConfig: 실거래 API 호출의 재시도 정책.
var RetryConfig = struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	MaxElapsed      time.Duration
	RetryableStatus []int
}{
	MaxAttempts:     4,
	BaseDelay:       200 * time.Millisecond,
	MaxDelay:        1 * time.Second, // 시도당 백오프 상한
	MaxElapsed:      10 * time.Second,
	RetryableStatus: []int{429, 500, 502, 503, 504},
}

// RateLimitConfig 는 외부 API 호출 속도 제한이다.
var RateLimitConfig = struct {
	RTMSInterval    time.Duration
	GeocodeInterval time.Duration
}{
	RTMSInterval:    100 * time.Millisecond, // 초당 10 요청
	GeocodeInterval: 50 * time.Millisecond,
}

// CircuitBreakerConfig: 연속 실패 시 외부 호출을 차단하는 임계값.
var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	HealthCheckInterval time.Duration
}{
	FailureThreshold:    5,                // 5회 연속 실패 시 Circuit OPEN
	ResetTimeout:        30 * time.Second, // 기본 재시도 대기 시간 (30초)
	HealthCheckInterval: 10 * time.Minute,
}

// CacheTTL: 메모이즈 결과의 유효 기간.
var CacheTTL = struct {
	Transactions time.Duration
	Geocode      time.Duration
}{
	Transactions: 10 * time.Minute, // UI 리렌더 간 중복 호출 방지
	Geocode:      10 * time.Minute, // 동일 지점 반복 클릭 대응
}

// ValkeyConfig: Valkey 클라이언트 연결 파라미터.
var ValkeyConfig = struct {
	ReadyTimeout      time.Duration
	DialTimeout       time.Duration
	ConnWriteTimeout  time.Duration
	BlockingPoolSize  int
	PipelineMultiplex int
}{
	ReadyTimeout:      5 * time.Second,
	DialTimeout:       5 * time.Second,
	ConnWriteTimeout:  3 * time.Second,
	BlockingPoolSize:  50,
	PipelineMultiplex: 4,
}

// AggregatorConfig 는 기간 조회 설정이다.
var AggregatorConfig = struct {
	WorkerCount   int
	MaxMonthsBack int
	ExpandSteps   []int
}{
	WorkerCount:   6,                   // (상품 x 월) 호출 동시성 상한
	MaxMonthsBack: 60,                  // 자동 확장 포함 최대 조회 기간
	ExpandSteps:   []int{24, 36, 48, 60}, // 빈 결과 시 단계적 창 확장 (재귀 아님)
}

// TransportConfig 는 외부 API HTTP Transport 설정이다.
// 동시 요청 시 커넥션 풀 고갈 방지를 위해 디폴트(MaxIdleConnsPerHost=2)보다 높게 설정한다.
var TransportConfig = struct {
	MaxConnsPerHost     int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}{
	MaxConnsPerHost:     20,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     30 * time.Second,
}

// AppTimeout 는 앱 빌드/종료 타임아웃 설정이다.
var AppTimeout = struct {
	Build    time.Duration
	Shutdown time.Duration
}{
	Build:    30 * time.Second,
	Shutdown: 10 * time.Second,
}

// ServerTimeout 는 HTTP 서버 타임아웃이다.
var ServerTimeout = struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
}{
	ReadHeader: 5 * time.Second,
	Read:       30 * time.Second,
	Write:      90 * time.Second, // 기간 조회는 월 단위 외부 호출 합산만큼 걸릴 수 있음
	Idle:       60 * time.Second,
}

// ServerConfig 는 서버 기본 설정이다.
var ServerConfig = struct {
	TrustedProxies []string
}{
	TrustedProxies: []string{"127.0.0.1", "::1"},
}

// CORSConfig 는 CORS 기본 설정이다.
var CORSConfig = struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}{
	AllowOrigins: []string{"http://localhost:8501"},
	AllowMethods: []string{"GET", "OPTIONS"},
	AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
}
