package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/internal/util"
)

// Config: 실거래가 조회 서비스의 전체 동작에 필요한 설정을 담는 구조체
type Config struct {
	RTMS    RTMSConfig
	Kakao   KakaoConfig
	VWorld  VWorldConfig
	Geocode GeocodeConfig
	Server  ServerConfig
	Valkey  ValkeyConfig
	Logging LoggingConfig
	Version string
}

// RTMSConfig: 공공데이터포털 실거래 API 자격증명 및 성공 코드 설정
// ServiceKey는 인코딩키/디코딩키 어느 쪽이 들어와도 되며, 호출 시 변형 후보를 순서대로 시도한다.
type RTMSConfig struct {
	ServiceKey   string
	SuccessCodes []string
}

// HasKey: 실거래 API 자격증명이 존재하는지 확인한다.
// 없어도 기동은 계속되고, 조회 작업이 명시적 실패 결과로 강등된다.
func (c RTMSConfig) HasKey() bool {
	return c.ServiceKey != ""
}

// KakaoConfig: 카카오 로컬 API(REST 키) 설정
type KakaoConfig struct {
	RESTKey string
}

// VWorldConfig: VWorld 공간정보 API 키 설정
type VWorldConfig struct {
	Key string
}

// GeocodeConfig: 역지오코딩 기본 정책 설정
type GeocodeConfig struct {
	DefaultPolicy domain.GeocodePolicy
}

// ServerConfig: UI 협력자용 HTTP API 서버 설정
type ServerConfig struct {
	Port int
}

// ValkeyConfig: 결과/지오코딩 캐싱용 Valkey 연결 설정
type ValkeyConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LoggingConfig: 애플리케이션 로그 설정 (레벨, 디렉토리, 로테이션 정책)
type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load: .env 파일 및 환경 변수로부터 설정을 로드하고, 기본값을 적용하여 Config 객체를 생성한다.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		RTMS: RTMSConfig{
			ServiceKey:   util.TrimSpace(getEnv("SERVICE_KEY", "")),
			SuccessCodes: parseCommaSeparatedWithDefault(getEnv("RTMS_SUCCESS_CODES", ""), constants.ResultCodes.Success),
		},
		Kakao: KakaoConfig{
			RESTKey: util.TrimSpace(getEnv("KAKAO_REST_API_KEY", "")),
		},
		VWorld: VWorldConfig{
			Key: util.TrimSpace(getEnv("VWORLD_API_KEY", "")),
		},
		Geocode: GeocodeConfig{
			DefaultPolicy: domain.ParseGeocodePolicy(getEnv("GEOCODE_POLICY", "auto")),
		},
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 30080),
		},
		Valkey: ValkeyConfig{
			Host:     getEnv("CACHE_HOST", "localhost"),
			Port:     getEnvInt("CACHE_PORT", 6379),
			Password: getEnv("CACHE_PASSWORD", ""),
			DB:       getEnvInt("CACHE_DB", 0),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Dir:        getEnv("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Version: util.TrimSpace(getEnv("APP_VERSION", "1.0.0-go")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate: 필수 설정값이 누락되지 않았는지 검증한다.
// 외부 API 자격증명 부재는 치명적이지 않다 (해당 작업만 실패 결과로 강등).
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if !c.Geocode.DefaultPolicy.IsValid() {
		return fmt.Errorf("GEOCODE_POLICY must be one of kakao, vworld, auto")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// parseCommaSeparatedWithDefault: 콤마 구분 목록을 파싱하되, 비어있으면 기본값을 쓴다.
// 성공 코드 목록에는 빈 문자열 자체가 유효한 동의어이므로 'empty' 토큰을 "" 로 매핑한다.
func parseCommaSeparatedWithDefault(value string, defaults []string) []string {
	if value == "" {
		return append([]string(nil), defaults...)
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := util.TrimSpace(part)
		if trimmed == "empty" {
			trimmed = ""
		}
		result = append(result, trimmed)
	}
	return result
}
