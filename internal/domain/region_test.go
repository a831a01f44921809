package domain

import "testing"

func TestAdministrativeCodeIsValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"11680", true},
		{"1168010300", true},
		{"116801", false},
		{"1168", false},
		{"11680103AB", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := AdministrativeCode(tt.code).IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestAdministrativeCodeCounty(t *testing.T) {
	// 실거래 API의 LAWD_CD는 법정동 코드 앞 5자리(시군구)다
	if got := AdministrativeCode("1168010300").County(); got != "11680" {
		t.Fatalf("unexpected county: %s", got)
	}
	if got := AdministrativeCode("11680").County(); got != "11680" {
		t.Fatalf("unexpected county: %s", got)
	}
}

func TestParseGeocodePolicy(t *testing.T) {
	tests := []struct {
		input string
		want  GeocodePolicy
	}{
		{"kakao", PolicyKakao},
		{"vworld", PolicyVWorld},
		{"auto", PolicyAuto},
		{"", PolicyAuto},
		{"unknown", PolicyAuto},
	}

	for _, tt := range tests {
		if got := ParseGeocodePolicy(tt.input); got != tt.want {
			t.Errorf("ParseGeocodePolicy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCoordinateValidate(t *testing.T) {
	valid := Coordinate{Lat: 37.4979, Lon: 127.0276}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invalid := []Coordinate{
		{Lat: 91, Lon: 127},
		{Lat: 37, Lon: 181},
		{Lat: -91, Lon: 0},
	}
	for _, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("expected validation error for %+v", c)
		}
	}
}

func TestCoordinateCacheKeyRounding(t *testing.T) {
	a := Coordinate{Lat: 37.4979120001, Lon: 127.0276120001}
	b := Coordinate{Lat: 37.4979120004, Lon: 127.0276120004}
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("expected rounded keys to collide: %s vs %s", a.CacheKey(), b.CacheKey())
	}
}
