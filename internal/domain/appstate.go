package domain

import "sync"

// AppState: UI 협력자가 소유하는 세션 상태 (핀 좌표, 마지막 코드, 마지막 진단).
// 코어 서비스는 전역 상태를 직접 읽지 않고, 핸들러가 스냅샷을 명시적으로 넘긴다.
type AppState struct {
	mu sync.RWMutex

	coord     *Coordinate
	lastCode  AdministrativeCode
	lastLabel string
	lastDiag  string
}

// SetCoordinate: 핀 좌표를 갱신한다.
func (s *AppState) SetCoordinate(c Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cc := c
	s.coord = &cc
}

// SetResolved: 마지막으로 변환된 코드/라벨/진단을 기록한다.
func (s *AppState) SetResolved(r GeocodeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.HasCode() {
		s.lastCode = r.Code
		s.lastLabel = r.Label
	}
	s.lastDiag = r.Diagnostic
}

// Snapshot: 현재 상태의 복사본을 반환한다. Thread-safe하게 읽기 락을 사용한다.
func (s *AppState) Snapshot() (coord *Coordinate, code AdministrativeCode, label, diag string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.coord != nil {
		cc := *s.coord
		coord = &cc
	}
	return coord, s.lastCode, s.lastLabel, s.lastDiag
}
