package server

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// WrapH2C: gin 라우터를 h2c 핸들러로 감싼다.
// 리버스 프록시 뒤에서 TLS 종단 없이도 HTTP/2 멀티플렉싱을 쓰기 위함이다.
// HTTP/1.1 클라이언트는 그대로 통과한다.
func WrapH2C(handler http.Handler) http.Handler {
	return h2c.NewHandler(handler, &http2.Server{})
}
