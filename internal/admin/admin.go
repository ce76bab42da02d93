// Package admin is the broker's peripheral HTTP plane: /metrics for
// Prometheus scraping and /debug/pprof for profiling. It is built on
// github.com/golang-io/requests the same way the teacher's stat.go Httpd
// wires its own admin server — requests.NewServeMux/requests.NewServer
// rather than a bare net/http.ServeMux — and deliberately does not import
// the broker package, so it carries no opinion about MQTT-SN at all; it
// only exposes whatever is registered in the default Prometheus registry.
package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/golang-io/requests"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// accessLog mirrors the teacher's stat.go ServerLog request logger.
func accessLog(ctx context.Context, stat *requests.Stat) {
	b, _ := json.Marshal(stat.Request.Body)
	log.Printf("mqtt-sn: admin %s body=%s", stat.Print(), b)
}

// ListenAndServe starts the admin HTTP plane on addr, blocking until it
// exits. Like the teacher's Httpd(), failure here is not fatal to the UDP
// broker — callers typically run it in its own goroutine.
func ListenAndServe(addr string) error {
	mux := requests.NewServeMux(requests.URL(addr), requests.Logf(accessLog))
	mux.Route("/metrics", promhttp.Handler())
	mux.Pprof()
	s := requests.NewServer(context.Background(), mux, requests.OnStart(func(s *http.Server) {
		log.Printf("mqtt-sn: admin serve: %s", s.Addr)
	}))
	return s.ListenAndServe()
}
