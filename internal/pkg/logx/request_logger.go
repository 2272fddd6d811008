/*
Package logx provides a structured logging wrapper based on zerolog.

This file contains the HTTP middleware that logs request lifecycle
information (method, URI, status, latency) with anonymized client IPs.
*/
package logx

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// anonymizeIP strips the low bits of a client address before logging.
// IPv4 loses its last octet; IPv6 keeps only the upper 64 bits.
func anonymizeIP(ipStr string) string {
	host, _, err := net.SplitHostPort(ipStr)
	if err == nil {
		ipStr = host
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "unknown_ip"
	}

	if ip.IsLoopback() {
		return "127.0.0.1"
	}

	if v4 := ip.To4(); v4 != nil {
		return v4.Mask(net.CIDRMask(24, 32)).String()
	}

	return ip.Mask(net.CIDRMask(64, 128)).String()
}

// RequestLogger returns an HTTP middleware that logs each request with a
// per-request child logger carrying the request id and anonymized IP.
func RequestLogger() func(next http.Handler) http.Handler {
	baseLogger := Logger()

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetReqID(r.Context())

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			logger := baseLogger.With().
				Str("component", "http").
				Str("request_id", requestID).
				Str("remote_ip", anonymizeIP(r.RemoteAddr)).
				Str("request_method", r.Method).
				Str("request_uri", r.RequestURI).
				Logger()

			start := time.Now()
			defer func() {
				logger.Info().
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("latency_ms", time.Since(start)).
					Msg("request completed")
			}()

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context())))
		}

		return http.HandlerFunc(fn)
	}
}
