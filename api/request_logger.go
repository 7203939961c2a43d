// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/mare-finance/staked-distributor/log"
)

// bodies longer than this are truncated in the request log
const maxLoggedBody = 1024

// RequestLoggerHandler logs every request with its body and outcome.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				logger.Warn("unexpected body read error", "err", err)
				return
			}
			// the handler still needs to read the body
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		if len(body) > maxLoggedBody {
			body = body[:maxLoggedBody]
		}

		start := time.Now()
		mrw := newMetricsResponseWriter(w)
		handler.ServeHTTP(mrw, r)

		logger.Info("api request",
			"method", r.Method,
			"uri", r.URL.String(),
			"status", mrw.statusCode,
			"duration", time.Since(start),
			"body", string(body),
		)
	}
	return http.HandlerFunc(fn)
}
