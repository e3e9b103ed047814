// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves leader schedules over a read-only JSON API.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/stakewatch/leadersched/api/doc"
	"github.com/stakewatch/leadersched/api/epochs"
	"github.com/stakewatch/leadersched/log"
	"github.com/stakewatch/leadersched/metrics"
	"github.com/stakewatch/leadersched/schedule"
	"github.com/stakewatch/leadersched/snapshot"
)

var logger = log.WithContext("pkg", "api")

// VersionHeader carries the API version on every routed response.
const VersionHeader = "X-Leadersched-Ver"

type Options struct {
	AllowedOrigins  string
	Config          schedule.Config
	CacheSize       int
	SnapshotTTL     time.Duration
	EnableMetrics   bool
	EnableReqLogger *atomic.Bool
	LogLevel        *slog.LevelVar // admin endpoints are mounted when set
}

// New return api router
func New(source snapshot.Source, opts Options) (http.Handler, error) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(VersionHeader, doc.Version())
			next.ServeHTTP(w, r)
		})
	})

	// to serve the open api spec
	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)

	e, err := epochs.New(source, opts.Config, opts.CacheSize, opts.SnapshotTTL)
	if err != nil {
		return nil, err
	}
	e.Mount(router, "/epochs")

	if opts.LogLevel != nil {
		reqLogger := opts.EnableReqLogger
		if reqLogger == nil {
			reqLogger = &atomic.Bool{}
		}
		NewAdmin(opts.LogLevel, reqLogger).Mount(router, "/admin")
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	var handler http.Handler = router
	if opts.EnableReqLogger != nil {
		handler = RequestLoggerHandler(handler, logger, opts.EnableReqLogger)
	}
	handler = handlers.CompressHandler(handler)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
	)(handler)

	return handler, nil
}
