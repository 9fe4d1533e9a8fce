// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/fault"
)

const shutdownTimeout = 5 * time.Second

// Configuration - metrics section of the configuration file
type Configuration struct {
	Listen string `gluamapper:"listen" json:"listen"`
}

// Server - background process serving /metrics
type Server struct {
	log    *logger.L
	server *http.Server
}

// NewServer - HTTP server for the metrics, nil if no listen address is configured
func NewServer(log *logger.L, configuration *Configuration, m *Metrics) (*Server, error) {
	if nil == configuration || "" == configuration.Listen {
		return nil, nil
	}
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	return &Server{
		log: log,
		server: &http.Server{
			Addr:         configuration.Listen,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

// Run - serve until shutdown
func (s *Server) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log

	go func() {
		log.Infof("listening on: %s", s.server.Addr)
		err := s.server.ListenAndServe()
		if nil != err && http.ErrServerClosed != err {
			log.Errorf("metrics server error: %s", err)
		}
	}()

	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); nil != err {
		log.Errorf("metrics shutdown error: %s", err)
	}
	log.Info("stopped")
}
