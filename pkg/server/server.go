/*
 * stremio-xtream is a gateway that exposes Xtream Codes IPTV accounts
 * as a Stremio catalog/stream addon.
 * Copyright (C) 2026  Jan van den Berg
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jvdberg/stremio-xtream/pkg/config"
	"github.com/jvdberg/stremio-xtream/pkg/resolver"
	"github.com/jvdberg/stremio-xtream/pkg/utils"
	"github.com/jvdberg/stremio-xtream/pkg/xtream"
)

// Server carries the gateway's long-lived pieces: the shared upstream
// client and the resolver built on it. Everything request-specific is
// reconstructed from the URL token per request.
type Server struct {
	*config.AppConfig

	client  *xtream.Client
	catalog *resolver.Resolver
}

// NewServer initializes the gateway server from the application configuration.
func NewServer(conf *config.AppConfig) (*Server, error) {
	timeout := time.Duration(conf.UpstreamTimeout) * time.Second
	if conf.UpstreamTimeout <= 0 {
		timeout = resolver.DefaultAccountTimeout
	}

	client := xtream.NewClient(timeout)

	return &Server{
		AppConfig: conf,
		client:    client,
		catalog:   resolver.New(client, timeout),
	}, nil
}

// Serve runs the HTTP server until it fails.
func (s *Server) Serve() error {
	utils.InfoLog("[stremio-xtream] Server is starting...")

	router := gin.Default()
	// Stremio clients load the addon cross-origin, so the gateway answers
	// every origin; the panel credentials already live in the URL anyway
	router.Use(cors.Default())
	router.Use(s.requestID())

	s.routes(router)

	utils.InfoLog("[stremio-xtream] Server is ready and listening on :%d", s.HostConfig.Port)
	utils.InfoLog("[stremio-xtream] Manifest URL pattern: %s/{config}/manifest.json", s.advertisedBase())
	return router.Run(fmt.Sprintf(":%d", s.HostConfig.Port))
}

// advertisedBase is the base URL users install the addon from. A reverse
// proxy setup sets public-url; otherwise it is built from host and port.
func (s *Server) advertisedBase() string {
	if s.PublicURL != "" {
		return strings.TrimSuffix(s.PublicURL, "/")
	}
	scheme := "http"
	if s.HTTPS {
		scheme = "https"
	}
	hostname := s.HostConfig.Hostname
	if hostname == "" {
		hostname = "localhost"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, hostname, s.HostConfig.Port)
}
