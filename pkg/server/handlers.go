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
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jvdberg/stremio-xtream/pkg/addon"
	"github.com/jvdberg/stremio-xtream/pkg/config"
	"github.com/jvdberg/stremio-xtream/pkg/utils"
)

// handleAddon dispatches every addon resource. The first path segment is the
// base64url configuration token, the rest names the resource:
//
//	/{token}/manifest.json
//	/{token}/catalog/{type}/{id}.json
//	/{token}/stream/{type}/{id}.json
//	/{token}/meta/{type}/{id}.json
//	/{token}/playlist.m3u
func (s *Server) handleAddon(ctx *gin.Context) {
	parts := splitPath(ctx.Request.URL.Path)
	if len(parts) < 2 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	// Every decode failure wraps ErrConfigDecode, so a bad token is
	// always the client's fault
	conf, err := config.Decode(parts[0])
	if err != nil {
		utils.WarnLog("Rejected malformed configuration token: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid configuration in URL"})
		return
	}

	gateway := addon.New(conf, s.catalog)

	switch {
	case len(parts) == 2 && parts[1] == "manifest.json":
		ctx.JSON(http.StatusOK, gateway.Manifest())

	case len(parts) == 2 && parts[1] == "playlist.m3u":
		s.servePlaylist(ctx, conf)

	case len(parts) == 4 && parts[1] == "catalog":
		ctx.JSON(http.StatusOK, gateway.ListCatalog(ctx.Request.Context(), parts[2], trimJSONSuffix(parts[3])))

	case len(parts) == 4 && parts[1] == "stream":
		ctx.JSON(http.StatusOK, gateway.ResolveStream(ctx.Request.Context(), parts[2], trimJSONSuffix(parts[3])))

	case len(parts) == 4 && parts[1] == "meta":
		meta, ok := gateway.GetMeta(ctx.Request.Context(), parts[2], trimJSONSuffix(parts[3]))
		if !ok {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		ctx.JSON(http.StatusOK, meta)

	default:
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	}
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func trimJSONSuffix(segment string) string {
	return strings.TrimSuffix(segment, ".json")
}
