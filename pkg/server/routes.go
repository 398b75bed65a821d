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
	"strings"

	"github.com/gin-gonic/gin"
	uuid "github.com/satori/go.uuid"

	"github.com/jvdberg/stremio-xtream/pkg/utils"
)

func (s *Server) routes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/user_info", s.handleUserInfo)
	api.GET("/categories", s.handleCategories)

	// Addon resources start with the user's configuration token, which would
	// collide with the static /api segment in gin's routing tree. They are
	// dispatched by hand from the fallback handler instead.
	router.NoRoute(s.handleAddon)
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := strings.Split(uuid.NewV4().String(), "-")[0]
		ctx.Set("request_id", id)
		ctx.Header("X-Request-ID", id)
		utils.DebugLog("[%s] %s %s", id, ctx.Request.Method, ctx.Request.URL.Path)
		ctx.Next()
	}
}
