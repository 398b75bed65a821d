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
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jvdberg/stremio-xtream/pkg/config"
	"github.com/jvdberg/stremio-xtream/pkg/utils"
)

// accountFromQuery rebuilds an account from the configure page's `url`
// parameter, a full player_api URL with the credentials in its query string.
func accountFromQuery(ctx *gin.Context) (config.AccountConfig, error) {
	raw := ctx.Query("url")
	if raw == "" {
		return config.AccountConfig{}, fmt.Errorf("missing url parameter")
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return config.AccountConfig{}, fmt.Errorf("invalid url parameter: %q", raw)
	}

	query := parsed.Query()
	return config.AccountConfig{
		Name:     parsed.Hostname(),
		URL:      fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		Username: query.Get("username"),
		Password: query.Get("password"),
		Active:   true,
	}, nil
}

// handleUserInfo verifies panel credentials on behalf of the configure page.
// The upstream response is passed through untouched so the page can inspect
// user_info.auth and the expiry fields itself.
func (s *Server) handleUserInfo(ctx *gin.Context) {
	account, err := accountFromQuery(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verification, err := s.client.Verify(ctx.Request.Context(), account)
	if err != nil {
		utils.WarnLog("Credential check against %s failed: %v", account.URL, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch from Xtream Codes server.",
			"details": utils.PrintErrorAndReturn(err).Error(),
		})
		return
	}

	if !verification.Authenticated() {
		utils.WarnLog("Panel %s rejected credentials for user %q", account.URL, account.Username)
	}
	ctx.JSON(http.StatusOK, verification)
}

// handleCategories lists a single panel's live categories for the configure
// page's category picker.
func (s *Server) handleCategories(ctx *gin.Context) {
	account, err := accountFromQuery(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categories, err := s.client.LiveCategories(ctx.Request.Context(), account)
	if err != nil {
		utils.WarnLog("Category fetch from %s failed: %v", account.URL, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch from Xtream Codes server.",
			"details": utils.PrintErrorAndReturn(err).Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, categories)
}
