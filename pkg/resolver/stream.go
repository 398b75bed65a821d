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

package resolver

import (
	"context"

	"github.com/jvdberg/stremio-xtream/pkg/config"
	"github.com/jvdberg/stremio-xtream/pkg/ids"
	"github.com/jvdberg/stremio-xtream/pkg/utils"
	"github.com/jvdberg/stremio-xtream/pkg/xtream"
)

// accountFor recomputes the active sequence and resolves an account index.
// An index minted against a since-edited configuration simply misses.
func (r *Resolver) accountFor(cfg *config.GatewayConfig, id ids.CompositeID) (config.AccountConfig, bool) {
	active := cfg.ActiveServers()
	if id.Account < 0 || id.Account >= len(active) {
		return config.AccountConfig{}, false
	}
	return active[id.Account], true
}

// ListStreams resolves a composite id into playable stream descriptors.
// The remote part of the id is normally a category id (category catalog);
// when nothing matches by category it is retried as a bare stream id, which
// is what the flat channel catalog mints. Out-of-range indices and upstream
// failures both yield an empty slice, never an error.
func (r *Resolver) ListStreams(ctx context.Context, cfg *config.GatewayConfig, id ids.CompositeID) []StreamDescriptor {
	account, ok := r.accountFor(cfg, id)
	if !ok {
		utils.DebugLog("Stream request for account index %d does not match the configuration, returning nothing", id.Account)
		return []StreamDescriptor{}
	}

	actx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	streams, err := r.api.LiveStreams(actx, account)
	if err != nil {
		utils.WarnLog("Stream resolution against account %q failed: %v", account.Name, err)
		return []StreamDescriptor{}
	}

	result := []StreamDescriptor{}
	for _, ls := range streams {
		if ls.CategoryID.String() == id.Remote {
			result = append(result, StreamDescriptor{
				URL:   xtream.StreamURL(account, ls.ID.String()),
				Title: ls.Name,
			})
		}
	}
	if len(result) > 0 {
		return result
	}

	// No category carries this id; try it as a stream id
	for _, ls := range streams {
		if ls.ID.String() == id.Remote {
			title := ls.Name
			if title == "" {
				title = "Live"
			}
			return []StreamDescriptor{{
				URL:   xtream.StreamURL(account, ls.ID.String()),
				Title: title,
			}}
		}
	}

	return result
}

// GetCategory re-derives a single category's display entry from the owning
// account's listing, for the meta resource.
func (r *Resolver) GetCategory(ctx context.Context, cfg *config.GatewayConfig, id ids.CompositeID) (CategoryMeta, bool) {
	account, ok := r.accountFor(cfg, id)
	if !ok {
		return CategoryMeta{}, false
	}

	actx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	categories, err := r.api.LiveCategories(actx, account)
	if err != nil {
		utils.WarnLog("Meta lookup against account %q failed: %v", account.Name, err)
		return CategoryMeta{}, false
	}

	for _, cat := range categories {
		if cat.ID.String() == id.Remote {
			return CategoryMeta{
				ID:          id,
				DisplayName: annotateName(cat.Name, account.Name, len(cfg.Servers) > 1),
			}, true
		}
	}
	return CategoryMeta{}, false
}

// GetChannel looks a single channel up by its stream id, for the meta
// resource of entries minted by the flat channel catalog.
func (r *Resolver) GetChannel(ctx context.Context, cfg *config.GatewayConfig, id ids.CompositeID) (ChannelMeta, bool) {
	account, ok := r.accountFor(cfg, id)
	if !ok {
		return ChannelMeta{}, false
	}

	actx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	streams, err := r.api.LiveStreams(actx, account)
	if err != nil {
		utils.WarnLog("Meta lookup against account %q failed: %v", account.Name, err)
		return ChannelMeta{}, false
	}

	for _, ls := range streams {
		if ls.ID.String() == id.Remote {
			return ChannelMeta{ID: id, Name: ls.Name, Poster: ls.Icon}, true
		}
	}
	return ChannelMeta{}, false
}
