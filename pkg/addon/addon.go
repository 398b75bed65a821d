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

// Package addon is the gateway facade: the operation set the transport
// layer invokes per request once the configuration token is decoded.
// Upstream trouble never escapes it; the answers just shrink.
package addon

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"

	"github.com/jvdberg/stremio-xtream/pkg/config"
	"github.com/jvdberg/stremio-xtream/pkg/ids"
	"github.com/jvdberg/stremio-xtream/pkg/resolver"
	"github.com/jvdberg/stremio-xtream/pkg/stremio"
	"github.com/jvdberg/stremio-xtream/pkg/utils"
)

const (
	// TypeTV is the only content type the gateway serves
	TypeTV = "tv"

	// CatalogLiveTV is the flat channel catalog
	CatalogLiveTV = "xtream-live-tv"
	// CatalogCategories lists category groups before channel selection
	CatalogCategories = "xtream-categories"

	addonVersion = "1.0.0"
	addonLogo    = "https://www.stremio.com/website/stremio-logo-small.png"
)

// Addon serves one decoded configuration. It is built per request and
// discarded with it; the token in the URL is the only durable state.
type Addon struct {
	cfg      *config.GatewayConfig
	resolver *resolver.Resolver
}

// New builds the facade over a decoded configuration.
func New(cfg *config.GatewayConfig, r *resolver.Resolver) *Addon {
	return &Addon{cfg: cfg, resolver: r}
}

// Manifest describes this configuration's addon. The id embeds a digest of
// the canonical configuration JSON so differently-configured installs are
// distinct addons to the client.
func (a *Addon) Manifest() stremio.Manifest {
	return stremio.Manifest{
		ID:          "org.xtream.gateway." + a.configDigest(),
		Version:     addonVersion,
		Name:        "Xtream TV",
		Description: "Live TV channels from your Xtream Codes provider accounts.",
		Logo:        addonLogo,
		Resources:   []string{"catalog", "stream", "meta"},
		Types:       []string{TypeTV},
		Catalogs: []stremio.Catalog{
			{Type: TypeTV, ID: CatalogLiveTV, Name: "Live TV"},
			{Type: TypeTV, ID: CatalogCategories, Name: "Categories"},
		},
	}
}

// ListCatalog answers a catalog resource request. Unknown type/id pairs and
// fully failed aggregations both yield an empty metas list.
func (a *Addon) ListCatalog(ctx context.Context, contentType, catalogID string) stremio.CatalogResponse {
	resp := stremio.CatalogResponse{Metas: []stremio.MetaPreview{}}
	if contentType != TypeTV {
		return resp
	}

	switch catalogID {
	case CatalogLiveTV:
		for _, ch := range a.resolver.ListChannels(ctx, a.cfg) {
			resp.Metas = append(resp.Metas, stremio.MetaPreview{
				ID:          ch.ID.String(),
				Type:        TypeTV,
				Name:        ch.Name,
				Poster:      ch.Poster,
				PosterShape: "landscape",
			})
		}
	case CatalogCategories:
		for _, cat := range a.resolver.ListCategories(ctx, a.cfg) {
			resp.Metas = append(resp.Metas, stremio.MetaPreview{
				ID:   cat.ID.String(),
				Type: TypeTV,
				Name: cat.DisplayName,
			})
		}
	default:
		utils.DebugLog("Catalog request for unknown catalog %q", catalogID)
	}

	return resp
}

// ResolveStream answers a stream resource request. A malformed id is
// treated as "not found", not as an error.
func (a *Addon) ResolveStream(ctx context.Context, contentType, rawID string) stremio.StreamResponse {
	resp := stremio.StreamResponse{Streams: []stremio.Stream{}}
	if contentType != TypeTV {
		return resp
	}

	id, err := ids.Parse(rawID)
	if err != nil {
		utils.DebugLog("Unresolvable stream id %q: %v", rawID, err)
		return resp
	}

	for _, sd := range a.resolver.ListStreams(ctx, a.cfg, id) {
		resp.Streams = append(resp.Streams, stremio.Stream{URL: sd.URL, Title: sd.Title})
	}
	return resp
}

// GetMeta answers a meta resource request by re-deriving the entry from the
// owning account's listing. The second return is false when nothing matches.
func (a *Addon) GetMeta(ctx context.Context, contentType, rawID string) (stremio.MetaResponse, bool) {
	if contentType != TypeTV {
		return stremio.MetaResponse{}, false
	}

	id, err := ids.Parse(rawID)
	if err != nil {
		utils.DebugLog("Unresolvable meta id %q: %v", rawID, err)
		return stremio.MetaResponse{}, false
	}

	if ch, ok := a.resolver.GetChannel(ctx, a.cfg, id); ok {
		return stremio.MetaResponse{Meta: stremio.Meta{
			ID:     id.String(),
			Type:   TypeTV,
			Name:   ch.Name,
			Poster: ch.Poster,
		}}, true
	}

	if cat, ok := a.resolver.GetCategory(ctx, a.cfg, id); ok {
		return stremio.MetaResponse{Meta: stremio.Meta{
			ID:          id.String(),
			Type:        TypeTV,
			Name:        cat.DisplayName,
			Description: "Category from your Xtream provider.",
		}}, true
	}

	return stremio.MetaResponse{}, false
}

// configDigest hashes the canonical configuration JSON to a short stable tag.
func (a *Addon) configDigest() string {
	b, err := json.Marshal(a.cfg)
	if err != nil {
		return "unknown"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])[:10]
}
