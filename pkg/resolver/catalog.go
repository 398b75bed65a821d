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
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jvdberg/stremio-xtream/pkg/config"
	"github.com/jvdberg/stremio-xtream/pkg/ids"
	"github.com/jvdberg/stremio-xtream/pkg/utils"
	"github.com/jvdberg/stremio-xtream/pkg/xtream"
)

// forEachActive runs fetch once per active account, concurrently, each call
// bounded by the per-account timeout. fetch must write its result into its
// own index; failures are logged by the caller and contribute nothing.
// Positions in the active sequence are the account-index space minted into
// composite ids, so this is the only place that iterates accounts.
func (r *Resolver) forEachActive(ctx context.Context, active []config.AccountConfig,
	fetch func(ctx context.Context, idx int, account config.AccountConfig)) {

	g, gctx := errgroup.WithContext(ctx)
	for idx, account := range active {
		idx, account := idx, account
		g.Go(func() error {
			actx, cancel := context.WithTimeout(gctx, r.timeout)
			defer cancel()
			fetch(actx, idx, account)
			return nil
		})
	}
	// Workers never return errors; Wait only joins them
	g.Wait() // nolint: errcheck
}

// ListCategories aggregates every active account's live category listing
// into one ordered result. Accounts whose upstream call fails contribute
// zero entries; an all-accounts-failed run yields an empty slice, not an
// error. Result order is account order, upstream order within an account.
func (r *Resolver) ListCategories(ctx context.Context, cfg *config.GatewayConfig) []CategoryMeta {
	active := cfg.ActiveServers()
	annotate := len(cfg.Servers) > 1
	perAccount := make([][]CategoryMeta, len(active))

	r.forEachActive(ctx, active, func(actx context.Context, idx int, account config.AccountConfig) {
		categories, err := r.api.LiveCategories(actx, account)
		if err != nil {
			utils.WarnLog("Skipping account %q: category listing failed: %v", account.Name, err)
			return
		}

		allowed := allowSet(account.Categories)
		entries := make([]CategoryMeta, 0, len(categories))
		for _, cat := range categories {
			if allowed != nil && !allowed[cat.ID.String()] {
				continue
			}
			entries = append(entries, CategoryMeta{
				ID:          ids.New(idx, cat.ID.String()),
				DisplayName: annotateName(cat.Name, account.Name, annotate),
			})
		}
		perAccount[idx] = entries
	})

	result := []CategoryMeta{}
	for _, entries := range perAccount {
		result = append(result, entries...)
	}
	return result
}

// ListChannels aggregates every active account's live channel listing,
// applying the same allow-list and failure isolation as ListCategories.
// This is the flat channel catalog the addon exposes.
func (r *Resolver) ListChannels(ctx context.Context, cfg *config.GatewayConfig) []ChannelMeta {
	active := cfg.ActiveServers()
	perAccount := make([][]ChannelMeta, len(active))

	r.forEachActive(ctx, active, func(actx context.Context, idx int, account config.AccountConfig) {
		streams, err := r.api.LiveStreams(actx, account)
		if err != nil {
			utils.WarnLog("Skipping account %q: channel listing failed: %v", account.Name, err)
			return
		}

		allowed := allowSet(account.Categories)
		entries := make([]ChannelMeta, 0, len(streams))
		for _, ls := range streams {
			if allowed != nil && !allowed[ls.CategoryID.String()] {
				continue
			}
			entries = append(entries, ChannelMeta{
				ID:     ids.New(idx, ls.ID.String()),
				Name:   ls.Name,
				Poster: ls.Icon,
			})
		}
		perAccount[idx] = entries
	})

	result := []ChannelMeta{}
	for _, entries := range perAccount {
		result = append(result, entries...)
	}
	return result
}

// LiveStreamsOf exposes one account's (unfiltered by category) channel
// listing with the allow-list applied, for the playlist export.
func (r *Resolver) LiveStreamsOf(ctx context.Context, account config.AccountConfig) ([]xtream.LiveStream, error) {
	streams, err := r.api.LiveStreams(ctx, account)
	if err != nil {
		return nil, err
	}

	allowed := allowSet(account.Categories)
	if allowed == nil {
		return streams, nil
	}

	kept := make([]xtream.LiveStream, 0, len(streams))
	for _, ls := range streams {
		if allowed[ls.CategoryID.String()] {
			kept = append(kept, ls)
		}
	}
	return kept, nil
}

// annotateName disambiguates identical category names across providers by
// appending the account name once more than one account is configured.
func annotateName(name, accountName string, annotate bool) string {
	if !annotate || accountName == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, accountName)
}
