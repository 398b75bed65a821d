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

// Package resolver turns a decoded gateway configuration into aggregated
// catalog listings and playable stream descriptors. Every request gets a
// fresh resolution pass over the immutable configuration; one unreachable
// or misconfigured account never blanks out the others.
package resolver

import (
	"time"

	"github.com/jvdberg/stremio-xtream/pkg/ids"
	"github.com/jvdberg/stremio-xtream/pkg/xtream"
)

// DefaultAccountTimeout bounds one account's upstream fetch inside an
// aggregation so a single stalled provider cannot hold up the response.
const DefaultAccountTimeout = 10 * time.Second

// CategoryMeta is one aggregated catalog entry shown before channel selection.
type CategoryMeta struct {
	ID          ids.CompositeID
	DisplayName string
}

// ChannelMeta is one aggregated live channel entry.
type ChannelMeta struct {
	ID     ids.CompositeID
	Name   string
	Poster string
}

// StreamDescriptor is one playable channel within a selected category.
type StreamDescriptor struct {
	URL   string
	Title string
}

// Resolver aggregates upstream listings across the accounts of one
// configuration. It holds no per-request state; the same Resolver serves
// every request.
type Resolver struct {
	api     xtream.API
	timeout time.Duration
}

// New builds a Resolver on top of an upstream client. A non-positive
// timeout falls back to DefaultAccountTimeout.
func New(api xtream.API, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultAccountTimeout
	}
	return &Resolver{api: api, timeout: timeout}
}

// allowSet turns an account's category allow-list into a lookup set.
// An empty list means every category is allowed.
func allowSet(categories []string) map[string]bool {
	if len(categories) == 0 {
		return nil
	}
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return set
}
