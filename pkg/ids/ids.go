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

// Package ids implements the composite identifiers that bind an upstream
// category or stream to the account it came from. Multiple accounts may
// hand out colliding category ids, so the aggregated catalog prefixes every
// id with the position of the owning account in the active account sequence.
package ids

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedID marks identifiers that do not parse. Resolvers treat it as
// "not found" rather than an error page.
var ErrMalformedID = errors.New("malformed composite id")

// CompositeID identifies a category or stream within one configuration.
// Account is the position of the owning account in the active-only account
// sequence; Remote is the provider's own id and is opaque to the gateway.
type CompositeID struct {
	Account int
	Remote  string
}

// New builds a CompositeID from an account position and a remote id.
func New(account int, remote string) CompositeID {
	return CompositeID{Account: account, Remote: remote}
}

// String renders the wire form "<account>:<remote>".
func (c CompositeID) String() string {
	return fmt.Sprintf("%d:%s", c.Account, c.Remote)
}

// Parse decodes the wire form. Only the FIRST colon separates the account
// position from the remote id: the remote part is provider-controlled and
// may itself contain colons.
func Parse(s string) (CompositeID, error) {
	sep := strings.Index(s, ":")
	if sep < 0 {
		return CompositeID{}, fmt.Errorf("%w: no separator in %q", ErrMalformedID, s)
	}

	account, err := strconv.Atoi(s[:sep])
	if err != nil {
		return CompositeID{}, fmt.Errorf("%w: account index %q is not a number", ErrMalformedID, s[:sep])
	}
	if account < 0 {
		return CompositeID{}, fmt.Errorf("%w: negative account index %d", ErrMalformedID, account)
	}
	// Atoi accepts "+1" and "007"; only the canonical decimal form is a
	// valid wire id
	if strconv.Itoa(account) != s[:sep] {
		return CompositeID{}, fmt.Errorf("%w: non-canonical account index %q", ErrMalformedID, s[:sep])
	}

	remote := s[sep+1:]
	if remote == "" {
		return CompositeID{}, fmt.Errorf("%w: empty remote id in %q", ErrMalformedID, s)
	}

	return CompositeID{Account: account, Remote: remote}, nil
}
