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

package xtream

import "fmt"

// UnavailableError covers transport trouble against one panel: connection
// refused, DNS failure, timeout or a non-200 answer. The resolvers recover
// from it per account; it is never fatal to a request.
type UnavailableError struct {
	URL string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("upstream unavailable: %s: %v", e.URL, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ParseError covers a non-empty panel response that is not valid JSON. It
// carries a short prefix of the offending body for diagnostics.
type ParseError struct {
	URL    string
	Prefix string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("upstream returned unparsable body: %s: %v (body starts with %q)", e.URL, e.Err, e.Prefix)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
