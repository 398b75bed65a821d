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

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Panels disagree on whether numeric fields are JSON numbers, strings or
// null, sometimes within one response. FlexInt and FlexID absorb all three.

// FlexInt is a flexible integer type that can unmarshal from JSON string,
// number, or null/empty values.
type FlexInt int

// UnmarshalJSON implements the json.Unmarshaler interface.
func (fi *FlexInt) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		*fi = 0
		return nil
	}

	var i int
	if err := json.Unmarshal(b, &i); err == nil {
		*fi = FlexInt(i)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*fi = 0
		return nil
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		// Not convertible, default to 0 rather than failing the record
		*fi = 0
		return nil
	}

	*fi = FlexInt(i)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (fi FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(fi))
}

// Int returns the int value of the FlexInt
func (fi FlexInt) Int() int {
	return int(fi)
}

// String returns the decimal string form of the FlexInt
func (fi FlexInt) String() string {
	return strconv.Itoa(int(fi))
}

// FlexID is an opaque provider id that may arrive as a JSON string or
// number. It canonicalizes to its string form so allow-list comparisons
// match regardless of how the panel serialized the id.
type FlexID string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (fs *FlexID) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*fs = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*fs = FlexID(s)
		return nil
	}

	// A bare number: its literal text is the id
	*fs = FlexID(strings.TrimSpace(string(b)))
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (fs FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(fs))
}

// String returns the string value of the FlexID
func (fs FlexID) String() string {
	return string(fs)
}
