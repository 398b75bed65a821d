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

package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrConfigDecode marks any failure to turn a configuration token back into
// a GatewayConfig. Callers treat it as a client error, never as upstream trouble.
var ErrConfigDecode = errors.New("invalid configuration token")

// AccountConfig is one provider account as assembled by the configure page:
// panel origin, credentials, an active flag and an optional category
// allow-list (empty means all categories). The JSON field names match the
// tokens minted by the original configure page, so existing install links
// keep decoding.
type AccountConfig struct {
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	Username   string   `json:"username"`
	Password   string   `json:"password"`
	Active     bool     `json:"active"`
	Categories []string `json:"categories"`
}

// GatewayConfig is a user's full account set. It is reconstructed from the
// URL token on every request and never stored server-side; the order of
// Servers is meaningful because composite identifiers embed account positions.
type GatewayConfig struct {
	Servers []AccountConfig `json:"servers"`
}

// ActiveServers returns the active accounts in configuration order. The
// positions in the returned slice are the account-index space used by
// composite identifiers, so every resolver must go through this one helper.
func (g *GatewayConfig) ActiveServers() []AccountConfig {
	active := make([]AccountConfig, 0, len(g.Servers))
	for _, s := range g.Servers {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// Encode serializes the configuration into the URL-path-safe token carried
// as the first path segment. Marshaling a struct keeps the field order
// fixed, so equal configurations always produce equal tokens.
func Encode(g *GatewayConfig) (string, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfigDecode, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// accountShape mirrors AccountConfig with pointers so missing required
// fields are detectable after unmarshaling.
type accountShape struct {
	Name       *string  `json:"name"`
	URL        *string  `json:"url"`
	Username   *string  `json:"username"`
	Password   *string  `json:"password"`
	Active     *bool    `json:"active"`
	Categories []string `json:"categories"`
}

// Decode is the inverse of Encode. It fully validates the token: bad
// base64, bad JSON or a value that is not GatewayConfig-shaped all yield an
// error wrapping ErrConfigDecode. It never returns a partially populated
// configuration.
func Decode(token string) (*GatewayConfig, error) {
	raw, err := decodeBase64(token)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64: %v", ErrConfigDecode, err)
	}

	var shape struct {
		Servers *[]json.RawMessage `json:"servers"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", ErrConfigDecode, err)
	}
	if shape.Servers == nil {
		return nil, fmt.Errorf("%w: missing servers list", ErrConfigDecode)
	}

	cfg := &GatewayConfig{Servers: make([]AccountConfig, 0, len(*shape.Servers))}
	for i, rawServer := range *shape.Servers {
		var s accountShape
		if err := json.Unmarshal(rawServer, &s); err != nil {
			return nil, fmt.Errorf("%w: server %d is not an object: %v", ErrConfigDecode, i, err)
		}
		if s.Name == nil || s.URL == nil || s.Username == nil || s.Password == nil {
			return nil, fmt.Errorf("%w: server %d is missing required fields", ErrConfigDecode, i)
		}

		account := AccountConfig{
			Name:       *s.Name,
			URL:        *s.URL,
			Username:   *s.Username,
			Password:   *s.Password,
			Active:     true,
			Categories: s.Categories,
		}
		// The configure page treats a missing active flag as enabled
		if s.Active != nil {
			account.Active = *s.Active
		}
		cfg.Servers = append(cfg.Servers, account)
	}

	return cfg, nil
}

// decodeBase64 accepts both URL-safe and standard alphabets, padded or not.
// The original configure page used btoa (standard, padded) while the
// gateway itself mints unpadded URL-safe tokens.
func decodeBase64(token string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	}

	var lastErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(token)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
