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

// HostConfiguration containt host infos
type HostConfiguration struct {
	Hostname string
	Port     int
}

// AppConfig is the gateway server configuration, assembled in cmd from
// flags, environment and the optional config file.
type AppConfig struct {
	HostConfig *HostConfiguration
	HTTPS      bool

	// UpstreamTimeout is the per-account timeout in seconds applied to
	// every upstream panel request.
	UpstreamTimeout int

	// PublicURL is the externally reachable base URL advertised on the
	// configure page install link. Empty means derive from the request.
	PublicURL string
}
