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

// Package stremio holds the addon protocol payload shapes the gateway
// produces. Only the fields the protocol requires for catalog, stream and
// meta resources are modeled.
package stremio

// Manifest describes the addon to the client
type Manifest struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Logo        string    `json:"logo,omitempty"`
	Resources   []string  `json:"resources"`
	Types       []string  `json:"types"`
	Catalogs    []Catalog `json:"catalogs"`
}

// Catalog is one content catalog advertised by the manifest
type Catalog struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MetaPreview is one catalog row
type MetaPreview struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Poster      string `json:"poster,omitempty"`
	PosterShape string `json:"posterShape,omitempty"`
}

// Meta is the full meta object for a single id
type Meta struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Poster      string `json:"poster,omitempty"`
	Description string `json:"description,omitempty"`
}

// Stream is one playable source for an id
type Stream struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// CatalogResponse is the body of a catalog resource answer
type CatalogResponse struct {
	Metas []MetaPreview `json:"metas"`
}

// StreamResponse is the body of a stream resource answer
type StreamResponse struct {
	Streams []Stream `json:"streams"`
}

// MetaResponse is the body of a meta resource answer
type MetaResponse struct {
	Meta Meta `json:"meta"`
}
