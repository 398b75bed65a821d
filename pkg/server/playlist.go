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

package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jamesnetherton/m3u"

	"github.com/jvdberg/stremio-xtream/pkg/config"
	"github.com/jvdberg/stremio-xtream/pkg/utils"
	"github.com/jvdberg/stremio-xtream/pkg/xtream"
)

// servePlaylist exports every active account's allowed live streams as one
// M3U playlist with direct provider URLs. Accounts that fail keep the rest
// of the playlist intact, like the catalog endpoints.
func (s *Server) servePlaylist(ctx *gin.Context, conf *config.GatewayConfig) {
	playlist := &m3u.Playlist{Tracks: make([]m3u.Track, 0)}

	multi := len(conf.Servers) > 1
	for _, account := range conf.ActiveServers() {
		streams, err := s.catalog.LiveStreamsOf(ctx.Request.Context(), account)
		if err != nil {
			utils.WarnLog("Skipping account %q in playlist export: %v", account.Name, err)
			continue
		}
		for _, stream := range streams {
			playlist.Tracks = append(playlist.Tracks, playlistTrack(account, stream, multi))
		}
	}

	ctx.Header("Content-Disposition", `attachment; filename="playlist.m3u"`)
	ctx.Writer.Header().Set("Content-Type", "application/octet-stream")
	ctx.Status(http.StatusOK)
	marshallInto(ctx.Writer, playlist)
}

func playlistTrack(account config.AccountConfig, stream xtream.LiveStream, multi bool) m3u.Track {
	track := m3u.Track{
		Name:   stream.Name,
		Length: -1,
		URI:    xtream.StreamURL(account, stream.ID.String()),
		Tags:   []m3u.Tag{},
	}

	track.Tags = append(track.Tags, m3u.Tag{Name: "tvg-id", Value: stream.ID.String()})
	if stream.Name != "" {
		track.Tags = append(track.Tags, m3u.Tag{Name: "tvg-name", Value: stream.Name})
	}
	if stream.Icon != "" {
		track.Tags = append(track.Tags, m3u.Tag{Name: "tvg-logo", Value: stream.Icon})
	}
	group := account.Name
	if !multi {
		group = "Live"
	}
	track.Tags = append(track.Tags, m3u.Tag{Name: "group-title", Value: group})

	return track
}

func marshallInto(into io.Writer, playlist *m3u.Playlist) {
	fmt.Fprint(into, "#EXTM3U\n")

	for _, track := range playlist.Tracks {
		var buffer bytes.Buffer
		buffer.WriteString("#EXTINF:")
		buffer.WriteString(fmt.Sprintf("%d ", track.Length))
		for i := range track.Tags {
			if i == len(track.Tags)-1 {
				buffer.WriteString(fmt.Sprintf("%s=%q", track.Tags[i].Name, track.Tags[i].Value))
				continue
			}
			buffer.WriteString(fmt.Sprintf("%s=%q ", track.Tags[i].Name, track.Tags[i].Value))
		}
		fmt.Fprintf(into, "%s, %s\n%s\n", buffer.String(), track.Name, track.URI)
	}
}
