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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jvdberg/stremio-xtream/pkg/config"
	"github.com/jvdberg/stremio-xtream/pkg/stremio"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := NewServer(&config.AppConfig{
		HostConfig:      &config.HostConfiguration{Hostname: "localhost", Port: 0},
		UpstreamTimeout: 5,
	})
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}

	router := gin.New()
	s.routes(router)
	return router
}

func newPanelServer(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/player_api.php" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("username") != "user" || r.URL.Query().Get("password") != "pass" {
			w.Write([]byte(`{"user_info":{"auth":0}}`))
			return
		}
		action := r.URL.Query().Get("action")
		if action == "" {
			w.Write([]byte(`{"user_info":{"auth":1,"username":"user","status":"Active"},"server_info":{"url":"example.com"}}`))
			return
		}
		body, ok := responses[action]
		if !ok {
			w.Write([]byte("[]"))
			return
		}
		w.Write([]byte(body))
	}))
}

func encodeToken(t *testing.T, baseURL string) string {
	t.Helper()
	token, err := config.Encode(&config.GatewayConfig{Servers: []config.AccountConfig{{
		Name:     "test-provider",
		URL:      baseURL,
		Username: "user",
		Password: "pass",
		Active:   true,
	}}})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	return token
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestManifestRoute(t *testing.T) {
	router := newTestRouter(t)
	token := encodeToken(t, "http://panel.example")

	recorder := doRequest(t, router, "/"+token+"/manifest.json")
	if recorder.Code != http.StatusOK {
		t.Fatalf("manifest status = %d, want 200", recorder.Code)
	}

	var manifest stremio.Manifest
	if err := json.Unmarshal(recorder.Body.Bytes(), &manifest); err != nil {
		t.Fatalf("manifest unmarshal error: %v", err)
	}
	if !strings.HasPrefix(manifest.ID, "org.xtream.gateway.") {
		t.Errorf("manifest.ID = %q, want org.xtream.gateway. prefix", manifest.ID)
	}
	if len(manifest.Catalogs) != 2 {
		t.Errorf("manifest catalogs = %d, want 2", len(manifest.Catalogs))
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	router := newTestRouter(t)

	for _, token := range []string{"%21%21not-base64%21%21", "aGVsbG8"} {
		recorder := doRequest(t, router, "/"+token+"/manifest.json")
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("token %q: status = %d, want 400", token, recorder.Code)
		}
	}
}

func TestCatalogRouteUpstreamDown(t *testing.T) {
	router := newTestRouter(t)
	// Nothing listens here, so the single account fails and the catalog
	// degrades to an empty list instead of an error
	token := encodeToken(t, "http://127.0.0.1:1")

	recorder := doRequest(t, router, "/"+token+"/catalog/tv/xtream-live-tv.json")
	if recorder.Code != http.StatusOK {
		t.Fatalf("catalog status = %d, want 200", recorder.Code)
	}

	var response stremio.CatalogResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("catalog unmarshal error: %v", err)
	}
	if response.Metas == nil || len(response.Metas) != 0 {
		t.Errorf("catalog metas = %#v, want empty non-nil slice", response.Metas)
	}
}

func TestCatalogRouteChannels(t *testing.T) {
	panel := newPanelServer(t, map[string]string{
		"get_live_streams": `[{"stream_id":10,"name":"News HD","category_id":"1","stream_icon":"http://logo/news.png"}]`,
	})
	defer panel.Close()

	router := newTestRouter(t)
	token := encodeToken(t, panel.URL)

	recorder := doRequest(t, router, "/"+token+"/catalog/tv/xtream-live-tv.json")
	if recorder.Code != http.StatusOK {
		t.Fatalf("catalog status = %d, want 200", recorder.Code)
	}

	var response stremio.CatalogResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("catalog unmarshal error: %v", err)
	}
	if len(response.Metas) != 1 {
		t.Fatalf("catalog metas = %d, want 1", len(response.Metas))
	}
	if response.Metas[0].ID != "0:10" || response.Metas[0].Name != "News HD" {
		t.Errorf("meta = %+v, want id 0:10 name News HD", response.Metas[0])
	}
}

func TestStreamRoute(t *testing.T) {
	panel := newPanelServer(t, map[string]string{
		"get_live_streams": `[{"stream_id":10,"name":"News HD","category_id":"1"}]`,
	})
	defer panel.Close()

	router := newTestRouter(t)
	token := encodeToken(t, panel.URL)

	recorder := doRequest(t, router, "/"+token+"/stream/tv/0:10.json")
	if recorder.Code != http.StatusOK {
		t.Fatalf("stream status = %d, want 200", recorder.Code)
	}

	var response stremio.StreamResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("stream unmarshal error: %v", err)
	}
	if len(response.Streams) != 1 {
		t.Fatalf("streams = %d, want 1", len(response.Streams))
	}
	want := panel.URL + "/live/user/pass/10.ts"
	if response.Streams[0].URL != want {
		t.Errorf("stream URL = %q, want %q", response.Streams[0].URL, want)
	}
}

func TestMetaRoute(t *testing.T) {
	panel := newPanelServer(t, map[string]string{
		"get_live_streams": `[{"stream_id":10,"name":"News HD","category_id":"1","stream_icon":"http://logo/news.png"}]`,
	})
	defer panel.Close()

	router := newTestRouter(t)
	token := encodeToken(t, panel.URL)

	recorder := doRequest(t, router, "/"+token+"/meta/tv/0:10.json")
	if recorder.Code != http.StatusOK {
		t.Fatalf("meta status = %d, want 200", recorder.Code)
	}

	var response stremio.MetaResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("meta unmarshal error: %v", err)
	}
	if response.Meta.ID != "0:10" || response.Meta.Name != "News HD" {
		t.Errorf("meta = %+v, want id 0:10 name News HD", response.Meta)
	}

	recorder = doRequest(t, router, "/"+token+"/meta/tv/0:404.json")
	if recorder.Code != http.StatusNotFound {
		t.Errorf("missing meta status = %d, want 404", recorder.Code)
	}
}

func TestPlaylistRoute(t *testing.T) {
	panel := newPanelServer(t, map[string]string{
		"get_live_streams": `[{"stream_id":10,"name":"News HD","category_id":"1","stream_icon":"http://logo/news.png"}]`,
	})
	defer panel.Close()

	router := newTestRouter(t)
	token := encodeToken(t, panel.URL)

	recorder := doRequest(t, router, "/"+token+"/playlist.m3u")
	if recorder.Code != http.StatusOK {
		t.Fatalf("playlist status = %d, want 200", recorder.Code)
	}

	body := recorder.Body.String()
	if !strings.HasPrefix(body, "#EXTM3U\n") {
		t.Errorf("playlist missing #EXTM3U header: %q", body)
	}
	if !strings.Contains(body, `tvg-name="News HD"`) {
		t.Errorf("playlist missing tvg-name tag: %q", body)
	}
	if !strings.Contains(body, panel.URL+"/live/user/pass/10.ts") {
		t.Errorf("playlist missing stream URI: %q", body)
	}
}

func TestUserInfoRoute(t *testing.T) {
	panel := newPanelServer(t, nil)
	defer panel.Close()

	router := newTestRouter(t)

	recorder := doRequest(t, router, "/api/user_info?url="+
		"http%3A%2F%2F"+strings.TrimPrefix(panel.URL, "http://")+"%2Fplayer_api.php%3Fusername%3Duser%26password%3Dpass")
	if recorder.Code != http.StatusOK {
		t.Fatalf("user_info status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("user_info unmarshal error: %v", err)
	}
	if _, ok := payload["user_info"]; !ok {
		t.Errorf("user_info response missing user_info key: %s", recorder.Body.String())
	}
}

func TestUserInfoRouteMissingURL(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, "/api/user_info")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("user_info status = %d, want 400", recorder.Code)
	}
}

func TestCategoriesRoute(t *testing.T) {
	panel := newPanelServer(t, map[string]string{
		"get_live_categories": `[{"category_id":"4","category_name":"Sports"}]`,
	})
	defer panel.Close()

	router := newTestRouter(t)

	recorder := doRequest(t, router, "/api/categories?url="+
		"http%3A%2F%2F"+strings.TrimPrefix(panel.URL, "http://")+"%2Fplayer_api.php%3Fusername%3Duser%26password%3Dpass")
	if recorder.Code != http.StatusOK {
		t.Fatalf("categories status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}
	if !strings.Contains(recorder.Body.String(), "Sports") {
		t.Errorf("categories response = %q, want Sports entry", recorder.Body.String())
	}
}

func TestCategoriesRouteUpstreamError(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, "/api/categories?url="+
		"http%3A%2F%2F127.0.0.1%3A1%2Fplayer_api.php%3Fusername%3Du%26password%3Dp")
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("categories status = %d, want 500", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "details") {
		t.Errorf("error response = %q, want details field", recorder.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)
	token := encodeToken(t, "http://panel.example")

	for _, path := range []string{"/", "/" + token, "/" + token + "/nothing.json"} {
		recorder := doRequest(t, router, path)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("path %q: status = %d, want 404", path, recorder.Code)
		}
	}
}
