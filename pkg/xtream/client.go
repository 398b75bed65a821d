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

// Package xtream is the only place in the gateway that talks to upstream
// panels. Responses are treated as untrusted input: bodies are re-checked
// for JSON validity, arrays are walked element by element and records that
// do not match the expected shape are skipped instead of failing the fetch.
package xtream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/buger/jsonparser"
	xtreamcodes "github.com/tellytv/go.xtream-codes"

	"github.com/jvdberg/stremio-xtream/pkg/config"
	"github.com/jvdberg/stremio-xtream/pkg/utils"
)

// Panel API actions used by the gateway
const (
	actionLiveCategories = "get_live_categories"
	actionLiveStreams    = "get_live_streams"
)

const maxBodyBytes = 10 * 1024 * 1024

// Category is one entry of a get_live_categories response.
type Category struct {
	ID   FlexID `json:"category_id"`
	Name string `json:"category_name"`
}

// LiveStream is one entry of a get_live_streams response.
type LiveStream struct {
	ID         FlexInt `json:"stream_id"`
	Name       string  `json:"name"`
	CategoryID FlexID  `json:"category_id"`
	Icon       string  `json:"stream_icon"`
}

// Verification is the panel's login answer, returned to the configure page
// so it can check the auth flag and show the expiry date.
type Verification struct {
	UserInfo   xtreamcodes.UserInfo   `json:"user_info"`
	ServerInfo xtreamcodes.ServerInfo `json:"server_info"`
}

// Authenticated reports whether the panel accepted the credentials. The
// provider signals auth failure with user_info.auth == 0, not an HTTP error.
// The auth field's flexible type only exposes its value through JSON, so the
// check goes through its marshalled form ("0"/"1", quoted or not).
func (v Verification) Authenticated() bool {
	raw, err := json.Marshal(v.UserInfo.Auth)
	if err != nil {
		return false
	}
	return strings.Trim(string(raw), `"`) == "1"
}

// API is the upstream surface the resolvers depend on. Tests substitute
// canned responses through it.
type API interface {
	LiveCategories(ctx context.Context, account config.AccountConfig) ([]Category, error)
	LiveStreams(ctx context.Context, account config.AccountConfig) ([]LiveStream, error)
}

// Client issues requests against Xtream panels. One Client serves all
// accounts; credentials travel per call.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient builds a Client. The timeout bounds every single panel request;
// provider TLS setups are routinely broken, so verification is skipped the
// same way the upstream player apps do.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		userAgent: utils.GetIPTVUserAgent(),
	}
}

// panelURL builds a player_api.php URL for one account and action.
func panelURL(account config.AccountConfig, action string) string {
	params := url.Values{}
	params.Set("username", account.Username)
	params.Set("password", account.Password)
	if action != "" {
		params.Set("action", action)
	}
	return strings.TrimRight(account.URL, "/") + "/player_api.php?" + params.Encode()
}

// FetchJSON performs a single GET, accumulates the full body and checks it
// is JSON. An empty body is returned as an empty array: some panels answer
// "no data" with a zero-length body. There are no retries here; retry
// policy, if any, belongs to the caller.
func (c *Client) FetchJSON(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &UnavailableError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UnavailableError{URL: rawURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &UnavailableError{URL: rawURL, Err: err}
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return []byte("[]"), nil
	}

	if !json.Valid(body) {
		return nil, &ParseError{
			URL:    rawURL,
			Prefix: bodyPrefix(body),
			Err:    fmt.Errorf("invalid JSON"),
		}
	}

	return body, nil
}

// LiveCategories fetches and shape-checks one account's live category list.
// A payload that is valid JSON but not an array yields zero categories.
func (c *Client) LiveCategories(ctx context.Context, account config.AccountConfig) ([]Category, error) {
	reqURL := panelURL(account, actionLiveCategories)

	body, err := c.FetchJSON(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	categories := []Category{}
	_, arrErr := jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, offset int, _ error) {
		if dataType != jsonparser.Object {
			return
		}
		// category_id must be present; records without it are unusable
		if _, _, _, err := jsonparser.Get(value, "category_id"); err != nil {
			utils.DebugLog("Skipping category record without category_id from %s", account.Name)
			return
		}
		var cat Category
		if err := json.Unmarshal(value, &cat); err != nil || cat.ID == "" {
			utils.DebugLog("Skipping malformed category record from %s: %v", account.Name, err)
			return
		}
		categories = append(categories, cat)
	})
	if arrErr != nil {
		utils.WarnLog("Account %s returned a non-array category payload, treating as empty", account.Name)
		return []Category{}, nil
	}

	return categories, nil
}

// LiveStreams fetches and shape-checks one account's live channel list.
// A payload that is valid JSON but not an array yields zero channels.
func (c *Client) LiveStreams(ctx context.Context, account config.AccountConfig) ([]LiveStream, error) {
	reqURL := panelURL(account, actionLiveStreams)

	body, err := c.FetchJSON(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	streams := []LiveStream{}
	_, arrErr := jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, offset int, _ error) {
		if dataType != jsonparser.Object {
			return
		}
		if _, _, _, err := jsonparser.Get(value, "stream_id"); err != nil {
			utils.DebugLog("Skipping stream record without stream_id from %s", account.Name)
			return
		}
		var ls LiveStream
		if err := json.Unmarshal(value, &ls); err != nil {
			utils.DebugLog("Skipping malformed stream record from %s: %v", account.Name, err)
			return
		}
		streams = append(streams, ls)
	})
	if arrErr != nil {
		utils.WarnLog("Account %s returned a non-array stream payload, treating as empty", account.Name)
		return []LiveStream{}, nil
	}

	return streams, nil
}

// Verify logs in against the panel and returns the user/server info. The
// auth flag is passed through untouched so the configure page can check it.
func (c *Client) Verify(ctx context.Context, account config.AccountConfig) (*Verification, error) {
	cli, err := xtreamcodes.NewClientWithUserAgent(ctx, account.Username, account.Password, strings.TrimRight(account.URL, "/"), c.userAgent)
	if err != nil {
		return nil, &UnavailableError{URL: account.URL, Err: err}
	}

	return &Verification{
		UserInfo:   cli.UserInfo,
		ServerInfo: cli.ServerInfo,
	}, nil
}

// StreamURL builds the playback URL for one live channel following the
// provider's fixed template.
func StreamURL(account config.AccountConfig, streamID string) string {
	return fmt.Sprintf("%s/live/%s/%s/%s.ts",
		strings.TrimRight(account.URL, "/"), account.Username, account.Password, streamID)
}

// bodyPrefix returns a short, valid-UTF-8 prefix of a body for diagnostics.
func bodyPrefix(body []byte) string {
	const max = 120
	if len(body) > max {
		body = body[:max]
	}
	for len(body) > 0 && !utf8.Valid(body) {
		body = body[:len(body)-1]
	}
	return string(body)
}
