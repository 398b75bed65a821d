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
	"errors"
	"reflect"
	"testing"
)

func sampleConfig() *GatewayConfig {
	return &GatewayConfig{
		Servers: []AccountConfig{
			{
				Name:       "provider-one",
				URL:        "http://one.example.com:8080",
				Username:   "alice",
				Password:   "s3cret",
				Active:     true,
				Categories: []string{"5", "9"},
			},
			{
				Name:       "provider-two",
				URL:        "https://two.example.com",
				Username:   "bob",
				Password:   "hunter2",
				Active:     false,
				Categories: []string{},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := sampleConfig()

	token, err := Encode(cfg)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	decoded, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if !reflect.DeepEqual(cfg, decoded) {
		t.Errorf("round trip mismatch:\n got: %+v\nwant: %+v", decoded, cfg)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	first, err := Encode(sampleConfig())
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	second, err := Encode(sampleConfig())
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	if first != second {
		t.Errorf("Encode() not deterministic: %q != %q", first, second)
	}
}

func TestDecodeAcceptsStandardBase64(t *testing.T) {
	// Tokens minted by the original configure page use btoa, which is the
	// standard padded alphabet
	payload := `{"servers":[{"name":"legacy","url":"http://legacy.example.com","username":"u","password":"p","active":true,"categories":[]}]}`
	token := base64.StdEncoding.EncodeToString([]byte(payload))

	cfg, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(cfg.Servers) != 1 || cfg.Servers[0].Name != "legacy" {
		t.Errorf("unexpected decode result: %+v", cfg)
	}
}

func TestDecodeDefaultsMissingActiveFlag(t *testing.T) {
	payload := `{"servers":[{"name":"n","url":"http://u","username":"a","password":"b"}]}`
	token := base64.RawURLEncoding.EncodeToString([]byte(payload))

	cfg, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !cfg.Servers[0].Active {
		t.Error("expected missing active flag to default to true")
	}
}

func TestDecodeFailures(t *testing.T) {
	b64 := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"not JSON", b64("this is not json")},
		{"JSON scalar", b64(`42`)},
		{"missing servers", b64(`{"hello":"world"}`)},
		{"servers not a list", b64(`{"servers":"nope"}`)},
		{"server entry not an object", b64(`{"servers":[17]}`)},
		{"server entry missing fields", b64(`{"servers":[{"name":"x","url":"http://u"}]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Decode(tt.token)
			if err == nil {
				t.Fatalf("Decode(%q) succeeded, want error (got %+v)", tt.token, cfg)
			}
			if !errors.Is(err, ErrConfigDecode) {
				t.Errorf("Decode(%q) error %v does not wrap ErrConfigDecode", tt.token, err)
			}
			if cfg != nil {
				t.Errorf("Decode(%q) returned partial config %+v with error", tt.token, cfg)
			}
		})
	}
}

func TestActiveServersPreservesOrder(t *testing.T) {
	cfg := &GatewayConfig{
		Servers: []AccountConfig{
			{Name: "a", URL: "http://a", Username: "u", Password: "p", Active: true},
			{Name: "b", URL: "http://b", Username: "u", Password: "p", Active: false},
			{Name: "c", URL: "http://c", Username: "u", Password: "p", Active: true},
		},
	}

	active := cfg.ActiveServers()
	if len(active) != 2 {
		t.Fatalf("ActiveServers() returned %d accounts, want 2", len(active))
	}
	if active[0].Name != "a" || active[1].Name != "c" {
		t.Errorf("ActiveServers() order = [%s %s], want [a c]", active[0].Name, active[1].Name)
	}
}
