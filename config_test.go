/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/Seednode/stadiumguess/games/stadium"
)

func testConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		maxPlayers:     stadium.DefaultMaxPlayers,
		nameLength:     stadium.DefaultNameLength,
		port:           8080,
		rounds:         3,
		sessionTimeout: time.Hour,
		stadiums:       stadium.DefaultStadiums(),
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, "tls-key"},
		{"key without cert", func(c *Config) { c.tlsKey = "key.pem" }, "tls-key"},
		{"both tls files", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, ""},
		{"port zero", func(c *Config) { c.port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.port = 70000 }, "invalid port"},
		{"no players", func(c *Config) { c.maxPlayers = 0 }, "max players"},
		{"no name", func(c *Config) { c.nameLength = 0 }, "name length"},
		{"no rounds", func(c *Config) { c.rounds = 0 }, "round count"},
		{"more rounds than stadiums", func(c *Config) { c.rounds = 11 }, "only 10 stadiums"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)

			err := cfg.validate()
			switch {
			case tt.wantErr == "" && err != nil:
				t.Errorf("unexpected error: %v", err)
			case tt.wantErr != "" && err == nil:
				t.Errorf("expected error containing %q", tt.wantErr)
			case tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr):
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := testConfig()
	if cfg.scheme() != "http" {
		t.Errorf("scheme = %s", cfg.scheme())
	}

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	if cfg.scheme() != "https" {
		t.Errorf("scheme = %s", cfg.scheme())
	}
}

func TestNewCmdDefaults(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	if err := cmd.ParseFlags([]string{"--rounds", "5", "--max_players", "12"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if cfg.rounds != 5 || cfg.maxPlayers != 12 {
		t.Errorf("flags not applied: rounds %d max players %d", cfg.rounds, cfg.maxPlayers)
	}
	if cfg.nameLength != stadium.DefaultNameLength || cfg.port != 8080 || cfg.sessionTimeout != time.Hour {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestNewCmdEnvironment(t *testing.T) {
	t.Setenv("STADIUMGUESS_ROUNDS", "7")
	t.Setenv("STADIUMGUESS_HOST_KEY", "hunter2")

	cfg := &Config{}
	_ = newCmd(cfg)

	if cfg.rounds != 7 {
		t.Errorf("rounds = %d, want 7", cfg.rounds)
	}
	if cfg.hostKey != "hunter2" {
		t.Errorf("host key = %q", cfg.hostKey)
	}
}
