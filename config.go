/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/stadiumguess/games/stadium"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	hostKey        string
	images         string
	maxPlayers     int
	nameLength     int
	port           int
	prefix         string
	profile        bool
	rounds         int
	sessionTimeout time.Duration
	stadiumFile    string
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	stadiums []stadium.Stadium
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.maxPlayers < 1 {
		return fmt.Errorf("invalid max players (must be at least 1): %d", c.maxPlayers)
	}
	if c.nameLength < 1 {
		return fmt.Errorf("invalid name length (must be at least 1): %d", c.nameLength)
	}
	if c.rounds < 1 {
		return fmt.Errorf("invalid round count (must be at least 1): %d", c.rounds)
	}
	if c.rounds > len(c.stadiums) {
		return fmt.Errorf("invalid round count (only %d stadiums available): %d", len(c.stadiums), c.rounds)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("STADIUMGUESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "stadiumguess",
		Short:         "A multiplayer game of guessing where football stadiums are.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			stadiums, err := loadStadiums(cfg.stadiumFile)
			if err != nil {
				return err
			}
			cfg.stadiums = stadiums

			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: STADIUMGUESS_BIND)")
	fs.StringVar(&cfg.hostKey, "host-key", "", "secret required to claim the host role (env: STADIUMGUESS_HOST_KEY)")
	fs.StringVar(&cfg.images, "images", "", "directory of stadium images to serve under /images/ (env: STADIUMGUESS_IMAGES)")
	fs.IntVar(&cfg.maxPlayers, "max-players", stadium.DefaultMaxPlayers, "maximum players per match (env: STADIUMGUESS_MAX_PLAYERS)")
	fs.IntVar(&cfg.nameLength, "name-length", stadium.DefaultNameLength, "maximum player name length (env: STADIUMGUESS_NAME_LENGTH)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: STADIUMGUESS_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: STADIUMGUESS_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: STADIUMGUESS_PROFILE)")
	fs.IntVarP(&cfg.rounds, "rounds", "r", stadium.DefaultRounds, "rounds per game (env: STADIUMGUESS_ROUNDS)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle matches are ended (env: STADIUMGUESS_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.stadiumFile, "stadiums", "", "yaml, json or toml file listing stadiums from easiest to hardest (env: STADIUMGUESS_STADIUMS)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: STADIUMGUESS_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: STADIUMGUESS_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: STADIUMGUESS_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: STADIUMGUESS_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("stadiumguess v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
