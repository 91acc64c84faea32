/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"

	"github.com/Seednode/stadiumguess/games/stadium"
	"github.com/spf13/viper"
)

// loadStadiums reads the stadium catalog from path, in any format viper
// understands, under a top-level "stadiums" key. An empty path selects the
// built-in catalog.
func loadStadiums(path string) ([]stadium.Stadium, error) {
	if path == "" {
		return stadium.DefaultStadiums(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading stadium catalog: %w", err)
	}

	var stadiums []stadium.Stadium
	if err := v.UnmarshalKey("stadiums", &stadiums); err != nil {
		return nil, fmt.Errorf("parsing stadium catalog %s: %w", path, err)
	}

	if err := stadium.ValidateCatalog(stadiums); err != nil {
		return nil, fmt.Errorf("invalid stadium catalog %s: %w", path, err)
	}

	return stadiums, nil
}
