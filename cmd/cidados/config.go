// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/inspercidados/cidados/internal/cache"
	"github.com/inspercidados/cidados/internal/catalog"
	"github.com/inspercidados/cidados/internal/dataset"
	"github.com/inspercidados/cidados/internal/dataverse"
	"github.com/inspercidados/cidados/internal/secrets"
	"github.com/inspercidados/cidados/pkg/types"
)

// Environment/config keys (env form: CIDADOS_DATAVERSE_SERVER etc.). They
// are read exactly once per invocation, here, into explicit config structs;
// nothing below the CLI consults the environment.
const (
	keyServer     = "dataverse_server"
	keyToken      = "dataverse_token"
	keyCacheDir   = "cache_dir"
	keyExtension  = "extension"
	keyCatalogDir = "catalog_dir"
	keyTimeout    = "timeout"
	keyMaxRetries = "max_retries"
	keyUserAgent  = "user_agent"
)

// fetchConfig assembles retrieval settings from config file, environment,
// and the secrets directory. The token precedence is env/config over the
// .secrets/ file.
func fetchConfig() types.FetchConfig {
	token := viper.GetString(keyToken)
	if token == "" {
		token = loadedSecrets[secrets.DataverseTokenKey]
	}
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration(keyTimeout),
			UserAgent: viper.GetString(keyUserAgent),
		},
		Server:     viper.GetString(keyServer),
		APIToken:   token,
		MaxRetries: viper.GetInt(keyMaxRetries),
	}
}

func cacheConfig() types.CacheConfig {
	return types.CacheConfig{
		Dir:       viper.GetString(keyCacheDir),
		Extension: viper.GetString(keyExtension),
	}
}

func newCatalog() *catalog.Store {
	return catalog.NewStore(viper.GetString(keyCatalogDir))
}

func newCache() (*cache.Cache, error) {
	return cache.New(cacheConfig())
}

// newAccessor wires the full stack for retrieval commands.
func newAccessor() (*dataset.Accessor, error) {
	c, err := newCache()
	if err != nil {
		return nil, err
	}
	cfg := fetchConfig()
	return dataset.New(newCatalog(), c, dataverse.NewClient(cfg), cfg), nil
}
