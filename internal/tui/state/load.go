package state

import (
	"github.com/cristianoliveira/quickfire/internal/catalog"
	"github.com/cristianoliveira/quickfire/internal/config"
	"github.com/cristianoliveira/quickfire/internal/logging"
	"github.com/cristianoliveira/quickfire/internal/provider"
)

// Runtime carries the launch context needed to (re)load the catalog.
type Runtime struct {
	Cwd                string
	ExplicitConfigPath string
}

// CatalogPayload is everything a catalog (re)load produces.
type CatalogPayload struct {
	Entries    []catalog.Entry
	ConfigPath string
	Aliases    map[string]string
	Ranking    config.RankingConfig
}

// LoadCatalog reads configuration, collects entries from the config file and
// all enabled providers, and returns them sorted by name.
func LoadCatalog(runtime Runtime) (CatalogPayload, error) {
	loaded, err := config.Load(runtime.Cwd, runtime.ExplicitConfigPath)
	if err != nil {
		return CatalogPayload{}, err
	}

	aliases, err := loaded.Config.Providers.AliasMap()
	if err != nil {
		return CatalogPayload{}, err
	}

	var entries []catalog.Entry
	if loaded.Config.Providers.Config.Enabled {
		configEntries, err := config.CatalogEntries(loaded.Config, runtime.Cwd)
		if err != nil {
			return CatalogPayload{}, err
		}
		entries = append(entries, configEntries...)
	}
	entries = append(entries, provider.Load(loaded.Config.Providers, runtime.Cwd)...)

	catalog.SortEntries(entries)
	logging.Info("catalog loaded", "entries", len(entries), "config", loaded.Path)

	return CatalogPayload{
		Entries:    entries,
		ConfigPath: loaded.Path,
		Aliases:    aliases,
		Ranking:    loaded.Config.Ranking,
	}, nil
}
