package bootstrap

import (
	"fmt"

	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/config"
	"github.com/safequest/engine/internal/logger"
)

// LoadCatalog returns the content catalog: the compiled-in tables by
// default, or a validated JSON file when CATALOG_PATH is set.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		cat := catalog.Default()
		logger.Info(LogMsgCatalogLoaded, "source", "builtin",
			"items", len(cat.Items()), "sets", len(cat.Sets()), "quests", len(cat.Quests()))
		return cat, nil
	}

	fileCfg, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.CatalogPath, err)
	}
	if err := catalog.Validate(fileCfg); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", cfg.CatalogPath, err)
	}

	cat, err := catalog.FromConfig(fileCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog %s: %w", cfg.CatalogPath, err)
	}

	logger.Info(LogMsgCatalogLoaded, "source", cfg.CatalogPath,
		"items", len(cat.Items()), "sets", len(cat.Sets()), "quests", len(cat.Quests()))
	return cat, nil
}
