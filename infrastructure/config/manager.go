package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Errors for config management
var (
	ErrSiteNotFound = errors.New("site not found")
	ErrDuplicateKey = errors.New("key already exists")
)

// ConfigManager provides CRUD operations for config entries
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// --- Restricted site CRUD ---

// AddRestrictedSite marks a site as skippable with --skip
func (m *ConfigManager) AddRestrictedSite(name string) error {
	name = normalizeSite(name)
	if name == "" {
		return fmt.Errorf("site name is required")
	}

	if lo.Contains(m.config.Sites.Restricted, name) {
		return fmt.Errorf("%w: site %q", ErrDuplicateKey, name)
	}

	m.config.Sites.Restricted = append(m.config.Sites.Restricted, name)
	sort.Strings(m.config.Sites.Restricted)
	return Save(m.config, m.configPath)
}

// ListRestrictedSites returns the restricted sites in sorted order
func (m *ConfigManager) ListRestrictedSites() []string {
	sites := lo.Uniq(lo.Map(m.config.Sites.Restricted, func(s string, _ int) string {
		return normalizeSite(s)
	}))
	sort.Strings(sites)
	return sites
}

// RemoveRestrictedSite removes a site from the restricted list
func (m *ConfigManager) RemoveRestrictedSite(name string) error {
	name = normalizeSite(name)
	if !lo.Contains(m.config.Sites.Restricted, name) {
		return fmt.Errorf("%w: %q", ErrSiteNotFound, name)
	}

	m.config.Sites.Restricted = lo.Without(m.config.Sites.Restricted, name)
	return Save(m.config, m.configPath)
}

func normalizeSite(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
