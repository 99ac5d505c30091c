package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// MembershipConfig controls how payments extend a member's validity window.
type MembershipConfig struct {
	// ValidityDays is the fixed length of the window a single payment buys.
	ValidityDays int    `mapstructure:"validityDays"`
	Currency     string `mapstructure:"currency"`
}

func DefaultMembershipConfig() MembershipConfig {
	return MembershipConfig{
		ValidityDays: 30,
		Currency:     "USD",
	}
}

type MembershipConfigHolder struct {
	current atomic.Value // holds MembershipConfig
}

func NewMembershipConfigHolder() (*MembershipConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("membership")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/gymdesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GYMDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultMembershipConfig()
	v.SetDefault("membership.validityDays", defaults.ValidityDays)
	v.SetDefault("membership.currency", defaults.Currency)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg MembershipConfig
	if err := v.UnmarshalKey("membership", &cfg); err != nil {
		return nil, err
	}
	if err := validateMembershipConfig(cfg); err != nil {
		return nil, err
	}

	holder := &MembershipConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated MembershipConfig
		if err := v.UnmarshalKey("membership", &updated); err != nil {
			log.Printf("[membership-config] reload failed: %v", err)
			return
		}
		if err := validateMembershipConfig(updated); err != nil {
			log.Printf("[membership-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[membership-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *MembershipConfigHolder) Get() MembershipConfig {
	return h.current.Load().(MembershipConfig)
}

// NewStaticMembershipConfigHolder returns a holder pinned to cfg, for tests.
func NewStaticMembershipConfigHolder(cfg MembershipConfig) *MembershipConfigHolder {
	holder := &MembershipConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateMembershipConfig(cfg MembershipConfig) error {
	if cfg.ValidityDays <= 0 {
		return errors.New("membership.validityDays must be positive")
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("membership.currency cannot be empty")
	}
	return nil
}
