// Package config provides snipstorm's configuration.
//
// Configuration is resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← SNIPSTORM_* (highest priority)
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .toml, .yaml or .yml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Recognised settings:
//
//	snippet.open          opening marker delimiter (default "<{")
//	snippet.close         closing marker delimiter (default "}>")
//	history.max_entries   undo groups kept per document (default 1000)
//	log.level             debug, info, warn or error (default "info")
//
// Environment variables map onto settings by name, for example
// SNIPSTORM_HISTORY_MAX_ENTRIES sets history.max_entries.
//
// # Usage
//
//	cfg, err := config.Load("snipstorm.toml")
//	if err != nil {
//	    return err
//	}
//	codec, err := cfg.Codec()
package config
