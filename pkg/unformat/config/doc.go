// Package config loads the unformat CLI settings and pattern catalogs.
//
// # Settings
//
// Settings are read with viper from an optional YAML file, overridden by
// UNFORMAT_* environment variables and, in the CLI, by command-line flags:
//
//	v := config.NewViper()
//	s, err := config.LoadSettings(v, "unformat.yaml")
//
// # Catalogs
//
// A catalog names reusable templates:
//
//	patterns:
//	  - name: access
//	    template: '{ip} - - [{time}] "{request}" {status:int} {size:int}'
//	  - name: pair
//	    template: '{}={}'
//	    discipline: positional
//	    formats: [str, int]
//
// Catalogs load from .yaml, .yml or .json files. Every entry is validated
// and compiled at load time, so Catalog.Compile only fails for unknown names.
package config
