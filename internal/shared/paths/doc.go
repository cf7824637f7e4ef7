// Package paths defines the canonical directory layout of an addon
// installation.
//
// # Directory Structure
//
//	<base>/
//	  ├── _add-ons/              (third-party addons, one directory each)
//	  │   └── karma/
//	  │       ├── default.yaml   (addon defaults)
//	  │       ├── api.karma.yaml (present when the addon exposes an API)
//	  │       └── tasks.karma.yaml
//	  ├── _app/core/bundles/     (first-party bundled addons)
//	  ├── _config/
//	  │   ├── bundles/<name>/<name>.yaml
//	  │   └── add-ons/<name>/<name>.yaml | add-ons/<name>.yaml
//	  └── _cache/_add-ons/<name>/ (per-addon cache namespace)
//
// # Usage
//
//	layout := paths.NewLayout("/srv/site")
//	a := layout.Addon("karma")
//	a.CacheDir()       // /srv/site/_cache/_add-ons/karma
//	a.OverrideFiles()  // config override candidates in priority order
package paths
