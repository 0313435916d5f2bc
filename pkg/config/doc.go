// Package config provides the key-value configuration store used by the
// request pipeline.
//
// Values are read from YAML files in an fs.FS and looked up by dotted key.
// A Store starts from Defaults(), merges files on top, and lets environment
// variables override any key:
//
//	cfg := config.New(config.WithEnvPrefix("ANVIL_"))
//	if err := cfg.Load(appFS, "config.yaml", ""); err != nil {
//	    return err
//	}
//	debug := config.Bool(cfg, "app_debug") // ANVIL_APP_DEBUG=true wins
//
// # Module Layers
//
// Every module may carry its own configuration layer. Module(name) returns a
// view that consults the module layer first and falls back to the base layer:
//
//	_ = cfg.LoadModule("admin", appFS, "admin/config.yaml", "")
//	view := cfg.Module("admin")
//	config.String(view, "default_controller")
//
// # Typed Helpers
//
// Bool, String, Int, Strings and Duration convert raw values from any Getter.
// Missing or unconvertible values yield the zero value.
package config
