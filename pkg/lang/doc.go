// Package lang resolves the language set of a request and holds the
// loaded language packs.
//
// Detection order: the "lang" query variable, the "lang" cookie, then the
// Accept-Language header. When an allow-list is configured only listed
// languages are accepted; anything else falls back to the default.
//
//	packs := lang.New(lang.WithDefault("en"), lang.WithAllowed("en", "de"))
//	set := packs.Detect(r)                        // "de"
//	_ = packs.Load(appFS, set, "lang/de.yaml")    // once per file
//	packs.Get(set, "greeting", map[string]any{"name": "Ann"})
//
// Language packs are flat or nested YAML/JSON mappings; nested keys are
// joined with dots. Messages may contain {name} placeholders.
//
// Module packs are loaded into Module(name). They override the app pack for
// that module only:
//
//	_ = packs.Module("admin").Load(appFS, set, "admin/lang/de.yaml")
//	packs.Module("admin").Get(set, "title", nil) // module message, else app message
package lang
