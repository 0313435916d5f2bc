package config

// Defaults returns the framework configuration defaults.
// The returned map is a fresh copy.
func Defaults() map[string]any {
	return map[string]any{
		// application
		"app_debug":      false,
		"app_status":     "",
		"runtime_path":   "runtime",
		"config_ext":     ".yaml",
		"default_filter": "",

		// modules
		"app_multi_module": true,
		"auto_bind_module": false,
		"bind_module":      "",
		"deny_module_list": []any{"common"},

		// dispatch defaults
		"default_module":     "index",
		"default_controller": "Index",
		"default_action":     "index",
		"empty_controller":   "Error",
		"empty_action":       "Empty",

		// controllers and actions
		"url_controller_layer": "controller",
		"controller_suffix":    false,
		"action_suffix":        "",
		"url_convert":          true,
		"url_param_type":       false,

		// language
		"lang_switch_on": false,
		"default_lang":   "en",
		"lang_list":      []any{},

		// responses
		"default_return_type": "html",
		"default_ajax_return": "json",

		// request cache
		"request_cache":        false,
		"request_cache_expire": 0,
		"request_cache_except": []any{},

		// routing
		"url_route_on":           true,
		"url_route_must":         false,
		"route_config_file":      []any{"route"},
		"url_domain_deploy":      false,
		"url_domain_root":        "",
		"pathinfo_depr":          "/",
		"controller_auto_search": false,
	}
}
