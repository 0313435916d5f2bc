package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/anvil/pkg/cache"
	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/hook"
	"github.com/dmitrymomot/anvil/pkg/lang"
	"github.com/dmitrymomot/anvil/pkg/sanitizer"
)

const (
	configFile   = "config"
	databaseFile = "database"
	extraDir     = "extra"
	tagsFile     = "tags"
)

// Init loads the application scope once per process: config files, tags,
// init functions, then fires app_init. Run calls it lazily; calling it at
// startup surfaces configuration errors early.
func (a *App) Init(ctx context.Context) error {
	a.initOnce.Do(func() {
		a.initErr = a.initialize(ctx)
		if a.initErr != nil {
			a.logger.ErrorContext(ctx, "app init failed", "error", a.initErr)
		}
	})
	return a.initErr
}

func (a *App) initialize(ctx context.Context) error {
	for name, s := range a.behaviors {
		if err := a.hooks.Register(name, s); err != nil {
			return err
		}
	}

	load := func(name, key string) error {
		return a.config.Load(a.fsys, name, key)
	}
	if err := a.loadScope(load, ""); err != nil {
		return err
	}
	if err := a.importTags(a.hooks, tagsFile+a.ext()); err != nil {
		return err
	}

	filter, err := sanitizer.Chain(config.String(a.config, "default_filter"))
	if err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	a.filter = filter

	if a.langs == nil {
		a.langs = lang.New(
			lang.WithDefault(config.String(a.config, "default_lang")),
			lang.WithAllowed(config.Strings(a.config, "lang_list")...),
		)
	}

	if a.cache == nil && cacheEnabled(a.config.Get("request_cache")) {
		a.cache = cache.NewMemory[CachedResponse]()
	}

	for _, fn := range a.initFuncs {
		if err := fn(ctx, a.config); err != nil {
			return fmt.Errorf("app init: %w", err)
		}
	}

	_, err = a.hooks.Notify(ctx, hook.AppInit, nil)
	return err
}

// loadScope loads the config cascade of one scope (the app, or a module
// directory when prefix is set) through load.
func (a *App) loadScope(load func(name, key string) error, prefix string) error {
	ext := a.ext()
	file := func(name string) string { return path.Join(prefix, name+ext) }

	if err := load(file(configFile), ""); err != nil {
		return err
	}
	if err := load(file(databaseFile), databaseFile); err != nil {
		return err
	}

	dir := path.Join(prefix, extraDir)
	entries, err := fs.ReadDir(a.fsys, dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ext {
			continue
		}
		key := strings.TrimSuffix(e.Name(), ext)
		if err := load(path.Join(dir, e.Name()), key); err != nil {
			return err
		}
	}

	if status := config.String(a.config, "app_status"); status != "" {
		if err := load(file(status), ""); err != nil {
			return err
		}
	}
	return nil
}

// importTags attaches registered behaviors named by a tags file, which maps
// hook names to behavior names, to bus. A missing file is not an error.
func (a *App) importTags(bus *hook.Bus, name string) error {
	data, err := fs.ReadFile(a.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	var tags map[string][]string
	if err := yaml.Unmarshal(data, &tags); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if err := bus.ImportNamed(tags); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// initModule runs the module scope initialization at most once per module.
// Concurrent first requests for a module wait for the same run. Module tags
// and language packs stay scoped to the module.
func (a *App) initModule(ctx context.Context, module string, req *Request) error {
	a.modulesMu.RLock()
	_, done := a.modulesDone[module]
	a.modulesMu.RUnlock()
	if !done {
		if err := a.loadModule(ctx, module); err != nil {
			return err
		}
	}
	return a.langs.Module(module).Load(a.fsys, req.Langset(), path.Join(module, "lang", req.Langset()+".yaml"))
}

func (a *App) loadModule(ctx context.Context, module string) error {
	_, err, _ := a.moduleGroup.Do(module, func() (any, error) {
		a.modulesMu.RLock()
		_, done := a.modulesDone[module]
		a.modulesMu.RUnlock()
		if done {
			return nil, nil
		}

		load := func(name, key string) error {
			return a.config.LoadModule(module, a.fsys, name, key)
		}
		if err := a.loadScope(load, module); err != nil {
			return nil, err
		}
		bus := a.hooks.Fork()
		if err := a.importTags(bus, path.Join(module, tagsFile+a.ext())); err != nil {
			return nil, err
		}
		view := a.config.Module(module)
		for _, fn := range a.moduleInits[module] {
			if err := fn(ctx, view); err != nil {
				return nil, fmt.Errorf("module %s init: %w", module, err)
			}
		}

		a.modulesMu.Lock()
		a.moduleHooks[module] = bus
		a.modulesDone[module] = struct{}{}
		a.modulesMu.Unlock()

		a.logger.DebugContext(ctx, "module initialized", "module", module)
		return nil, nil
	})
	return err
}

func (a *App) ext() string {
	ext := config.String(a.config, "config_ext")
	if ext == "" {
		return ".yaml"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// runtimePath returns the runtime directory for generated artifacts.
func (a *App) runtimePath() string {
	if a.runtimeDir != "" {
		return a.runtimeDir
	}
	return config.String(a.config, "runtime_path")
}
