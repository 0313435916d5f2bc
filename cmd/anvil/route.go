package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/anvil"
	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/route"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Manage the compiled route file",
	Long: `Route rules are read from the files named by route_config_file. A compiled
copy in the runtime directory is used instead whenever it exists, so rebuild
or clear it after editing the rules.

Examples:
  anvil route build --app ./app
  anvil route list --compiled
  anvil route watch`,
}

var routeBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile route files into the runtime directory",
	RunE:  runRouteBuild,
}

var routeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the compiled route file",
	RunE:  runRouteClear,
}

var routeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List route rules",
	RunE:  runRouteList,
}

var routeWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the compiled route file when route files change",
	RunE:  runRouteWatch,
}

var listCompiled bool

func init() {
	routeListCmd.Flags().BoolVar(&listCompiled, "compiled", false, "list the compiled file instead of the sources")

	routeCmd.AddCommand(routeBuildCmd, routeClearCmd, routeListCmd, routeWatchCmd)
	rootCmd.AddCommand(routeCmd)
}

func runRouteBuild(cmd *cobra.Command, args []string) error {
	app := newApp(cmd)
	n, err := app.BuildRoutes(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rules to %s\n", n, route.CachePath(app.RuntimePath()))
	return nil
}

func runRouteClear(cmd *cobra.Command, args []string) error {
	app := newApp(cmd)
	if err := app.ClearRoutes(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", route.CachePath(app.RuntimePath()))
	return nil
}

func runRouteList(cmd *cobra.Command, args []string) error {
	app := newApp(cmd)

	var (
		rules []route.Rule
		err   error
	)
	if listCompiled {
		rules, err = route.ReadCache(app.RuntimePath())
	} else {
		rules, err = app.RouteRules(cmd.Context())
	}
	if err != nil {
		return err
	}

	printRules(cmd.OutOrStdout(), rules)
	return nil
}

func printRules(out io.Writer, rules []route.Rule) {
	if len(rules) == 0 {
		fmt.Fprintln(out, "No route rules found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATTERN\tTARGET\tMETHOD\tDOMAIN")
	for _, r := range rules {
		method := r.Method
		if method == "" {
			method = "*"
		}
		domain := r.Domain
		if domain == "" {
			domain = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Pattern, target(r), method, domain)
	}
	w.Flush()
}

func target(r route.Rule) string {
	switch {
	case r.Route != "":
		return "module " + r.Route
	case r.Controller != "":
		return "controller " + r.Controller
	case r.Redirect != "":
		if r.Status != 0 {
			return "redirect " + r.Redirect + " (" + strconv.Itoa(r.Status) + ")"
		}
		return "redirect " + r.Redirect
	}
	return "callable"
}

func runRouteWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := newApp(cmd)
	return watchRoutes(ctx, app, appDir)
}

// watchRoutes builds the compiled route file, then rebuilds it on every
// change of a route file under dir until ctx is done. Build failures are
// logged and the previous compiled file is kept.
func watchRoutes(ctx context.Context, app *anvil.App, dir string) error {
	if err := app.Init(ctx); err != nil {
		return err
	}
	files := routeFiles(app.Config())
	log := app.Logger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Directories are watched so atomic saves are seen.
	var dirs []string
	for _, f := range files {
		d := filepath.Join(dir, filepath.FromSlash(path.Dir(f)))
		if slices.Contains(dirs, d) {
			continue
		}
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		dirs = append(dirs, d)
	}

	rebuild := func(reason string) {
		n, err := app.BuildRoutes(ctx)
		if err != nil {
			log.ErrorContext(ctx, "route build failed", slog.String("reason", reason), slog.Any("error", err))
			return
		}
		log.InfoContext(ctx, "routes compiled",
			slog.String("reason", reason),
			slog.Int("rules", n),
			slog.String("path", route.CachePath(app.RuntimePath())),
		)
	}

	rebuild("start")
	log.InfoContext(ctx, "watching route files", slog.Any("files", files))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRouteFile(dir, event.Name, files) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				rebuild(event.Op.String() + " " + filepath.Base(event.Name))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.ErrorContext(ctx, "file watcher error", slog.Any("error", err))
		}
	}
}

// routeFiles returns the route file paths, relative to the app directory.
func routeFiles(cfg config.Getter) []string {
	ext := config.String(cfg, "config_ext")
	if ext == "" {
		ext = ".yaml"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	var files []string
	for _, name := range config.Strings(cfg, "route_config_file") {
		files = append(files, name+ext)
	}
	return files
}

func isRouteFile(dir, name string, files []string) bool {
	rel, err := filepath.Rel(dir, name)
	if err != nil {
		return false
	}
	return slices.Contains(files, filepath.ToSlash(rel))
}
