package app

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
)

// ListRepos loads the enabled repositories and prints them.
func (a *App) ListRepos(ctx context.Context, opts ClientOptions, patterns []string) error {
	return a.withSession(ctx, opts, func(client ports.DaemonClient, path string) error {
		if ok, err := client.ReadAllRepos(ctx, path); err != nil {
			return err
		} else if !ok {
			a.logger.Warn("some repositories failed to load")
		}
		repos, err := client.ListRepos(ctx, path, []string{"name", "size", "revision"}, patterns)
		if err != nil {
			return zerr.Wrap(err, "failed to list repositories")
		}
		if opts.JSON {
			return writeJSON(a.out, repos)
		}
		return mapTable(
			[]string{"Repo ID", "Name", "Packages"},
			[]string{"id", "name", "size"},
			repos,
		).Render(a.out)
	})
}

// ListRepoConf prints the configured repositories, optionally limited to ids.
func (a *App) ListRepoConf(ctx context.Context, opts ClientOptions, ids []string) error {
	return a.withSession(ctx, opts, func(client ports.DaemonClient, path string) error {
		confs, err := client.ListRepoConf(ctx, path, ids)
		if err != nil {
			return zerr.Wrap(err, "failed to list repository configuration")
		}
		if opts.JSON {
			return writeJSON(a.out, confs)
		}
		rows := make([]map[string]any, len(confs))
		for i, conf := range confs {
			rows[i] = make(map[string]any, len(conf))
			for k, v := range conf {
				rows[i][k] = v
			}
		}
		return mapTable(
			[]string{"Repo ID", "Name", "Enabled"},
			[]string{"id", "name", "enabled"},
			rows,
		).Render(a.out)
	})
}

// GetRepoConf prints every attribute of one repository.
func (a *App) GetRepoConf(ctx context.Context, opts ClientOptions, id string) error {
	return a.withSession(ctx, opts, func(client ports.DaemonClient, path string) error {
		conf, err := client.GetRepoConf(ctx, path, id)
		if err != nil {
			return zerr.Wrap(err, "failed to get repository configuration")
		}
		if opts.JSON {
			return writeJSON(a.out, conf)
		}
		for _, key := range slices.Sorted(maps.Keys(conf)) {
			_, _ = fmt.Fprintf(a.out, "%s = %s\n", key, conf[key])
		}
		return nil
	})
}

// EnableRepos enables repositories in a session and prints the ids that changed.
func (a *App) EnableRepos(ctx context.Context, opts ClientOptions, ids []string) error {
	return a.toggleRepos(ctx, opts, ids, ports.DaemonClient.EnableRepos, "enabled")
}

// DisableRepos disables repositories in a session and prints the ids that changed.
func (a *App) DisableRepos(ctx context.Context, opts ClientOptions, ids []string) error {
	return a.toggleRepos(ctx, opts, ids, ports.DaemonClient.DisableRepos, "disabled")
}

func (a *App) toggleRepos(
	ctx context.Context,
	opts ClientOptions,
	ids []string,
	toggle func(ports.DaemonClient, context.Context, string, []string) ([]string, error),
	verb string,
) error {
	return a.withSession(ctx, opts, func(client ports.DaemonClient, path string) error {
		changed, err := toggle(client, ctx, path, ids)
		if err != nil {
			return zerr.Wrap(err, "failed to change repository state")
		}
		if opts.JSON {
			return writeJSON(a.out, changed)
		}
		if len(changed) == 0 {
			_, _ = fmt.Fprintln(a.out, "No repositories changed.")
			return nil
		}
		for _, id := range changed {
			_, _ = fmt.Fprintf(a.out, "%s %s\n", id, verb)
		}
		return nil
	})
}

// QueryOptions select what repoquery matches and prints.
type QueryOptions struct {
	ICase     bool
	Installed bool
	Attrs     []string
}

var defaultQueryAttrs = []string{"full_nevra", "repo"}

// RepoQuery lists packages matching patterns.
func (a *App) RepoQuery(ctx context.Context, opts ClientOptions, patterns []string, query QueryOptions) error {
	attrs := query.Attrs
	if len(attrs) == 0 {
		attrs = defaultQueryAttrs
	}
	if query.Installed && !slices.Contains(attrs, "is_installed") {
		attrs = append(slices.Clone(attrs), "is_installed")
	}

	return a.withSession(ctx, opts, func(client ports.DaemonClient, path string) error {
		if _, err := client.ReadAllRepos(ctx, path); err != nil {
			return err
		}
		pkgs, err := client.ListPackages(ctx, path, ports.PackageListOptions{
			Attrs:        attrs,
			Patterns:     patterns,
			ICase:        query.ICase,
			WithNEVRA:    true,
			WithProvides: true,
		})
		if err != nil {
			return zerr.Wrap(err, "failed to query packages")
		}
		if query.Installed {
			pkgs = slices.DeleteFunc(pkgs, func(p map[string]any) bool {
				installed, _ := p["is_installed"].(bool)
				return !installed
			})
		}
		if opts.JSON {
			return writeJSON(a.out, pkgs)
		}
		shown := attrs
		if !slices.Contains(query.Attrs, "is_installed") {
			shown = slices.DeleteFunc(slices.Clone(attrs), func(attr string) bool { return attr == "is_installed" })
		}
		for _, p := range pkgs {
			parts := make([]string, len(shown))
			for i, attr := range shown {
				parts[i] = cell(p[attr])
			}
			_, _ = fmt.Fprintln(a.out, strings.Join(parts, " "))
		}
		return nil
	})
}
