// Package runner drives extraction over a batch of plugin directories with
// bounded concurrency. Extraction of one plugin never touches another's
// state, so plugins run in parallel; the collected result is sorted by
// plugin name to keep output deterministic regardless of completion order.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/deepnoodle-ai/settix/program"
	"github.com/deepnoodle-ai/settix/settings"
)

// Skip records one plugin excluded from the result and why. Skips are
// reported, never fatal to the batch.
type Skip struct {
	Plugin string
	Reason string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s: %s", s.Plugin, s.Reason)
}

// Plugin is one extracted plugin: its settings tree plus any per-setting
// issues that caused individual settings to be omitted.
type Plugin struct {
	Name        string
	Description string
	Settings    *settings.Group
	Issues      []settings.Issue
}

// Result is the outcome of one batch run.
type Result struct {
	Plugins   map[string]*Plugin
	Processed int
	Skipped   int
	Skips     []Skip
}

// Names returns the plugin names in sorted order.
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Plugins))
	for name := range r.Plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SkipError aggregates all skip reasons into one error, nil when nothing
// was skipped.
func (r *Result) SkipError() error {
	var merr *multierror.Error
	for _, s := range r.Skips {
		merr = multierror.Append(merr, fmt.Errorf("%s: %s", s.Plugin, s.Reason))
	}
	return merr.ErrorOrNil()
}

// Options configures a Runner.
type Options struct {
	// Jobs bounds concurrent extractions; <= 0 means one per CPU.
	Jobs int
	// IncludeHidden retains settings marked hidden: true.
	IncludeHidden bool
	Logger        zerolog.Logger
}

// Runner extracts settings from a set of plugin roots.
type Runner struct {
	jobs          int
	includeHidden bool
	log           zerolog.Logger
}

// New returns a Runner with the given options.
func New(opts Options) *Runner {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Runner{
		jobs:          jobs,
		includeHidden: opts.IncludeHidden,
		log:           opts.Logger,
	}
}

// Run extracts every plugin found under the given roots. A root may be a
// directory of plugin directories, a single plugin directory, or a single
// source file. The context cancels work not yet started; extractions
// already running complete.
func (r *Runner) Run(ctx context.Context, roots []string) (*Result, error) {
	runID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	log := r.log.With().Str("run_id", runID.String()).Logger()

	targets, skips, err := discover(roots)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("plugins", len(targets)).Int("jobs", r.jobs).Msg("starting batch")

	result := &Result{Plugins: map[string]*Plugin{}, Skips: skips}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.jobs)
	)
	for _, tgt := range targets {
		select {
		case <-ctx.Done():
			mu.Lock()
			result.Skips = append(result.Skips, Skip{Plugin: tgt.name, Reason: "canceled"})
			mu.Unlock()
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(t target) {
			defer wg.Done()
			defer func() { <-sem }()
			plugin, skip := r.extractOne(ctx, log, t)
			mu.Lock()
			defer mu.Unlock()
			if skip != nil {
				result.Skips = append(result.Skips, *skip)
				return
			}
			result.Plugins[plugin.Name] = plugin
		}(tgt)
	}
	wg.Wait()

	sort.Slice(result.Skips, func(i, j int) bool {
		return result.Skips[i].Plugin < result.Skips[j].Plugin
	})
	result.Processed = len(result.Plugins)
	result.Skipped = len(result.Skips)
	log.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Msg("batch complete")
	return result, nil
}

func (r *Runner) extractOne(ctx context.Context, log zerolog.Logger, t target) (*Plugin, *Skip) {
	source, err := os.ReadFile(t.source)
	if err != nil {
		return nil, &Skip{Plugin: t.name, Reason: fmt.Sprintf("read source: %v", err)}
	}
	file, err := program.Load(ctx, t.source, string(source))
	if file == nil {
		return nil, &Skip{Plugin: t.name, Reason: fmt.Sprintf("parse: %v", err)}
	}
	if err != nil {
		// Partial parse: extraction still proceeds over what survived.
		log.Debug().Str("plugin", t.name).Err(err).Msg("parsed with errors")
	}
	obj := file.LocateSettings()
	if obj == nil {
		return nil, &Skip{Plugin: t.name, Reason: "no settings declaration"}
	}

	var opts []settings.ExtractorOption
	if r.includeHidden {
		opts = append(opts, settings.WithHidden())
	}
	tree, issues := settings.NewExtractor(file, opts...).Extract(obj)
	for _, issue := range issues {
		log.Debug().Str("plugin", t.name).Str("setting", issue.Setting).
			Err(issue.Err).Msg("setting omitted")
	}

	plugin := &Plugin{
		Name:     t.name,
		Settings: tree,
		Issues:   issues,
	}
	name, description := readManifest(t.dir)
	if name != "" {
		plugin.Name = name
	}
	plugin.Description = description
	log.Debug().Str("plugin", plugin.Name).Int("settings", tree.Len()).Msg("extracted")
	return plugin, nil
}

// readManifest pulls a display name and description from a plugin's
// manifest.json or package.json when one exists. Absent files and absent
// keys are both fine.
func readManifest(dir string) (name, description string) {
	if dir == "" {
		return "", ""
	}
	for _, base := range []string{"manifest.json", "package.json"} {
		raw, err := os.ReadFile(filepath.Join(dir, base))
		if err != nil || !gjson.ValidBytes(raw) {
			continue
		}
		doc := gjson.ParseBytes(raw)
		if v := doc.Get("name"); v.Exists() && name == "" {
			name = v.String()
		}
		if v := doc.Get("description"); v.Exists() && description == "" {
			description = v.String()
		}
		if name != "" && description != "" {
			break
		}
	}
	return name, description
}

// target is one plugin to extract: its name, the settings source file, and
// the plugin directory (empty for bare-file targets).
type target struct {
	name   string
	source string
	dir    string
}

var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

func isSourceFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range sourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// discover expands roots into plugin targets. Unreadable roots are an
// error; individual plugin directories with no usable source become skips.
func discover(roots []string) ([]target, []Skip, error) {
	var (
		targets []target
		skips   []Skip
	)
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, nil, fmt.Errorf("stat root %s: %w", root, err)
		}
		if !info.IsDir() {
			if !isSourceFile(root) {
				skips = append(skips, Skip{Plugin: root, Reason: "not a source file"})
				continue
			}
			name := strings.TrimSuffix(filepath.Base(root), filepath.Ext(root))
			targets = append(targets, target{name: name, source: root})
			continue
		}
		// A directory containing a settings source directly is a single
		// plugin; otherwise each child is one plugin.
		if source := pluginSource(root); source != "" {
			targets = append(targets, target{name: filepath.Base(root), source: source, dir: root})
			continue
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, nil, fmt.Errorf("read root %s: %w", root, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			path := filepath.Join(root, name)
			if !entry.IsDir() {
				if isSourceFile(name) {
					base := strings.TrimSuffix(name, filepath.Ext(name))
					targets = append(targets, target{name: base, source: path})
				}
				continue
			}
			if source := pluginSource(path); source != "" {
				targets = append(targets, target{name: name, source: source, dir: path})
			} else {
				skips = append(skips, Skip{Plugin: name, Reason: "no plugin source file"})
			}
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].name < targets[j].name })
	return targets, skips, nil
}

// pluginSource returns the settings source file for a plugin directory:
// index.* first, then the directory's only source file.
func pluginSource(dir string) string {
	for _, ext := range sourceExtensions {
		path := filepath.Join(dir, "index"+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var only string
	for _, entry := range entries {
		if entry.IsDir() || !isSourceFile(entry.Name()) {
			continue
		}
		if only != "" {
			return "" // ambiguous
		}
		only = filepath.Join(dir, entry.Name())
	}
	return only
}
