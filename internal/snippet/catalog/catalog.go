package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/tidwall/match"
	"golang.org/x/text/cases"

	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/snippet/template"
)

// DefaultDebounce is how long Watch waits for a burst of file events to
// settle before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Catalog is a thread-safe template index.
type Catalog struct {
	mu sync.RWMutex

	byKey      map[template.Key]*template.Template
	byShortcut map[string][]*template.Template
	byPath     map[string][]*template.Template
	seq        map[template.Key]uint64
	next       uint64

	dirs     []string
	logger   *logging.Logger
	debounce time.Duration
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDebounce sets the reload delay used by Watch.
func WithDebounce(d time.Duration) Option {
	return func(c *Catalog) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// New creates an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		byKey:      make(map[template.Key]*template.Template),
		byShortcut: make(map[string][]*template.Template),
		byPath:     make(map[string][]*template.Template),
		seq:        make(map[template.Key]uint64),
		logger:     logging.Nop(),
		debounce:   DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("catalog")
	return c
}

// foldShortcut returns the case-folded lookup key of a shortcut.
func foldShortcut(s string) string {
	return cases.Fold().String(s)
}

// Add validates and indexes templates. A template with the same title and
// path as an indexed one replaces it. Nothing is added if any template is
// invalid.
func (c *Catalog) Add(ts ...*template.Template) error {
	for _, t := range ts {
		if err := t.Validate(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range ts {
		c.addLocked(t)
	}
	return nil
}

func (c *Catalog) addLocked(t *template.Template) {
	key := t.Key()
	if old, ok := c.byKey[key]; ok {
		c.unindexLocked(old)
	}
	c.byKey[key] = t
	c.next++
	c.seq[key] = c.next
	c.byPath[t.Path] = append(c.byPath[t.Path], t)
	if t.Shortcut != "" {
		k := foldShortcut(t.Shortcut)
		c.byShortcut[k] = append(c.byShortcut[k], t)
	}
}

func (c *Catalog) unindexLocked(t *template.Template) {
	key := t.Key()
	delete(c.byKey, key)
	delete(c.seq, key)
	c.byPath[t.Path] = without(c.byPath[t.Path], t)
	if len(c.byPath[t.Path]) == 0 {
		delete(c.byPath, t.Path)
	}
	if t.Shortcut != "" {
		k := foldShortcut(t.Shortcut)
		c.byShortcut[k] = without(c.byShortcut[k], t)
		if len(c.byShortcut[k]) == 0 {
			delete(c.byShortcut, k)
		}
	}
}

func without(ts []*template.Template, t *template.Template) []*template.Template {
	out := ts[:0]
	for _, x := range ts {
		if x != t {
			out = append(out, x)
		}
	}
	return out
}

// RemovePath drops every template loaded from path and returns how many
// were removed.
func (c *Catalog) RemovePath(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removePathLocked(path)
}

func (c *Catalog) removePathLocked(path string) int {
	ts := append([]*template.Template(nil), c.byPath[path]...)
	for _, t := range ts {
		c.unindexLocked(t)
	}
	return len(ts)
}

// Lookup finds a template by shortcut. When several templates share a
// shortcut the most recently added wins.
func (c *Catalog) Lookup(shortcut string) (*template.Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ts := c.byShortcut[foldShortcut(shortcut)]
	if len(ts) == 0 {
		return nil, false
	}
	return ts[len(ts)-1], true
}

// LookupNamed finds a template by title and path. An empty path matches
// the most recently added template with that title.
func (c *Catalog) LookupNamed(title, path string) (*template.Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if path != "" {
		t, ok := c.byKey[template.Key{Title: title, Path: path}]
		return t, ok
	}

	var (
		best    *template.Template
		bestSeq uint64
	)
	for key, t := range c.byKey {
		if key.Title == title && c.seq[key] > bestSeq {
			best, bestSeq = t, c.seq[key]
		}
	}
	return best, best != nil
}

// List returns the templates in any of the given categories, or all of
// them when none are given, sorted by title and path.
func (c *Catalog) List(filter ...template.Category) []*template.Template {
	c.mu.RLock()
	out := make([]*template.Template, 0, len(c.byKey))
	for _, t := range c.byKey {
		if len(filter) == 0 || t.Categories.HasAny(filter...) {
			out = append(out, t)
		}
	}
	c.mu.RUnlock()

	sortTemplates(out)
	return out
}

// Match returns the templates whose title or shortcut matches the glob
// pattern, ignoring case. '*' matches any run of characters and '?' a
// single one.
func (c *Catalog) Match(pattern string) []*template.Template {
	pattern = foldShortcut(pattern)

	c.mu.RLock()
	var out []*template.Template
	for _, t := range c.byKey {
		if match.Match(foldShortcut(t.Title), pattern) || (t.Shortcut != "" && match.Match(foldShortcut(t.Shortcut), pattern)) {
			out = append(out, t)
		}
	}
	c.mu.RUnlock()

	sortTemplates(out)
	return out
}

func sortTemplates(ts []*template.Template) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Title != ts[j].Title {
			return ts[i].Title < ts[j].Title
		}
		return ts[i].Path < ts[j].Path
	})
}

// Len returns the number of indexed templates.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}

// LoadFile parses path and replaces the templates previously loaded from
// it. On error the catalog is unchanged.
func (c *Catalog) LoadFile(path string) (int, error) {
	ts, err := ParseFile(path)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.removePathLocked(path)
	for _, t := range ts {
		c.addLocked(t)
	}
	return len(ts), nil
}

// LoadDir loads every supported file under dir. Files that fail to parse
// are skipped and their errors joined into the result; the rest still load.
func (c *Catalog) LoadDir(dir string) (int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	var (
		total int
		errs  []error
	)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if d.IsDir() {
			if path != dir && isHidden(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := FormatFor(path); !ok || isHidden(path) {
			return nil
		}

		n, err := c.LoadFile(path)
		if err != nil {
			c.logger.WithField("path", path).Warn("skipping snippet file: %v", err)
			errs = append(errs, err)
			return nil
		}
		total += n
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}

	c.mu.Lock()
	c.dirs = appendUnique(c.dirs, dir)
	c.mu.Unlock()

	c.logger.WithField("dir", dir).Info("loaded %d snippets", total)
	return total, errors.Join(errs...)
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 1 && base[0] == '.'
}

func appendUnique(ss []string, s string) []string {
	for _, x := range ss {
		if x == s {
			return ss
		}
	}
	return append(ss, s)
}

// ExportVSCode writes every template as one VS Code snippet file.
func (c *Catalog) ExportVSCode(w io.Writer) error {
	data, err := EncodeVSCode(c.List())
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
