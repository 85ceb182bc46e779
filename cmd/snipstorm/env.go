package main

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/dshills/snipstorm/internal/config"
	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/snippet/catalog"
)

// environment is what every command works with.
type environment struct {
	cfg     *config.Config
	logger  *logging.Logger
	catalog *catalog.Catalog
	style   *style
}

// load resolves configuration, applies flag overrides and loads the
// snippet catalog. Snippet files that fail to parse are logged and
// skipped.
func (o *globalOptions) load(cmd *cobra.Command) (*environment, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if len(o.snippetDirs) > 0 {
		cfg.Snippets.Dirs = o.snippetDirs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := newStyle(o.color, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: cmd.ErrOrStderr(),
		Prefix: "snipstorm",
	})

	cat := catalog.New(catalog.WithLogger(logger))
	for _, dir := range cfg.SnippetDirs() {
		if _, err := cat.LoadDir(dir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.WithField("dir", dir).Debug("snippet directory does not exist")
				continue
			}
			logger.WithField("dir", dir).Warn("some snippets failed to load: %v", err)
		}
	}

	return &environment{
		cfg:     cfg,
		logger:  logger,
		catalog: cat,
		style:   st,
	}, nil
}
