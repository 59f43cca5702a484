package main

import (
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/revelaction/rwe/config"
	"github.com/revelaction/rwe/pipeline"
	sent "github.com/revelaction/rwe/sentence"
	"github.com/revelaction/rwe/storage/filesystem"
	"go.uber.org/zap"
)

// loadConfig reads the config file, if any, and applies the flag overrides.
func loadConfig(opts CommonOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogStyle != "" {
		cfg.Log.Style = opts.LogStyle
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

func newLogger(l config.Log) (*zap.Logger, error) {
	var zc zap.Config
	switch l.Style {
	case "", "production":
		zc = zap.NewProductionConfig()
	case "development":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log style %q, want production or development", l.Style)
	}

	if l.Level != "" {
		level, err := zap.ParseAtomicLevel(l.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = level
	}

	return zc.Build()
}

func newPipeline(opts CommonOptions, popts ...pipeline.Option) (*pipeline.Pipeline, *zap.Logger, error) {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	p, err := pipeline.New(cfg, append([]pipeline.Option{pipeline.WithLogger(logger)}, popts...)...)
	if err != nil {
		return nil, nil, err
	}

	return p, logger, nil
}

// relation returns name or the first configured relation.
func relation(p *pipeline.Pipeline, name string) (string, error) {
	if name != "" {
		for _, r := range p.Relations {
			if r == name {
				return name, nil
			}
		}
		return "", fmt.Errorf("relation %q is not configured", name)
	}

	if len(p.Relations) == 0 {
		return "", fmt.Errorf("no relation configured")
	}
	return p.Relations[0], nil
}

// loadDocStore opens the corpus at path and preloads it, showing a progress
// bar per file.
func loadDocStore(path string, ui UI) (*filesystem.DocStore, error) {
	h, err := filesystem.NewDocStore(path)
	if err != nil {
		return nil, err
	}

	progress := uiprogress.New()
	progress.Out = ui.Err
	progress.Start()
	bar := progress.AddBar(1) // Placeholder, updated in callback
	bar.AppendCompleted()
	bar.PrependElapsed()

	var currentName string
	bar.AppendFunc(func(b *uiprogress.Bar) string {
		return currentName
	})

	err = h.LoadAll(func(total int, name string) {
		if bar.Total <= 1 {
			bar.Total = total
			bar.Set(0)
		}
		currentName = name
		bar.Incr()
	})
	progress.Stop()

	if err != nil {
		return nil, err
	}
	return h, nil
}

func loadDocs(path string, ui UI) ([]*sent.Document, error) {
	h, err := loadDocStore(path, ui)
	if err != nil {
		return nil, err
	}
	return h.Docs()
}

// tagDocs tags docs as one group with a progress bar of tagged documents.
func tagDocs(p *pipeline.Pipeline, docs []*sent.Document, ui UI) error {
	if len(docs) == 0 {
		return nil
	}

	progress := uiprogress.New()
	progress.Out = ui.Err
	progress.Start()
	bar := progress.AddBar(len(docs))
	bar.AppendCompleted()
	bar.PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return "tagging"
	})

	err := p.Tag([][]*sent.Document{docs}, func(n int) {
		for range n {
			bar.Incr()
		}
	})
	progress.Stop()

	return err
}
