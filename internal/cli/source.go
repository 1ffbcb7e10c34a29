package cli

import (
	"context"
	"fmt"

	"github.com/matzehuels/kintree/pkg/config"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/pipeline"
	"github.com/matzehuels/kintree/pkg/source"
	"github.com/matzehuels/kintree/pkg/source/file"
	"github.com/matzehuels/kintree/pkg/source/mongodb"
	"github.com/matzehuels/kintree/pkg/source/remote"
)

// openSource selects the family data source. --input and --url win over
// the [source] section of the config. The returned function releases the
// source and is never nil.
func (c *CLI) openSource(ctx context.Context) (source.Source, func(), error) {
	noop := func() {}

	switch {
	case c.input != "":
		return fileSource(c.input)
	case c.url != "":
		return c.remoteSource(c.url)
	}

	switch c.cfg.Source.Type {
	case config.SourceFile, "":
		if c.cfg.Source.Path == "" {
			return nil, noop, errors.New(errors.ErrCodeInvalidInput,
				"no family data: pass --input or set [source] path")
		}
		return fileSource(c.cfg.Source.Path)

	case config.SourceRemote:
		return c.remoteSource(c.cfg.Source.URL)

	case config.SourceMongoDB:
		m := c.cfg.Mongo
		src, err := mongodb.Open(ctx, mongodb.Options{
			URI:      m.URI,
			Database: m.Database,
			Persons:  m.Persons,
			Unions:   m.Unions,
			Links:    m.Links,
			Timeout:  m.Timeout.Duration,
		})
		if err != nil {
			return nil, noop, err
		}
		return src, func() {
			if err := src.Close(context.Background()); err != nil {
				c.Logger.Warn("close mongodb", "err", err)
			}
		}, nil
	}
	return nil, noop, errors.New(errors.ErrCodeInvalidConfig, "unknown source type: %s", c.cfg.Source.Type)
}

func fileSource(path string) (source.Source, func(), error) {
	src, err := file.New(path)
	if err != nil {
		return nil, func() {}, err
	}
	return src, func() {}, nil
}

func (c *CLI) remoteSource(url string) (source.Source, func(), error) {
	var opts []remote.Option
	if token := c.cfg.Source.Token; token != "" {
		opts = append(opts, remote.WithHeader("Authorization", "Bearer "+token))
	}
	src, err := remote.New(url, opts...)
	if err != nil {
		return nil, func() {}, err
	}
	return src, func() {}, nil
}

// resolveRoots returns roots, or the roots stored with the data when none
// are given. The runner copies a source's stored roots onto the snapshot it
// loads, cached or not.
func resolveRoots(snap *family.Snapshot, roots []string) ([]string, error) {
	if len(roots) > 0 {
		return roots, nil
	}
	if snap != nil && len(snap.Roots) > 0 {
		return snap.Roots, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidRoot, "no root person: pass one or store roots with the data")
}

// load reads one snapshot through runner behind a spinner.
func (c *CLI) load(ctx context.Context, runner *pipeline.Runner, src source.Source, refresh bool) (*family.Snapshot, error) {
	prog := newProgress(c.Logger)
	snap, err := spin(ctx, "Loading "+src.String()+"...", func() (*family.Snapshot, error) {
		return runner.Load(ctx, src, refresh)
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	prog.done(fmt.Sprintf("Loaded %d persons", len(snap.Persons)))
	return snap, nil
}
