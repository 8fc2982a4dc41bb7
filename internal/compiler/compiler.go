package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	buildid "github.com/hanpama/wiregraph/internal/buildid"
	"github.com/hanpama/wiregraph/internal/descriptor"
	eventbus "github.com/hanpama/wiregraph/internal/eventbus"
	events "github.com/hanpama/wiregraph/internal/events"
	"github.com/hanpama/wiregraph/internal/identity"
	language "github.com/hanpama/wiregraph/internal/language"
	"github.com/hanpama/wiregraph/internal/manifest"
	"github.com/hanpama/wiregraph/internal/scalar"
	schema "github.com/hanpama/wiregraph/internal/schema"
)

// Config carries everything one compilation run needs.
type Config struct {
	// Schema holds the SDL sources to merge and validate.
	Schema []*language.Source
	// Operations enumerates the operation documents to compile.
	Operations Discovery
	// Scalars maps custom scalar names to host types and adapters.
	Scalars map[string]scalar.Registration
	// Algorithm defaults to identity.SHA256.
	Algorithm identity.Algorithm
	// ManifestFormat is the explicitly requested manifest format, Unset
	// when the configuration left it out.
	ManifestFormat manifest.Format
	// LegacyOperationList is the old boolean manifest switch. It conflicts
	// with an explicit manifest-producing ManifestFormat.
	LegacyOperationList bool
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Result is the output of one compilation run.
type Result struct {
	BuildID    string
	Schema     *schema.Schema
	Operations []*descriptor.Operation
	Manifest   *manifest.Manifest
}

// Compile runs the full pipeline: load the schema, parse and validate
// every discovered document, build descriptors with their scalar adapters
// resolved, and resolve the manifest. Any compile-time failure aborts the
// whole batch: no partial result is ever returned.
func Compile(ctx context.Context, cfg Config) (*Result, error) {
	mcfg := manifest.Config{
		Format:              cfg.ManifestFormat,
		LegacyOperationList: cfg.LegacyOperationList,
		Algorithm:           cfg.Algorithm,
	}
	// Configuration conflicts surface before any compilation work.
	if _, err := manifest.EffectiveFormat(mcfg); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, bid := buildid.NewContext(ctx)
	logger = logger.With(zap.String("build", bid))

	metas, err := cfg.Operations.ListMetadata(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	eventbus.Publish(ctx, events.CompileStart{
		SchemaFiles:    len(cfg.Schema),
		OperationFiles: len(metas),
	})
	logger.Info("compilation started",
		zap.Int("schema_files", len(cfg.Schema)),
		zap.Int("operation_files", len(metas)))

	res, err := compile(ctx, cfg, mcfg, logger, metas)

	finish := events.CompileFinish{Err: err, Duration: time.Since(started)}
	if res != nil {
		finish.Operations = len(res.Operations)
	}
	eventbus.Publish(ctx, finish)

	if err != nil {
		logger.Error("compilation failed", zap.Error(err))
		return nil, err
	}
	res.BuildID = bid
	logger.Info("compilation finished",
		zap.Int("operations", len(res.Operations)),
		zap.Duration("duration", finish.Duration))
	return res, nil
}

func compile(ctx context.Context, cfg Config, mcfg manifest.Config, logger *zap.Logger, metas []*DocumentMetadata) (*Result, error) {
	s, err := schema.Load(cfg.Schema...)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	registry := scalar.NewRegistry(cfg.Scalars)

	// Every document is parsed, validated and built even after the first
	// failure, so one run reports every violation in the batch.
	var violations []*descriptor.Violation
	var ops []*descriptor.Operation
	for _, meta := range metas {
		content, err := cfg.Operations.ReadDocument(ctx, meta.FilePath)
		if err != nil {
			return nil, err
		}
		doc, err := language.ParseQueryFile(meta.FilePath, content)
		if err != nil {
			violations = append(violations, violationsFrom(err, meta.FilePath)...)
			continue
		}
		if err := language.ValidateQuery(s.AST, doc); err != nil {
			violations = append(violations, violationsFrom(err, meta.FilePath)...)
			continue
		}
		built, err := descriptor.Build(s, doc, registry)
		if err != nil {
			var verr descriptor.ValidationError
			if errors.As(err, &verr) {
				violations = append(violations, verr...)
				continue
			}
			return nil, err
		}
		ops = append(ops, built...)
	}
	if len(violations) > 0 {
		return nil, descriptor.ValidationError(violations)
	}

	entries := make([]manifest.Entry, len(ops))
	for i, op := range ops {
		entries[i] = manifest.Entry{Name: op.Name, Type: op.Type, Document: op.Document}
	}
	m, err := manifest.Resolve(entries, mcfg)
	if err != nil {
		return nil, err
	}

	for _, entry := range m.Entries {
		logger.Info("operation compiled",
			zap.String("operation", entry.Name),
			zap.String("type", string(entry.Type)),
			zap.String("digest", entry.Identity.Digest))
		eventbus.Publish(ctx, events.OperationCompiled{
			Name:             entry.Name,
			Type:             string(entry.Type),
			AlgorithmVersion: entry.Identity.AlgorithmVersion,
			Digest:           entry.Identity.Digest,
		})
	}
	eventbus.Publish(ctx, events.ManifestResolved{
		Format:  m.Format.String(),
		Entries: len(m.Entries),
	})

	return &Result{Schema: s, Operations: ops, Manifest: m}, nil
}
