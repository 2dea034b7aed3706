package internal

import (
	"context"
	"log/slog"
	"os"

	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/export"
	"github.com/starford/lifeflow/internal/mcpserver"
	"github.com/starford/lifeflow/internal/storage"
	"github.com/starford/lifeflow/internal/store"
)

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
// Logs go to stderr unless WithLogOutput says otherwise.
func ServeMCP(_ context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	logger, _, logCloser := newLogger(app.config.App, app.logOutput)
	defer logCloser.Close()
	slog.SetDefault(logger)

	comps, err := openComponents(app.config, clock.System, logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	srv := mcpserver.New(mcpserver.Deps{
		Tasks:    comps.tasks,
		Habits:   comps.habits,
		Notify:   comps.notify,
		Exporter: comps.exporter,
		Archive:  comps.archive,

		KeepExports: app.config.Export.Keep,
	}, app.version)

	logger.Info("MCP server starting on stdio", slog.String("version", app.version))
	return srv.ServeStdio()
}

// ExportData writes one export into the configured export directory. An
// empty name uses the generated file name.
func ExportData(ctx context.Context, format, name string, opts ...Option) (*export.Result, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}

	logger, _, logCloser := newLogger(app.config.App, app.logOutput)
	defer logCloser.Close()

	comps, err := openComponents(app.config, clock.System, logger)
	if err != nil {
		return nil, err
	}
	defer comps.Close()

	res, err := comps.exporter.Save(ctx, comps.archive, f, name)
	if err != nil {
		return nil, err
	}
	logger.Info("export written",
		slog.String("file", res.Filename),
		slog.String("dir", comps.archive.Root()),
		slog.String("checksum", res.Checksum))

	removed, err := storage.Prune(comps.archive, app.config.Export.Keep)
	if err != nil {
		logger.Warn("export prune failed", slog.String("error", err.Error()))
	} else if len(removed) > 0 {
		logger.Info("old exports pruned", slog.Int("count", len(removed)))
	}
	return res, nil
}

// Reconcile recomputes every task's streak fields from its check-in history
// and returns how many tasks changed.
func Reconcile(ctx context.Context, opts ...Option) (int, error) {
	app, err := newApplication(opts)
	if err != nil {
		return 0, err
	}

	logger, _, logCloser := newLogger(app.config.App, app.logOutput)
	defer logCloser.Close()

	comps, err := openComponents(app.config, clock.System, logger)
	if err != nil {
		return 0, err
	}
	defer comps.Close()

	return store.Reconcile(ctx, comps.db, clock.System(), logger)
}
