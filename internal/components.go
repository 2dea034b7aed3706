package internal

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/export"
	"github.com/starford/lifeflow/internal/habit"
	"github.com/starford/lifeflow/internal/notify"
	"github.com/starford/lifeflow/internal/storage"
	"github.com/starford/lifeflow/internal/store"
	"github.com/starford/lifeflow/internal/taskservice"
)

var errConfigRequired = errors.New("config is required")

// components are the services shared by every command.
type components struct {
	db       *store.DB
	archive  *storage.FS
	tasks    *taskservice.Service
	habits   *habit.Service
	notify   *notify.Service
	exporter *export.Exporter
}

func openComponents(cfg *Config, now clock.Clock, logger *slog.Logger) (*components, error) {
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	archive, err := storage.NewFS(cfg.Export.Dir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init export dir: %w", err)
	}

	notifier := notify.New(db, now, logger)
	return &components{
		db:       db,
		archive:  archive,
		tasks:    taskservice.New(db, now),
		habits:   habit.New(db, notifier, now, logger),
		notify:   notifier,
		exporter: export.New(db, now),
	}, nil
}

func (c *components) Close() error {
	return c.db.Close()
}
