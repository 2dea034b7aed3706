// Package export renders a full data snapshot as JSON or XLSX.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/starford/lifeflow/internal/checksum"
	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/models"
	"github.com/starford/lifeflow/internal/storage"
	"github.com/starford/lifeflow/internal/store"
	"github.com/starford/lifeflow/internal/taskservice"
)

// Version is written into every document as exportVersion.
const Version = "1.0"

// Format selects the rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a user supplied format name; the empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type of the rendering.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// Document is the JSON export layout. Keys are camelCase for compatibility
// with existing backups.
type Document struct {
	ExportVersion  string         `json:"exportVersion"`
	ExportDate     time.Time      `json:"exportDate"`
	CardLists      []listRow      `json:"cardLists"`
	TaskCards      []taskRow      `json:"taskCards"`
	CheckinRecords []checkinRow   `json:"checkinRecords"`
	LifeEntries    []entryRow     `json:"lifeEntries"`
	Settings       map[string]any `json:"settings"`
}

type listRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

type taskRow struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	ListID          *string    `json:"listId"`
	IsHabit         bool       `json:"isHabit"`
	ReminderTime    *time.Time `json:"reminderTime"`
	CurrentStreak   int        `json:"currentStreak"`
	LongestStreak   int        `json:"longestStreak"`
	LastCheckinDate *string    `json:"lastCheckinDate"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	IsDeleted       bool       `json:"isDeleted"`
}

type checkinRow struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	CheckinDate string    `json:"checkinDate"`
	CheckinTime time.Time `json:"checkinTime"`
}

type entryRow struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsDeleted bool      `json:"isDeleted"`
}

// NewDocument converts a snapshot into the export layout.
func NewDocument(snap *store.Snapshot, at time.Time) *Document {
	doc := &Document{
		ExportVersion:  Version,
		ExportDate:     at.UTC(),
		CardLists:      make([]listRow, 0, len(snap.Lists)),
		TaskCards:      make([]taskRow, 0, len(snap.Tasks)),
		CheckinRecords: make([]checkinRow, 0, len(snap.Checkins)),
		LifeEntries:    make([]entryRow, 0, len(snap.Entries)),
		Settings:       make(map[string]any, len(snap.Settings)),
	}
	for _, l := range snap.Lists {
		doc.CardLists = append(doc.CardLists, listRow{
			ID: l.ID, Name: l.Name, Color: l.Color, SortOrder: l.SortOrder, CreatedAt: l.CreatedAt,
		})
	}
	for _, t := range snap.Tasks {
		doc.TaskCards = append(doc.TaskCards, newTaskRow(t))
	}
	for _, c := range snap.Checkins {
		doc.CheckinRecords = append(doc.CheckinRecords, checkinRow{
			ID: c.ID, TaskID: c.TaskID, CheckinDate: c.CheckinDate.String(), CheckinTime: c.CheckinTime,
		})
	}
	for _, e := range snap.Entries {
		doc.LifeEntries = append(doc.LifeEntries, entryRow{
			ID: e.ID, Content: e.Content, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt, IsDeleted: e.IsDeleted,
		})
	}
	for _, s := range snap.Settings {
		doc.Settings[s.Key] = taskservice.DecodeSetting(s.Value)
	}
	return doc
}

func newTaskRow(t models.Task) taskRow {
	row := taskRow{
		ID:            t.ID,
		Title:         t.Title,
		Content:       t.Content,
		ListID:        t.ListID,
		IsHabit:       t.IsHabit,
		ReminderTime:  t.ReminderTime,
		CurrentStreak: t.CurrentStreak,
		LongestStreak: t.LongestStreak,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		IsDeleted:     t.IsDeleted,
	}
	if t.LastCheckinDate != nil {
		d := t.LastCheckinDate.String()
		row.LastCheckinDate = &d
	}
	return row
}

// Result is one rendered export.
type Result struct {
	Format   Format
	Data     []byte
	Checksum string
	Filename string
}

// Exporter renders snapshots read from the store.
type Exporter struct {
	db  *store.DB
	now clock.Clock
}

// New creates an Exporter.
func New(db *store.DB, now clock.Clock) *Exporter {
	return &Exporter{db: db, now: now}
}

// Render reads a snapshot and renders it in format f.
func (e *Exporter) Render(ctx context.Context, f Format) (*Result, error) {
	snap, err := e.db.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	at := e.now().UTC()
	doc := NewDocument(snap, at)

	var data []byte
	switch f {
	case FormatXLSX:
		data, err = renderXLSX(doc)
	default:
		f = FormatJSON
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("export: render %s: %w", f, err)
	}
	return &Result{
		Format:   f,
		Data:     data,
		Checksum: checksum.Sum(data),
		Filename: fmt.Sprintf("lifeflow-export-%s.%s", at.Format("20060102-150405"), f),
	}, nil
}

// Save renders an export and writes it atomically into the archive. An
// empty name uses the generated file name.
func (e *Exporter) Save(ctx context.Context, archive storage.Provider, f Format, name string) (*Result, error) {
	res, err := e.Render(ctx, f)
	if err != nil {
		return nil, err
	}
	if name != "" {
		res.Filename = name
	}
	if err := archive.Write(res.Filename, res.Data); err != nil {
		return nil, err
	}
	return res, nil
}
