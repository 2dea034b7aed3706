package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
}

// renderXLSX writes one worksheet per collection of doc.
func renderXLSX(doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	for i, sh := range sheets(doc) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, err
		}
		if err := writeSheet(f, sh); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sh.name, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sh sheet) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, bold); err != nil {
		return err
	}
	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func sheets(doc *Document) []sheet {
	lists := sheet{name: "Lists", header: []any{"id", "name", "color", "sortOrder", "createdAt"}}
	for _, l := range doc.CardLists {
		lists.rows = append(lists.rows, []any{l.ID, l.Name, l.Color, l.SortOrder, stamp(l.CreatedAt)})
	}

	tasks := sheet{name: "Tasks", header: []any{
		"id", "title", "content", "listId", "isHabit", "reminderTime",
		"currentStreak", "longestStreak", "lastCheckinDate", "createdAt", "updatedAt", "isDeleted",
	}}
	for _, t := range doc.TaskCards {
		var reminder string
		if t.ReminderTime != nil {
			reminder = stamp(*t.ReminderTime)
		}
		tasks.rows = append(tasks.rows, []any{
			t.ID, t.Title, t.Content, deref(t.ListID), t.IsHabit, reminder,
			t.CurrentStreak, t.LongestStreak, deref(t.LastCheckinDate), stamp(t.CreatedAt), stamp(t.UpdatedAt), t.IsDeleted,
		})
	}

	checkins := sheet{name: "Checkins", header: []any{"id", "taskId", "checkinDate", "checkinTime"}}
	for _, c := range doc.CheckinRecords {
		checkins.rows = append(checkins.rows, []any{c.ID, c.TaskID, c.CheckinDate, stamp(c.CheckinTime)})
	}

	entries := sheet{name: "LifeEntries", header: []any{"id", "content", "createdAt", "updatedAt", "isDeleted"}}
	for _, e := range doc.LifeEntries {
		entries.rows = append(entries.rows, []any{e.ID, e.Content, stamp(e.CreatedAt), stamp(e.UpdatedAt), e.IsDeleted})
	}

	settings := sheet{name: "Settings", header: []any{"key", "value"}}
	keys := make([]string, 0, len(doc.Settings))
	for k := range doc.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		settings.rows = append(settings.rows, []any{k, fmt.Sprint(doc.Settings[k])})
	}

	return []sheet{lists, tasks, checkins, entries, settings}
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
