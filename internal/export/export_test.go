package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/starford/lifeflow/internal/checksum"
	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/models"
	"github.com/starford/lifeflow/internal/storage"
	"github.com/starford/lifeflow/internal/store"
	"github.com/starford/lifeflow/internal/testutil"
)

var now = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

func seed(t *testing.T) *store.DB {
	t.Helper()
	db := testutil.TestDB(t)
	ctx := context.Background()
	listID := "l1"
	require.NoError(t, db.CreateList(ctx, &models.List{ID: listID, Name: "Health", Color: "#10B981", CreatedAt: now}))
	last := civil.DateOf(now)
	require.NoError(t, db.CreateTask(ctx, &models.Task{
		ID: "t1", Title: "Run", ListID: &listID, IsHabit: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, db.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.InsertCheckin(ctx, models.CheckinRecord{ID: "c1", TaskID: "t1", CheckinDate: last, CheckinTime: now}); err != nil {
			return err
		}
		return tx.SetStreak(ctx, "t1", 1, 1, last, now)
	}))
	require.NoError(t, db.CreateEntry(ctx, &models.LifeEntry{ID: "e1", Content: "slept well", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, db.PutSettings(ctx, map[string]string{"theme": `"dark"`, "legacy": "plain"}, now))
	return db
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestRender_JSON(t *testing.T) {
	e := New(seed(t), clock.Fixed(now))

	res, err := e.Render(context.Background(), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, checksum.Sum(res.Data), res.Checksum)
	assert.Equal(t, "lifeflow-export-20240510-083000.json", res.Filename)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(res.Data, &doc))
	assert.Equal(t, "1.0", doc["exportVersion"])
	assert.Len(t, doc["cardLists"], 1)
	assert.Len(t, doc["checkinRecords"], 1)
	assert.Len(t, doc["lifeEntries"], 1)

	tasks := doc["taskCards"].([]any)
	require.Len(t, tasks, 1)
	task := tasks[0].(map[string]any)
	assert.Equal(t, "l1", task["listId"])
	assert.Equal(t, true, task["isHabit"])
	assert.Equal(t, "2024-05-10", task["lastCheckinDate"])
	assert.Nil(t, task["reminderTime"])

	settings := doc["settings"].(map[string]any)
	assert.Equal(t, "dark", settings["theme"])
	assert.Equal(t, "plain", settings["legacy"])
}

func TestRender_XLSX(t *testing.T) {
	e := New(seed(t), clock.Fixed(now))

	res, err := e.Render(context.Background(), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, res.Format)

	f, err := excelize.OpenReader(bytes.NewReader(res.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Lists", "Tasks", "Checkins", "LifeEntries", "Settings"}, f.GetSheetList())
	rows, err := f.GetRows("Tasks")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "title", rows[0][1])
	assert.Equal(t, "Run", rows[1][1])
}

func TestSave(t *testing.T) {
	archive, err := storage.NewFS(t.TempDir())
	require.NoError(t, err)
	e := New(seed(t), clock.Fixed(now))

	res, err := e.Save(context.Background(), archive, FormatJSON, "backup.json")
	require.NoError(t, err)
	assert.Equal(t, "backup.json", res.Filename)

	data, err := archive.Read("backup.json")
	require.NoError(t, err)
	assert.Equal(t, res.Checksum, checksum.Sum(data))
}

func TestRender_EmptyStoreUsesEmptyArrays(t *testing.T) {
	e := New(testutil.TestDB(t), clock.Fixed(now))
	res, err := e.Render(context.Background(), FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(res.Data), `"taskCards": []`)
	assert.Contains(t, string(res.Data), `"settings": {}`)
}
