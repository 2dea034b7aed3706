package store

// Timestamps are stored as fixed-width UTC text (see timeLayout) so that
// lexical comparison matches chronological order.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS card_lists (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '#3B82F6',
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS task_cards (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	content           TEXT NOT NULL DEFAULT '',
	list_id           TEXT REFERENCES card_lists(id) ON DELETE SET NULL,
	is_habit          INTEGER NOT NULL DEFAULT 0,
	reminder_time     TEXT,
	current_streak    INTEGER NOT NULL DEFAULT 0 CHECK (current_streak >= 0),
	longest_streak    INTEGER NOT NULL DEFAULT 0 CHECK (longest_streak >= 0),
	last_checkin_date TEXT,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL,
	is_deleted        INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_task_cards_list ON task_cards(list_id);
CREATE INDEX IF NOT EXISTS idx_task_cards_habit ON task_cards(is_habit, is_deleted);

CREATE TABLE IF NOT EXISTS checkin_records (
	id           TEXT PRIMARY KEY,
	task_id      TEXT NOT NULL REFERENCES task_cards(id) ON DELETE CASCADE,
	checkin_date TEXT NOT NULL,
	checkin_time TEXT NOT NULL,
	UNIQUE(task_id, checkin_date)
);

CREATE INDEX IF NOT EXISTS idx_checkin_records_date ON checkin_records(checkin_date);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL DEFAULT '',
	data       TEXT,
	is_read    INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	user_id    TEXT NOT NULL DEFAULT 'default'
);

CREATE INDEX IF NOT EXISTS idx_notifications_type_created ON notifications(type, created_at);

CREATE TABLE IF NOT EXISTS life_entries (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	is_deleted INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_life_entries_created ON life_entries(created_at);

CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`
