package repository

// Schema creates the checklist tables. Checklist IDs are unique per project
// only, so one template can back many projects. Positions keep sibling order
// stable.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		client_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS modules (
		project_id TEXT NOT NULL REFERENCES projects(id),
		id TEXT NOT NULL,
		titulo TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		PRIMARY KEY (project_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		project_id TEXT NOT NULL,
		id TEXT NOT NULL,
		module_id TEXT NOT NULL,
		titulo TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		PRIMARY KEY (project_id, id),
		FOREIGN KEY (project_id, module_id) REFERENCES modules(project_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS ncs (
		project_id TEXT NOT NULL,
		id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		numero INTEGER NOT NULL DEFAULT 0,
		titulo TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		position INTEGER NOT NULL,
		PRIMARY KEY (project_id, id),
		FOREIGN KEY (project_id, item_id) REFERENCES items(project_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		project_id TEXT NOT NULL,
		id TEXT NOT NULL,
		nc_id TEXT NOT NULL,
		texto TEXT NOT NULL DEFAULT '',
		weight REAL NOT NULL DEFAULT 0,
		selected_option TEXT,
		position INTEGER NOT NULL,
		PRIMARY KEY (project_id, id),
		FOREIGN KEY (project_id, nc_id) REFERENCES ncs(project_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_modules_project ON modules(project_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_items_module ON items(project_id, module_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_ncs_item ON ncs(project_id, item_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_nc ON questions(project_id, nc_id, position)`,
}
