package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS presets (
    preset_id            TEXT PRIMARY KEY,
    name                 TEXT NOT NULL UNIQUE COLLATE NOCASE,
    material_cost        REAL NOT NULL,
    hours_worked         REAL NOT NULL,
    labor_rate           REAL NOT NULL,
    uniqueness           REAL NOT NULL,
    demand               REAL NOT NULL,
    selling_price        REAL NOT NULL DEFAULT 0,
    notes                TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_presets_updated ON presets(updated_at);
`
