package sqlstore

import "strings"

// schema sets up the five entity tables plus the item↔requester join
// table. Statements are written in the dialect intersection: they run
// unchanged on SQLite and Postgres.
// IMPORTANT: profiles and stores must be created before the tables that
// reference them.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    nickname TEXT NOT NULL,
    english_name TEXT NOT NULL DEFAULT '',
    color_pref TEXT
);

CREATE TABLE IF NOT EXISTS measurements (
    id TEXT PRIMARY KEY,
    profile_id TEXT NOT NULL UNIQUE,
    height DOUBLE PRECISION NOT NULL DEFAULT 0,
    waist DOUBLE PRECISION NOT NULL DEFAULT 0,
    hip DOUBLE PRECISION NOT NULL DEFAULT 0,
    foot_length DOUBLE PRECISION NOT NULL DEFAULT 0,
    leg_length DOUBLE PRECISION NOT NULL DEFAULT 0,
    arm_length DOUBLE PRECISION NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS stores (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    map_link TEXT NOT NULL DEFAULT '',
    buying_tips TEXT NOT NULL DEFAULT '',
    plan_day TEXT,
    lat DOUBLE PRECISION,
    lng DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS shopping_items (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    quantity BIGINT NOT NULL DEFAULT 1,
    size TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    purchase_note TEXT NOT NULL DEFAULT '',
    product_code TEXT NOT NULL DEFAULT '',
    max_price BIGINT,
    image_url TEXT,
    store_suggestion_id TEXT,
    is_purchased BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    FOREIGN KEY (store_suggestion_id) REFERENCES stores(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS item_requesters (
    item_id TEXT NOT NULL,
    profile_id TEXT NOT NULL,
    PRIMARY KEY (item_id, profile_id),
    FOREIGN KEY (item_id) REFERENCES shopping_items(id) ON DELETE CASCADE,
    FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    amount BIGINT NOT NULL,
    store_name TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT 'other',
    note TEXT NOT NULL DEFAULT '',
    receipt_url TEXT,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_measurements_profile_id ON measurements(profile_id);
CREATE INDEX IF NOT EXISTS idx_stores_plan_day ON stores(plan_day);
CREATE INDEX IF NOT EXISTS idx_items_created_at ON shopping_items(created_at);
CREATE INDEX IF NOT EXISTS idx_item_requesters_item_id ON item_requesters(item_id);
CREATE INDEX IF NOT EXISTS idx_expenses_created_at ON expenses(created_at);
`

// runMigrations executes the schema setup. Postgres rejects multiple
// statements in one Exec on some setups, so statements run one by one.
func (s *Store) runMigrations() error {
	for _, stmt := range splitStatements(schema) {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func splitStatements(schema string) []string {
	var out []string
	for _, stmt := range strings.Split(schema, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
