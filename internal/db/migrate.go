package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Times are unix milliseconds; durations are milliseconds; amounts are
// integer base units.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS daos (
		id               TEXT PRIMARY KEY,
		parent_id        TEXT REFERENCES daos(id),
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		membership_type  TEXT NOT NULL,
		origin           TEXT,
		quorum           INTEGER NOT NULL DEFAULT 0 CHECK(quorum >= 0),
		voting_delay_ms  INTEGER NOT NULL DEFAULT 0 CHECK(voting_delay_ms >= 0),
		voting_period_ms INTEGER NOT NULL CHECK(voting_period_ms > 0),
		treasury         INTEGER NOT NULL DEFAULT 0 CHECK(treasury >= 0),
		creator          TEXT NOT NULL,
		created_at       INTEGER NOT NULL,
		updated_at       INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_daos_parent ON daos(parent_id)`,

	`CREATE TABLE IF NOT EXISTS tokens (
		id        TEXT PRIMARY KEY,
		type      TEXT NOT NULL,
		holder    TEXT NOT NULL,
		origin    TEXT NOT NULL DEFAULT '',
		issued_at INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tokens_holder ON tokens(holder)`,

	`CREATE TABLE IF NOT EXISTS proposals (
		id            TEXT PRIMARY KEY,
		dao_id        TEXT NOT NULL REFERENCES daos(id),
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		kind          TEXT NOT NULL CHECK(kind IN ('voting','funding')),
		status        TEXT NOT NULL DEFAULT 'active'
		              CHECK(status IN ('active','canceled','defeated','executed')),
		creator       TEXT NOT NULL,
		recipient     TEXT,
		amount        INTEGER CHECK(amount IS NULL OR amount > 0),
		start_time    INTEGER NOT NULL,
		end_time      INTEGER NOT NULL,
		tally_for     INTEGER NOT NULL DEFAULT 0,
		tally_against INTEGER NOT NULL DEFAULT 0,
		tally_abstain INTEGER NOT NULL DEFAULT 0,
		created_at    INTEGER NOT NULL,
		resolved_at   INTEGER,
		CHECK(start_time < end_time),
		CHECK((kind = 'funding') = (recipient IS NOT NULL AND amount IS NOT NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_proposals_dao ON proposals(dao_id)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_status_end ON proposals(status, end_time)`,

	`CREATE TABLE IF NOT EXISTS proposal_ballots (
		proposal_id TEXT NOT NULL REFERENCES proposals(id),
		token_id    TEXT NOT NULL,
		identity    TEXT NOT NULL,
		vote_type   TEXT NOT NULL CHECK(vote_type IN ('for','against','abstain')),
		cast_at     INTEGER NOT NULL,
		PRIMARY KEY (proposal_id, token_id)
	)`,

	`CREATE TABLE IF NOT EXISTS proposal_voters (
		proposal_id TEXT NOT NULL REFERENCES proposals(id),
		identity    TEXT NOT NULL,
		vote_count  INTEGER NOT NULL CHECK(vote_count > 0),
		locked      TEXT NOT NULL CHECK(locked IN ('for','against','abstain')),
		PRIMARY KEY (proposal_id, identity)
	)`,

	`CREATE TABLE IF NOT EXISTS treasury_movements (
		id          TEXT PRIMARY KEY,
		dao_id      TEXT NOT NULL REFERENCES daos(id),
		direction   TEXT NOT NULL CHECK(direction IN ('deposit','payout')),
		party       TEXT NOT NULL,
		amount      INTEGER NOT NULL CHECK(amount > 0),
		proposal_id TEXT REFERENCES proposals(id),
		created_at  INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_movements_dao ON treasury_movements(dao_id)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_party ON treasury_movements(party, direction)`,

	`CREATE TABLE IF NOT EXISTS registry_entries (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id   TEXT NOT NULL,
		child_id    TEXT NOT NULL REFERENCES daos(id),
		appended_at INTEGER NOT NULL,
		UNIQUE (parent_id, child_id)
	)`,

	`CREATE TABLE IF NOT EXISTS governance_events (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		kind        TEXT NOT NULL,
		dao_id      TEXT NOT NULL,
		proposal_id TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL DEFAULT '',
		actor       TEXT NOT NULL DEFAULT '',
		vote_type   TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT '',
		amount      INTEGER NOT NULL DEFAULT 0,
		at          INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_events_dao ON governance_events(dao_id)`,

	// Record layout version, checked before every mutating operation.
	`ALTER TABLE daos ADD COLUMN version INTEGER NOT NULL DEFAULT 1`,
}
