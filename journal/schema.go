package journal

// Schema creates the journal tables. Amounts are stored as decimal TEXT and
// dates as YYYY-MM-DD so range queries compare lexically.
const Schema = `
CREATE TABLE IF NOT EXISTS notes (
	number TEXT PRIMARY KEY,
	synthetic INTEGER NOT NULL,
	broker TEXT NOT NULL,
	date TEXT NOT NULL,
	buys TEXT NOT NULL,
	sales TEXT NOT NULL,
	volume TEXT NOT NULL,
	fees TEXT,
	withheld_tax TEXT,
	net_settlement TEXT,
	unallocated_tax TEXT,
	documents TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	note_number TEXT NOT NULL,
	seq INTEGER NOT NULL,
	ticker TEXT NOT NULL,
	specification TEXT NOT NULL,
	date TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price TEXT NOT NULL,
	value TEXT NOT NULL,
	fees TEXT NOT NULL,
	withheld_tax TEXT NOT NULL,
	broker TEXT NOT NULL,
	market TEXT NOT NULL,
	day_trade INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
CREATE INDEX IF NOT EXISTS idx_trades_note ON trades(note_number);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created TEXT NOT NULL,
	documents INTEGER NOT NULL,
	notes INTEGER NOT NULL,
	trades INTEGER NOT NULL,
	fees TEXT NOT NULL,
	withheld_tax TEXT NOT NULL,
	unallocated_tax TEXT NOT NULL
);
`
