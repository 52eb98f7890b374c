package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/MoonshotAI/moonlz/filter"
)

const sqlDriver = "moonlz_sqlite3"

var (
	persistence     *Persistence
	persistenceOnce sync.Once
)

func init() {
	sql.Register(sqlDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterFunc("lz_ratio", lzRatio, true); err != nil {
				return err
			}
			return nil
		},
	})
}

func getPersistence() *Persistence {
	persistenceOnce.Do(func() {
		var err error
		persistence, err = openPersistence(getMoonSqlite())
		if err != nil {
			logFatal(fmt.Errorf("run store: %w", err))
		}
	})
	return persistence
}

// lzRatio is the encoded size relative to the input size, 0 for empty inputs.
func lzRatio(encodedSize, inputSize int64) float64 {
	if inputSize == 0 {
		return 0
	}
	return float64(encodedSize) / float64(inputSize)
}

// runColumns are the fields a list predicate may refer to.
var runColumns = []string{
	"id",
	"source",
	"input_hash",
	"input_size",
	"token_count",
	"literal_count",
	"copy_count",
	"longest_copy",
	"encoded_size",
	"tree_nodes",
	"repeatness",
	"build_latency",
	"annotate_latency",
	"factorize_latency",
	"verified",
	"error",
	"created_at",
	"ratio",
}

const createTable = `
create table if not exists lz_runs
(
    id                integer not null
        constraint lz_runs_pk
            primary key autoincrement,
    source            text    not null,
    input_hash        text    not null,
    input_size        integer not null,
    token_count       integer not null,
    literal_count     integer not null,
    copy_count        integer not null,
    longest_copy      integer not null,
    encoded_size      integer not null,
    repeatness        real,
    build_latency     integer not null,
    annotate_latency  integer not null,
    factorize_latency integer not null,
    tokens            text,
    error             text,
    created_at        text default (datetime('now', 'localtime')) not null
);
`

// Columns added after the first release of the table. Older stores get them
// on open.
var lateColumns = []struct {
	name, ddl string
}{
	{"tree_nodes", "alter table lz_runs add tree_nodes integer;"},
	{"verified", "alter table lz_runs add verified integer;"},
}

type tableInfo struct {
	CID          int64          `db:"cid"`
	Name         string         `db:"name"`
	Type         string         `db:"type"`
	NotNull      bool           `db:"notnull"`
	DefaultValue sql.NullString `db:"dflt_value"`
	PrimaryKey   bool           `db:"pk"`
}

type Persistence struct {
	db *sqlx.DB
}

func openPersistence(path string) (*Persistence, error) {
	db, err := sqlx.Open(sqlDriver, "file:"+path)
	if err != nil {
		return nil, err
	}
	p := &Persistence{db: db}
	if _, err = db.Exec(createTable); err != nil {
		db.Close()
		return nil, err
	}
	if err = p.addLateColumns(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (p *Persistence) Close() error {
	return p.db.Close()
}

func (p *Persistence) inspectTable() ([]*tableInfo, error) {
	var tableInfos []*tableInfo
	if err := p.db.Select(&tableInfos, "pragma table_info(lz_runs);"); err != nil {
		return nil, err
	}
	return tableInfos, nil
}

func (p *Persistence) addLateColumns() error {
	tableInfos, err := p.inspectTable()
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(tableInfos))
	for _, info := range tableInfos {
		existing[info.Name] = true
	}
	for _, column := range lateColumns {
		if existing[column.name] {
			continue
		}
		if _, err = p.db.Exec(column.ddl); err != nil {
			return fmt.Errorf("adding column %s: %w", column.name, err)
		}
	}
	return nil
}

const insertRun = `
insert into lz_runs (
    source,
    input_hash,
    input_size,
    token_count,
    literal_count,
    copy_count,
    longest_copy,
    encoded_size,
    tree_nodes,
    repeatness,
    build_latency,
    annotate_latency,
    factorize_latency,
    tokens,
    error,
    verified
) values (
    :source,
    :input_hash,
    :input_size,
    :token_count,
    :literal_count,
    :copy_count,
    :longest_copy,
    :encoded_size,
    :tree_nodes,
    :repeatness,
    :build_latency,
    :annotate_latency,
    :factorize_latency,
    :tokens,
    :error,
    :verified
);
`

// Insert stores run and returns its row id.
func (p *Persistence) Insert(run *Run) (int64, error) {
	result, err := p.db.NamedExec(insertRun, run)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListRuns returns the latest n runs matching predicate, all of them when n
// is 0. predicate is a SQL condition as produced by Predicates.Parse.
func (p *Persistence) ListRuns(n int64, predicate string) ([]*Run, error) {
	var query strings.Builder
	query.WriteString(`
select *
from (
	select *, lz_ratio(encoded_size, input_size) as ratio
	from lz_runs
)
where 1 = 1`)
	if predicate != "" {
		query.WriteString("\n  and (" + predicate + ")")
	}
	query.WriteString("\norder by id desc")
	var args []any
	if n > 0 {
		query.WriteString("\nlimit ?")
		args = append(args, n)
	}
	var runs []*Run
	if err := p.db.Select(&runs, query.String()+";", args...); err != nil {
		return nil, err
	}
	return runs, nil
}

func (p *Persistence) GetRun(id int64) (*Run, error) {
	var run Run
	err := p.db.Get(&run, `
select *, lz_ratio(encoded_size, input_size) as ratio
from lz_runs
where id = ?;`, id)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Cleanup deletes the runs created before the given date or datetime.
func (p *Persistence) Cleanup(before string) (sql.Result, error) {
	return p.db.Exec("delete from lz_runs where created_at < ?;", before)
}

// Run is one compression of one input.
type Run struct {
	ID               int64           `db:"id"`
	Source           string          `db:"source"`
	InputHash        string          `db:"input_hash"`
	InputSize        int64           `db:"input_size"`
	TokenCount       int64           `db:"token_count"`
	LiteralCount     int64           `db:"literal_count"`
	CopyCount        int64           `db:"copy_count"`
	LongestCopy      int64           `db:"longest_copy"`
	EncodedSize      int64           `db:"encoded_size"`
	TreeNodes        sql.NullInt64   `db:"tree_nodes"`
	Repeatness       sql.NullFloat64 `db:"repeatness"`
	BuildLatency     time.Duration   `db:"build_latency"`
	AnnotateLatency  time.Duration   `db:"annotate_latency"`
	FactorizeLatency time.Duration   `db:"factorize_latency"`
	Tokens           sql.NullString  `db:"tokens"`
	Error            sql.NullString  `db:"error"`
	Verified         sql.NullBool    `db:"verified"`
	CreatedAt        SqliteTime      `db:"created_at"`

	// Computed by lz_ratio, absent on insert.

	Ratio sql.NullFloat64 `db:"ratio"`
}

func (r *Run) HasError() bool {
	return r.Error.Valid
}

func (r *Run) Metadata() (metadata map[string]string) {
	metadata = make(map[string]string, 20)
	metadata["moonlz_id"] = strconv.FormatInt(r.ID, 10)
	metadata["source"] = r.Source
	metadata["input_hash"] = r.InputHash
	metadata["input_size"] = strconv.FormatInt(r.InputSize, 10)
	metadata["token_count"] = strconv.FormatInt(r.TokenCount, 10)
	metadata["literal_count"] = strconv.FormatInt(r.LiteralCount, 10)
	metadata["copy_count"] = strconv.FormatInt(r.CopyCount, 10)
	metadata["longest_copy"] = strconv.FormatInt(r.LongestCopy, 10)
	metadata["encoded_size"] = strconv.FormatInt(r.EncodedSize, 10)
	if r.TreeNodes.Valid {
		metadata["tree_nodes"] = strconv.FormatInt(r.TreeNodes.Int64, 10)
	}
	if r.Ratio.Valid {
		metadata["ratio"] = strconv.FormatFloat(r.Ratio.Float64, 'f', 4, 64)
	}
	if r.Repeatness.Valid {
		metadata["repeatness"] = strconv.FormatFloat(r.Repeatness.Float64, 'f', 4, 64)
	}
	metadata["build_latency"] = strconv.FormatInt(r.BuildLatency.Microseconds(), 10)
	metadata["annotate_latency"] = strconv.FormatInt(r.AnnotateLatency.Microseconds(), 10)
	metadata["factorize_latency"] = strconv.FormatInt(r.FactorizeLatency.Microseconds(), 10)
	if r.Verified.Valid {
		metadata["verified"] = strconv.FormatBool(r.Verified.Bool)
	}
	if r.Error.Valid {
		metadata["error"] = r.Error.String
	}
	metadata["compressed_at"] = r.CreatedAt.Format(time.DateTime)
	return metadata
}

func (r *Run) Inspection() (inspection map[string]string) {
	inspection = make(map[string]string, 3)
	metadataJSON, _ := json.MarshalIndent(r.Metadata(), "", "    ")
	inspection["metadata"] = string(metadataJSON)
	inspection["tokens"] = formatJSON(r.Tokens.String)
	inspection["error"] = r.Error.String
	return inspection
}

type SqliteTime struct {
	time.Time
}

func (t *SqliteTime) Scan(src any) (err error) {
	if src == nil {
		return nil
	}
	var timeString string
	switch v := src.(type) {
	case time.Time:
		t.Time = v
		return nil
	case string:
		timeString = v
	case []byte:
		timeString = string(v)
	default:
		return fmt.Errorf("cannot convert type %T to time.Time", src)
	}
	t.Time, err = time.ParseInLocation(time.DateTime, timeString, time.Local)
	if err != nil {
		return err
	}
	return nil
}

type Predicates []string

func (p Predicates) Parse() (string, error) {
	var sqlBuilder strings.Builder
	for i, predicate := range p {
		if i > 0 {
			sqlBuilder.WriteString(" and ")
		}
		parsed, err := filter.Parse(predicate, runColumns...)
		if err != nil {
			return "", err
		}
		sqlBuilder.WriteString("(" + parsed + ")")
	}
	return sqlBuilder.String(), nil
}
