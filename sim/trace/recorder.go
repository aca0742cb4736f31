package trace

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"

	// SQLite driver for the trace database.
	_ "github.com/mattn/go-sqlite3"
)

// Table names used by Persist.
const (
	TableRuns     = "runs"
	TableAccesses = "accesses"
)

// recorderBatchSize is the number of buffered entries that triggers an
// automatic flush to the database.
const recorderBatchSize = 4096

// Recorder is a backend that stores trace records in typed tables.
type Recorder interface {
	// CreateTable creates a new table whose columns mirror the fields of
	// the sample entry struct.
	CreateTable(tableName string, sampleEntry any) error

	// InsertData buffers an entry for a table that already exists. The
	// entry must have the same type as the table's sample entry.
	InsertData(tableName string, entry any) error

	// ListTables returns the names of all created tables.
	ListTables() []string

	// Flush writes all buffered entries to the database.
	Flush() error
}

// NewRecorder creates a Recorder backed by a new SQLite database file.
// The ".sqlite3" suffix is appended to the path. If path is empty a
// unique name is generated. Fails if the file already exists.
func NewRecorder(path string) (Recorder, error) {
	if path == "" {
		path = "cache_sim_trace_" + xid.New().String()
	}

	filename := path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("trace database %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open trace database: %w", err)
	}

	logrus.Infof("Recording trace to %s", filename)

	w := &sqliteRecorder{
		DB:        db,
		batchSize: recorderBatchSize,
		tables:    make(map[string]*recorderTable),
	}

	atexit.Register(func() {
		if err := w.Flush(); err != nil {
			logrus.Errorf("Failed to flush trace database: %v", err)
		}
	})

	return w, nil
}

// NewRecorderWithDB creates a Recorder on an existing database connection.
// Useful for tests and in-memory databases.
func NewRecorderWithDB(db *sql.DB) Recorder {
	return &sqliteRecorder{
		DB:        db,
		batchSize: recorderBatchSize,
		tables:    make(map[string]*recorderTable),
	}
}

type recorderTable struct {
	structType reflect.Type
	entries    []any
}

// sqliteRecorder buffers entries per table and writes them to SQLite in
// batched transactions.
type sqliteRecorder struct {
	*sql.DB

	tables     map[string]*recorderTable
	batchSize  int
	entryCount int
}

// isAllowedFieldKind reports whether a struct field kind can be stored as
// a SQLite column.
func isAllowedFieldKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)
	if types == nil || types.Kind() != reflect.Struct {
		return fmt.Errorf("entry must be a struct, got %T", entry)
	}

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)
		if !isAllowedFieldKind(field.Type.Kind()) {
			return fmt.Errorf("field %s has unsupported type %s",
				field.Name, field.Type)
		}
	}

	return nil
}

func (r *sqliteRecorder) CreateTable(tableName string, sampleEntry any) error {
	if err := checkStructFields(sampleEntry); err != nil {
		return fmt.Errorf("create table %s: %w", tableName, err)
	}

	if _, exists := r.tables[tableName]; exists {
		return fmt.Errorf("table %s already exists", tableName)
	}

	fields := strings.Join(structs.Names(sampleEntry), ", \n\t")
	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	if _, err := r.Exec(createTableSQL); err != nil {
		return fmt.Errorf("create table %s: %w", tableName, err)
	}

	r.tables[tableName] = &recorderTable{
		structType: reflect.TypeOf(sampleEntry),
		entries:    []any{},
	}

	return nil
}

func (r *sqliteRecorder) InsertData(tableName string, entry any) error {
	table, exists := r.tables[tableName]
	if !exists {
		return fmt.Errorf("table %s does not exist", tableName)
	}

	if reflect.TypeOf(entry) != table.structType {
		return fmt.Errorf("table %s expects entries of type %s, got %T",
			tableName, table.structType, entry)
	}

	table.entries = append(table.entries, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		return r.Flush()
	}

	return nil
}

func (r *sqliteRecorder) ListTables() []string {
	tables := make([]string, 0, len(r.tables))
	for name := range r.tables {
		tables = append(tables, name)
	}

	return tables
}

func (r *sqliteRecorder) Flush() error {
	if r.entryCount == 0 {
		return nil
	}

	if _, err := r.Exec("BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin trace flush: %w", err)
	}

	for tableName, table := range r.tables {
		if len(table.entries) == 0 {
			continue
		}

		if err := r.flushTable(tableName, table); err != nil {
			r.Exec("ROLLBACK TRANSACTION")
			return err
		}

		table.entries = nil
	}

	if _, err := r.Exec("COMMIT TRANSACTION"); err != nil {
		return fmt.Errorf("commit trace flush: %w", err)
	}

	r.entryCount = 0

	return nil
}

func (r *sqliteRecorder) flushTable(tableName string, table *recorderTable) error {
	stmt, err := r.prepareInsert(tableName, table.entries[0])
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range table.entries {
		values := []any{}

		fields := reflect.ValueOf(entry)
		for i := 0; i < fields.NumField(); i++ {
			values = append(values, fields.Field(i).Interface())
		}

		if _, err := stmt.Exec(values...); err != nil {
			return fmt.Errorf("insert into %s: %w", tableName, err)
		}
	}

	return nil
}

func (r *sqliteRecorder) prepareInsert(tableName string, sampleEntry any) (*sql.Stmt, error) {
	placeholders := structs.Names(sampleEntry)
	for i := range placeholders {
		placeholders[i] = "?"
	}

	sqlStr := "INSERT INTO " + tableName +
		" VALUES (" + strings.Join(placeholders, ", ") + ")"

	stmt, err := r.Prepare(sqlStr)
	if err != nil {
		return nil, fmt.Errorf("prepare insert for %s: %w", tableName, err)
	}

	return stmt, nil
}

// Persist writes every record collected in a SimulationTrace to the
// Recorder and flushes. Tables are created on first use.
func Persist(st *SimulationTrace, rec Recorder) error {
	if st == nil {
		return nil
	}

	if err := rec.CreateTable(TableRuns, RunRecord{}); err != nil {
		return err
	}
	for _, run := range st.Runs {
		if err := rec.InsertData(TableRuns, run); err != nil {
			return err
		}
	}

	if len(st.Accesses) > 0 {
		if err := rec.CreateTable(TableAccesses, AccessRecord{}); err != nil {
			return err
		}
		for _, access := range st.Accesses {
			if err := rec.InsertData(TableAccesses, access); err != nil {
				return err
			}
		}
	}

	return rec.Flush()
}
