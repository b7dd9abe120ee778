// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package importer bulk-loads the YaMDb fixture CSV files into PostgreSQL.

Each file is streamed row-for-row into its table with COPY. The only work done
on a row is mapping header names to columns and converting cell types; no
domain validation runs, so the database constraints are the only gate.

Usage:

	err := postgres.InTx(ctx, pool, func(tx pgx.Tx) error {
	    _, err := importer.New(tx, os.DirFS("./static/data"), logger).Run(ctx)
	    return err
	})

Files missing from the source are skipped. After loading, identity sequences
are moved past the imported IDs so later inserts do not collide.
*/
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
)

// Store is the database surface the importer writes through. Both
// [*pgxpool.Pool] and [pgx.Tx] satisfy it.
type Store interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Result reports the outcome of one load.
type Result struct {
	File    string
	Table   string
	Rows    int64
	Skipped bool
}

// Importer runs a load plan against a store.
type Importer struct {
	store  Store
	source fs.FS
	logger *slog.Logger
	plan   []Load
}

// New returns an [Importer] for [DefaultPlan].
func New(store Store, source fs.FS, logger *slog.Logger) *Importer {
	return &Importer{store: store, source: source, logger: logger, plan: DefaultPlan}
}

/*
Run executes every load in order and then re-syncs sequences.

Returns:
  - []Result: One entry per planned file, in plan order
  - error: The first failure; later loads are not attempted
*/
func (importer *Importer) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(importer.plan))

	for _, load := range importer.plan {
		rows, err := importer.load(ctx, load)
		if errors.Is(err, fs.ErrNotExist) {
			importer.logger.WarnContext(ctx, "import_file_skipped", slog.String("file", load.File))
			results = append(results, Result{File: load.File, Table: load.Table, Skipped: true})
			continue
		}
		if err != nil {
			return results, fmt.Errorf("import_%s_failed: %w", load.Table, err)
		}

		importer.logger.InfoContext(ctx, "import_file_loaded",
			slog.String("file", load.File),
			slog.String("table", load.Table),
			slog.Int64("rows", rows),
		)
		results = append(results, Result{File: load.File, Table: load.Table, Rows: rows})
	}

	for _, result := range results {
		if result.Skipped || !importer.hasSerialID(result.Table) {
			continue
		}
		if err := importer.resyncSequence(ctx, result.Table); err != nil {
			return results, fmt.Errorf("import_resync_%s_failed: %w", result.Table, err)
		}
	}

	return results, nil
}

// load streams one file into its table. The file is closed before returning.
func (importer *Importer) load(ctx context.Context, load Load) (int64, error) {
	file, err := importer.source.Open(load.File)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	source, err := newRowSource(csv.NewReader(file), load.Columns)
	if err != nil {
		return 0, err
	}

	names := make([]string, len(load.Columns))
	for i, column := range load.Columns {
		names[i] = column.Name
	}

	return importer.store.CopyFrom(ctx, pgx.Identifier{schema.Name, load.Table}, names, source)
}

func (importer *Importer) hasSerialID(table string) bool {
	for _, load := range importer.plan {
		if load.Table == table {
			return load.HasSerialID
		}
	}
	return false
}

// resyncSequence moves the id sequence of table past its largest imported ID.
func (importer *Importer) resyncSequence(ctx context.Context, table string) error {
	qualified := schema.Name + "." + table
	query := fmt.Sprintf(`
		SELECT setval(
			pg_get_serial_sequence('%[1]s', 'id'),
			COALESCE((SELECT MAX(id) FROM %[1]s), 1),
			(SELECT MAX(id) FROM %[1]s) IS NOT NULL
		)`, qualified)

	_, err := importer.store.Exec(ctx, query)
	return err
}

// # Row Source

// rowSource adapts a CSV reader to [pgx.CopyFromSource].
type rowSource struct {
	reader  *csv.Reader
	columns []Column
	// positions[i] is the CSV field index feeding columns[i].
	positions []int
	record    []string
	line      int
	err       error
}

// newRowSource reads the header row and resolves every column's position.
func newRowSource(reader *csv.Reader, columns []Column) (*rowSource, error) {
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &rowSource{reader: reader, columns: columns}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if alias, ok := headerAliases[name]; ok {
			name = alias
		}
		index[name] = i
	}

	positions := make([]int, len(columns))
	for i, column := range columns {
		position, ok := index[column.Name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", column.Name)
		}
		positions[i] = position
	}

	return &rowSource{reader: reader, columns: columns, positions: positions, line: 1}, nil
}

// Next advances to the next CSV record. A file without a header has no rows.
func (source *rowSource) Next() bool {
	if source.positions == nil || source.err != nil {
		return false
	}

	record, err := source.reader.Read()
	if errors.Is(err, io.EOF) {
		return false
	}
	if err != nil {
		source.err = err
		return false
	}

	source.line++
	source.record = record
	return true
}

// Values converts the current record into column values.
func (source *rowSource) Values() ([]any, error) {
	values := make([]any, len(source.columns))
	for i, column := range source.columns {
		value, err := convert(source.record[source.positions[i]], column)
		if err != nil {
			return nil, fmt.Errorf("line %d, column %q: %w", source.line, column.Name, err)
		}
		values[i] = value
	}
	return values, nil
}

// Err returns the first read error.
func (source *rowSource) Err() error {
	return source.err
}

// convert turns one cell into the value COPY expects for column.
func convert(cell string, column Column) (any, error) {
	switch column.Kind {
	case kindInt:
		return strconv.ParseInt(strings.TrimSpace(cell), 10, 64)

	case kindOptionalInt:
		if strings.TrimSpace(cell) == "" {
			return nil, nil
		}
		return strconv.ParseInt(strings.TrimSpace(cell), 10, 64)

	case kindTimestamp:
		return time.Parse(time.RFC3339Nano, strings.TrimSpace(cell))
	}

	if cell == "" && column.Fallback != "" {
		return column.Fallback, nil
	}
	return cell, nil
}
