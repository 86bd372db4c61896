package exac

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/somatic-filter/internal/datasource"
	"github.com/inodb/somatic-filter/internal/schema"
	"github.com/inodb/somatic-filter/internal/table"
	"github.com/inodb/somatic-filter/internal/variant"
)

// Store is an ExAC reference held in an in-memory DuckDB database. The file
// is bulk-loaded with read_csv, which is considerably faster than the
// line-by-line reader for the full 9M-site export. Nothing is written to
// disk.
type Store struct {
	db *sql.DB
}

// OpenDuckDB opens an empty in-memory store.
func OpenDuckDB() (*Store, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load validates the header of the ExAC file at path and bulk-loads it.
// Duplicate coordinate keys are rejected.
//
// The CSV sniffer is disabled: columns are positional and every cell is read
// as unquoted text, with short rows padded, the way table.Read reads them.
func (s *Store) Load(path string) error {
	if path == "-" {
		return errors.New("the duckdb engine cannot read ExAC from stdin")
	}
	info, err := table.Inspect(path, table.Options{Name: "exac"})
	if err != nil {
		return err
	}
	sch := schema.ExAC()
	positions, err := sch.Validate(info.Columns)
	if err != nil {
		return err
	}

	colTypes := make([]string, len(info.Columns))
	notEmpty := make([]string, len(info.Columns))
	for i := range info.Columns {
		colTypes[i] = fmt.Sprintf("'c%d': 'VARCHAR'", i)
		notEmpty[i] = fmt.Sprintf("c%d", i)
	}
	cols := make([]string, len(sch.Fields))
	for i, f := range sch.Fields {
		cols[i] = fmt.Sprintf("COALESCE(c%d, '') AS %s", positions[i], f.Canonical)
	}
	compression := "none"
	if info.Gzip {
		compression = "gzip"
	}

	if _, err := s.db.Exec(`DROP TABLE IF EXISTS exac`); err != nil {
		return fmt.Errorf("reset exac table: %w", err)
	}

	// Blank and comment lines after the header are skipped like the line
	// reader skips them.
	query := fmt.Sprintf(`CREATE TABLE exac AS
		SELECT %s
		FROM read_csv(%s, auto_detect=false, header=false, skip=%d,
			columns={%s}, delim='\t', quote='', escape='',
			null_padding=true, compression='%s')
		WHERE COALESCE(%s) IS NOT NULL
			AND (c0 IS NULL OR NOT starts_with(c0, '#'))`,
		strings.Join(cols, ", "), quoteLiteral(path), info.Line,
		strings.Join(colTypes, ", "), compression, strings.Join(notEmpty, ", "))
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("loading ExAC data: %w", err)
	}

	return s.checkUnique()
}

// checkUnique rejects a table that carries the same coordinate key twice.
func (s *Store) checkUnique() error {
	row := s.db.QueryRow(`SELECT chromosome, start_position, ref_allele, alt_allele
		FROM exac
		GROUP BY chromosome, start_position, ref_allele, alt_allele
		HAVING COUNT(*) > 1
		LIMIT 1`)

	var k variant.Key
	switch err := row.Scan(&k.Chrom, &k.Pos, &k.Ref, &k.Alt); err {
	case sql.ErrNoRows:
		return nil
	case nil:
		return &datasource.ReferenceDataError{Table: "exac", Key: k.String()}
	default:
		return fmt.Errorf("check exac keys: %w", err)
	}
}

// Count returns the number of loaded sites.
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM exac").Scan(&count); err != nil {
		return 0, fmt.Errorf("count exac rows: %w", err)
	}
	return count, nil
}

// BatchLookup implements Reference by joining the keys, appended to a
// scratch table, against the loaded sites. Values are parsed exactly as
// the in-memory table parses them.
func (s *Store) BatchLookup(keys []variant.Key) (map[variant.Key]Entry, error) {
	if len(keys) == 0 {
		return map[variant.Key]Entry{}, nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(context.Background(), `CREATE OR REPLACE TABLE lookup_keys (
		chrom VARCHAR, pos VARCHAR, ref VARCHAR, alt VARCHAR
	)`); err != nil {
		return nil, fmt.Errorf("create lookup table: %w", err)
	}
	defer conn.ExecContext(context.Background(), `DROP TABLE IF EXISTS lookup_keys`)

	if err := appendKeys(conn, keys); err != nil {
		return nil, err
	}

	selectCols := make([]string, len(canonical))
	for i, c := range canonical {
		selectCols[i] = "e." + c
	}
	rows, err := conn.QueryContext(context.Background(), fmt.Sprintf(`SELECT %s
		FROM lookup_keys k
		JOIN exac e ON e.chromosome=k.chrom AND e.start_position=k.pos
			AND e.ref_allele=k.ref AND e.alt_allele=k.alt`,
		strings.Join(selectCols, ", ")))
	if err != nil {
		return nil, fmt.Errorf("batch lookup query: %w", err)
	}
	defer rows.Close()

	results := make(map[variant.Key]Entry, len(keys))
	fields := make([]string, len(canonical))
	dest := make([]any, len(canonical))
	for i := range fields {
		dest[i] = &fields[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan batch result: %w", err)
		}
		key, entry, err := parseRow(0, fields)
		if err != nil {
			return nil, err
		}
		results[key] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("batch lookup rows: %w", err)
	}
	return results, nil
}

func appendKeys(conn *sql.Conn, keys []variant.Key) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "lookup_keys")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}

	seen := make(map[variant.Key]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		if err := appender.AppendRow(k.Chrom, k.Pos, k.Ref, k.Alt); err != nil {
			appender.Close()
			return fmt.Errorf("append lookup key: %w", err)
		}
	}
	return appender.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}
