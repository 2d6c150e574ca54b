package processors

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Dialect is a supported SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLOptions configures the sql processor.
type SQLOptions struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
	Table  string `koanf:"table"`
}

// SQLExport inserts one row per processed file: run ID, path, match type,
// values and the time recorded. The table is created on Init if missing.
type SQLExport struct {
	Base
	dialect Dialect
	dsn     string
	table   string
	db      *sql.DB
	ownsDB  bool
}

func NewSQLExport(source types.InputFileSource, opts SQLOptions) (*SQLExport, error) {
	dialect := Dialect(strings.ToLower(opts.Driver))
	switch dialect {
	case DialectSQLite, DialectPostgres, DialectMySQL:
	case "":
		dialect = DialectSQLite
	default:
		return nil, errors.Newf(errors.ErrPluginOptions, "unsupported sql driver %q (want sqlite, postgres or mysql)", opts.Driver)
	}
	if opts.DSN == "" {
		return nil, errors.New(errors.ErrPluginOptions, "sql needs a dsn")
	}
	table := opts.Table
	if table == "" {
		table = "sifter_results"
	}
	if !identifier.MatchString(table) {
		return nil, errors.Newf(errors.ErrPluginOptions, "invalid table name %q", table)
	}
	return &SQLExport{
		Base:    NewBase("sql", source, types.ProducesNever),
		dialect: dialect,
		dsn:     opts.DSN,
		table:   table,
	}, nil
}

// WithDB makes the processor use db instead of opening its own connection.
func (s *SQLExport) WithDB(db *sql.DB) *SQLExport {
	s.db = db
	s.ownsDB = false
	return s
}

func (s *SQLExport) Init(rc *types.RunContext) error {
	if err := s.Base.Init(rc); err != nil {
		return err
	}
	if s.db == nil {
		db, err := sql.Open(string(s.dialect), s.dsn)
		if err != nil {
			return errors.Wrapf(err, errors.ErrPluginInit, "cannot open %s database", s.dialect)
		}
		s.db = db
		s.ownsDB = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, s.createStatement()); err != nil {
		if s.ownsDB {
			_ = s.db.Close()
			s.db = nil
		}
		return errors.Wrapf(err, errors.ErrPluginInit, "cannot create table %s", s.table)
	}
	return nil
}

func (s *SQLExport) createStatement() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id VARCHAR(64) NOT NULL,
	path TEXT NOT NULL,
	match_type VARCHAR(16) NOT NULL,
	vals TEXT NOT NULL,
	recorded_at VARCHAR(32) NOT NULL
)`, s.table)
}

func (s *SQLExport) insertStatement() string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("INSERT INTO %s (run_id, path, match_type, vals, recorded_at) VALUES ($1, $2, $3, $4, $5)", s.table)
	}
	return fmt.Sprintf("INSERT INTO %s (run_id, path, match_type, vals, recorded_at) VALUES (?, ?, ?, ?, ?)", s.table)
}

func (s *SQLExport) Process(ctx context.Context, in types.ProcessInput) (types.ProcessingResult, error) {
	return EachFile(ctx, in, func(ctx context.Context, file string, in types.ProcessInput) (types.ProcessingResult, error) {
		_, err := s.db.ExecContext(ctx, s.insertStatement(),
			s.runID, file, in.Match.Type.String(), strings.Join(in.Values, "\n"),
			time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return types.ProcessingResult{}, ctxErr
			}
			return types.ProcessingResult{}, errors.Wrapf(err, errors.ErrProcessorRun, "cannot insert %s", file)
		}
		return types.Success("row inserted into " + s.table), nil
	})
}

func (s *SQLExport) Cleanup() error {
	if s.db == nil || !s.ownsDB {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return errors.Wrap(err, errors.ErrPluginCleanup, "cannot close database")
	}
	return nil
}

func init() {
	plugins.RegisterProcessor("sql", "inserts a row per file into a sqlite, postgres or mysql table", func(o plugins.Options) (types.Processor, error) {
		var opts SQLOptions
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewSQLExport(o.Input, opts)
	})
}
