package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Dialect names as reported by gorm's Dialector.Name().
const (
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

// Options selects and addresses the database.
type Options struct {
	Driver string // sqlite (default), mysql, postgres
	Path   string // sqlite file path
	URL    string // mysql:// or postgres:// URL; overrides the parts below
	Host   string
	Port   string
	User   string
	Pass   string
	Name   string
	Logger logger.Interface
}

// Open connects to the configured database and returns a gorm handle.
// PRE: opts.Driver is sqlite, mysql, postgres or empty
// POST: Returns a pinged connection, or an error
func Open(opts Options) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: opts.Logger}
	if gormCfg.Logger == nil {
		gormCfg.Logger = logger.Discard
	}

	var dialector gorm.Dialector
	switch strings.ToLower(opts.Driver) {
	case "", DialectSQLite:
		sqlDB, err := openSQLite(opts.Path)
		if err != nil {
			return nil, err
		}
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", Conn: sqlDB})
	case DialectMySQL:
		dsn, err := MySQLDSN(opts)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn)
	case DialectPostgres:
		dialector = postgres.Open(PostgresDSN(opts))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// openSQLite opens the file with WAL mode, foreign keys and a busy timeout.
func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = "repair_shop.db"
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	return db, nil
}

// MySQLDSN builds a go-sql-driver DSN from a mysql:// URL or the discrete options.
// Times are stored and read as UTC wall-clock values.
func MySQLDSN(opts Options) (string, error) {
	cfg := mysqlDriver.NewConfig()
	cfg.Net = "tcp"
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	if raw := strings.TrimSpace(opts.URL); raw != "" {
		if !strings.HasPrefix(raw, "mysql://") {
			return raw, nil
		}
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("invalid mysql url: %w", err)
		}
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
		port := u.Port()
		if port == "" {
			port = "3306"
		}
		cfg.Addr = net.JoinHostPort(u.Hostname(), port)
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		if cfg.DBName == "" {
			return "", fmt.Errorf("mysql url missing database name")
		}
		return cfg.FormatDSN(), nil
	}

	port := opts.Port
	if port == "" {
		port = "3306"
	}
	cfg.User = opts.User
	cfg.Passwd = opts.Pass
	cfg.Addr = net.JoinHostPort(opts.Host, port)
	cfg.DBName = opts.Name
	return cfg.FormatDSN(), nil
}

// PostgresDSN returns the URL as given, or a key/value DSN from the discrete options.
func PostgresDSN(opts Options) string {
	if raw := strings.TrimSpace(opts.URL); raw != "" {
		return raw
	}
	port := opts.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		opts.Host, port, opts.User, opts.Pass, opts.Name)
}

// Migrate brings the schema up to date for all persisted concepts.
// PRE: db is a valid connection
// POST: admins, appointments and settings tables exist with their indexes
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// TranslateError maps gorm's not-found error onto ErrNotFound.
func TranslateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
