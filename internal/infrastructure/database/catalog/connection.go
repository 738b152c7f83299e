package catalog

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/turtacn/evadb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/evadb/pkg/errors"
)

// DefaultPingTimeout bounds the connectivity check in Open.
const DefaultPingTimeout = 5 * time.Second

// sqlOpen is a variable to allow mocking in tests.
var sqlOpen = sql.Open

// Connection is an open catalog database.
type Connection struct {
	db     *sql.DB
	target Target
	logger logging.Logger
	once   sync.Once
}

// Open parses uri, opens the pool and pings it.  A failed ping closes the
// pool and returns CodeCatalogUnreachable.
func Open(ctx context.Context, uri string, log logging.Logger) (*Connection, error) {
	if log == nil {
		log = logging.Default()
	}
	target, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	db, err := sqlOpen(target.Driver, target.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCatalogUnreachable, "open catalog").WithDetail(target.Display)
	}
	if target.Driver == DriverSQLite {
		// sqlite serialises writers; a single connection also keeps
		// :memory: databases from splitting across the pool
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetConnMaxIdleTime(time.Minute)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPingTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.CodeCatalogUnreachable, "catalog unreachable").WithDetail(target.Display)
	}

	log.Info("connected to catalog",
		logging.String("driver", target.Driver),
		logging.String("catalog", target.Display),
	)
	return &Connection{db: db, target: target, logger: log}, nil
}

// DB returns the underlying pool.
func (c *Connection) DB() *sql.DB {
	return c.db
}

// Target returns the parsed URI the connection was opened with.
func (c *Connection) Target() Target {
	return c.target
}

// HealthCheck pings the catalog.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.CodeCatalogUnreachable, "catalog health check failed").WithDetail(c.target.Display)
	}
	return nil
}

// Close closes the pool.  Subsequent calls return nil.
func (c *Connection) Close() error {
	var err error
	c.once.Do(func() {
		err = c.db.Close()
		if err != nil {
			c.logger.Error("failed to close catalog connection", logging.Err(err))
			return
		}
		c.logger.Debug("closed catalog connection", logging.String("catalog", c.target.Display))
	})
	return err
}

// Ping opens uri, checks it and closes it again.
func Ping(ctx context.Context, uri string, log logging.Logger) error {
	conn, err := Open(ctx, uri, log)
	if err != nil {
		return err
	}
	return conn.Close()
}
