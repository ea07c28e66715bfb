package store

import (
	"context"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/util"
)

// SQLiteStore persists stream records in a SQLite database. Each row
// holds the deterministic CBOR record blob plus the sender and recipient
// identities as indexed columns, so the by-identity queries never decode
// unrelated records.
type SQLiteStore struct {
	pool *sqlitex.Pool
}

var _ StreamStore = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS streams (
	id        TEXT PRIMARY KEY,
	sender    TEXT NOT NULL,
	recipient TEXT NOT NULL,
	record    BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS streams_by_sender ON streams (sender);
CREATE INDEX IF NOT EXISTS streams_by_recipient ON streams (recipient);
`

// OpenSQLiteStore opens (creating if needed) the database at path. Use
// ":memory:" with pool size 1 for tests. The caller must Close the store
// when done.
func OpenSQLiteStore(path string, poolSize int) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("store: path is required")
	}
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "store: opening %s", path)
	}
	return &SQLiteStore{pool: pool}, nil
}

// Close closes all connections in the pool.
func (s *SQLiteStore) Close() error {
	return errors.Wrap(s.pool.Close(), "store: closing sqlite pool")
}

// prepareConnection applies pragmas and creates the schema. Runs once per
// pooled connection on first use.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return errors.Wrap(err, pragma)
		}
	}
	return errors.Wrap(sqlitex.ExecuteScript(conn, sqliteSchema, nil), "creating schema")
}

// Put implements StreamStore.
func (s *SQLiteStore) Put(ctx context.Context, stream *types.Stream) error {
	record, err := EncodeStream(stream)
	if err != nil {
		return err
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return errors.Wrap(err, "store: take connection")
	}
	defer s.pool.Put(conn)

	// The runtime serializes operations per stream, so a plain
	// check-then-insert cannot race against itself.
	exists, err := s.exists(conn, stream.ID)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(types.ErrorStreamExists, "stream %s", stream.ID)
	}

	err = sqlitex.Execute(conn,
		`INSERT INTO streams (id, sender, recipient, record) VALUES (:id, :sender, :recipient, :record)`,
		&sqlitex.ExecOptions{
			Named: map[string]any{
				":id":        stream.ID.String(),
				":sender":    stream.Sender.String(),
				":recipient": stream.Recipient.String(),
				":record":    record,
			},
		})
	return errors.Wrap(err, "store: inserting stream")
}

// Update implements StreamStore.
func (s *SQLiteStore) Update(ctx context.Context, stream *types.Stream) error {
	record, err := EncodeStream(stream)
	if err != nil {
		return err
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return errors.Wrap(err, "store: take connection")
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE streams SET sender = :sender, recipient = :recipient, record = :record WHERE id = :id`,
		&sqlitex.ExecOptions{
			Named: map[string]any{
				":id":        stream.ID.String(),
				":sender":    stream.Sender.String(),
				":recipient": stream.Recipient.String(),
				":record":    record,
			},
		})
	if err != nil {
		return errors.Wrap(err, "store: updating stream")
	}
	if conn.Changes() == 0 {
		return errors.Wrapf(types.ErrorStreamNotFound, "stream %s", stream.ID)
	}
	return nil
}

// Get implements StreamStore.
func (s *SQLiteStore) Get(ctx context.Context, id util.Address) (*types.Stream, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "store: take connection")
	}
	defer s.pool.Put(conn)

	var record []byte
	err = sqlitex.Execute(conn,
		`SELECT record FROM streams WHERE id = :id`,
		&sqlitex.ExecOptions{
			Named: map[string]any{":id": id.String()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				record = make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, record)
				return nil
			},
		})
	if err != nil {
		return nil, errors.Wrap(err, "store: reading stream")
	}
	if record == nil {
		return nil, errors.Wrapf(types.ErrorStreamNotFound, "stream %s", id)
	}
	return DecodeStream(record)
}

// ListBySender implements StreamStore.
func (s *SQLiteStore) ListBySender(ctx context.Context, sender util.Address) ([]*types.Stream, error) {
	return s.list(ctx, `SELECT record FROM streams WHERE sender = :who`, sender)
}

// ListByRecipient implements StreamStore.
func (s *SQLiteStore) ListByRecipient(ctx context.Context, recipient util.Address) ([]*types.Stream, error) {
	return s.list(ctx, `SELECT record FROM streams WHERE recipient = :who`, recipient)
}

func (s *SQLiteStore) list(ctx context.Context, query string, who util.Address) ([]*types.Stream, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "store: take connection")
	}
	defer s.pool.Put(conn)

	var streams []*types.Stream
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Named: map[string]any{":who": who.String()},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			record := make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, record)
			stream, decodeErr := DecodeStream(record)
			if decodeErr != nil {
				return decodeErr
			}
			streams = append(streams, stream)
			return nil
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "store: listing streams")
	}
	return streams, nil
}

func (s *SQLiteStore) exists(conn *sqlite.Conn, id util.Address) (bool, error) {
	var exists bool
	err := sqlitex.Execute(conn,
		`SELECT 1 FROM streams WHERE id = :id`,
		&sqlitex.ExecOptions{
			Named: map[string]any{":id": id.String()},
			ResultFunc: func(*sqlite.Stmt) error {
				exists = true
				return nil
			},
		})
	return exists, errors.Wrap(err, "store: checking stream existence")
}
