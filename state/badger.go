package state

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

const badgerGcInterval = 5 * time.Minute

// BadgerBackend persists the protocol state in a badger value log. An empty
// dataDir opens badger in memory, which keeps dev runs disk-free.
type BadgerBackend struct {
	db       *badger.DB
	logger   *slog.Logger
	gcTicker *time.Ticker
	gcStopCh chan struct{}
	gcWg     sync.WaitGroup
}

// NewBadgerBackend opens (and creates, if needed) the store under dataDir.
func NewBadgerBackend(dataDir string, logger *slog.Logger) (*BadgerBackend, error) {
	if logger == nil {
		// Throwaway logger so we don't guard every log call
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	var opts badger.Options
	if dataDir == "" {
		opts = badger.DefaultOptions("").
			WithInMemory(true)
	} else {
		if _, err := os.Stat(dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		opts = badger.DefaultOptions(filepath.Join(dataDir, "kv"))
	}
	// The default INFO logging is a bit verbose
	opts = opts.
		WithLogger(newBadgerLogger(logger)).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	b := &BadgerBackend{
		db:     db,
		logger: logger,
	}
	if dataDir != "" {
		b.gcTicker = time.NewTicker(badgerGcInterval)
		b.gcStopCh = make(chan struct{})
		b.gcWg.Add(1)
		go b.valueLogGc()
	}
	return b, nil
}

func (b *BadgerBackend) valueLogGc() {
	defer b.gcWg.Done()
	for {
		select {
		case <-b.gcTicker.C:
		again:
			err := b.db.RunValueLogGC(0.5)
			if err == nil {
				goto again
			}
			if !errors.Is(err, badger.ErrNoRewrite) {
				b.logger.Warn(
					fmt.Sprintf("state: badger GC failure: %s", err),
					"component", "state",
				)
			}
		case <-b.gcStopCh:
			return
		}
	}
}

func (b *BadgerBackend) Begin() Txn {
	return &badgerTxn{txn: b.db.NewTransaction(true)}
}

func (b *BadgerBackend) Close() error {
	if b.gcTicker != nil {
		b.gcTicker.Stop()
		close(b.gcStopCh)
		b.gcWg.Wait()
	}
	return b.db.Close()
}

type badgerTxn struct {
	txn  *badger.Txn
	err  error
	done bool
}

func (t *badgerTxn) Get(key string) *string {
	item, err := t.txn.Get([]byte(key))
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) && t.err == nil {
			t.err = err
		}
		return nil
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		if t.err == nil {
			t.err = err
		}
		return nil
	}
	s := string(val)
	return &s
}

func (t *badgerTxn) Set(key, value string) {
	if err := t.txn.Set([]byte(key), []byte(value)); err != nil && t.err == nil {
		t.err = err
	}
}

func (t *badgerTxn) Delete(key string) {
	if err := t.txn.Delete([]byte(key)); err != nil && t.err == nil {
		t.err = err
	}
}

func (t *badgerTxn) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	if t.err != nil {
		t.txn.Discard()
		return t.err
	}
	return t.txn.Commit()
}

func (t *badgerTxn) Discard() {
	if t.done {
		return
	}
	t.done = true
	t.txn.Discard()
}

// newBadgerLogger adapts slog to badger's printf-style logger.
func newBadgerLogger(logger *slog.Logger) badger.Logger {
	return &badgerLogger{logger: logger}
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}
