package ldb

import (
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/infrastructure/db/database"
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBTransaction collects writes in a leveldb batch and writes the
// batch in one go on Commit.
type LevelDBTransaction struct {
	db    *LevelDB
	batch *leveldb.Batch

	isClosed bool
}

// Begin begins a new transaction.
func (db *LevelDB) Begin() (database.Transaction, error) {
	transaction := &LevelDBTransaction{
		db:    db,
		batch: new(leveldb.Batch),
	}
	return transaction, nil
}

// Commit writes all buffered changes to the database.
func (tx *LevelDBTransaction) Commit() error {
	if tx.isClosed {
		return errors.New("cannot commit a closed transaction")
	}

	tx.isClosed = true
	err := tx.db.ldb.Write(tx.batch, nil)
	return errors.WithStack(err)
}

// Rollback discards all buffered changes.
func (tx *LevelDBTransaction) Rollback() error {
	if tx.isClosed {
		return errors.New("cannot rollback a closed transaction")
	}

	tx.isClosed = true
	tx.batch.Reset()
	return nil
}

// RollbackUnlessClosed rolls back the transaction if it was neither
// committed nor rolled back yet.
func (tx *LevelDBTransaction) RollbackUnlessClosed() error {
	if tx.isClosed {
		return nil
	}
	return tx.Rollback()
}

// Put sets the value for the given key once the transaction commits.
func (tx *LevelDBTransaction) Put(key *database.Key, value []byte) error {
	if tx.isClosed {
		return errors.New("cannot put into a closed transaction")
	}

	tx.batch.Put(key.Bytes(), value)
	return nil
}

// Delete deletes the given key once the transaction commits.
func (tx *LevelDBTransaction) Delete(key *database.Key) error {
	if tx.isClosed {
		return errors.New("cannot delete from a closed transaction")
	}

	tx.batch.Delete(key.Bytes())
	return nil
}
