package ldb

import (
	"bytes"
	"testing"

	"github.com/snarkpow/snarkpowd/infrastructure/db/database"
)

func TestTransactionCommit(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestTransactionCommit")
	defer teardownFunc()

	bucket := database.MakeBucket([]byte("headers"))
	firstKey := bucket.Key([]byte("first"))
	secondKey := bucket.Key([]byte("second"))
	err := ldb.Put(secondKey, []byte("stale"))
	if err != nil {
		t.Fatalf("TestTransactionCommit: Put unexpectedly failed: %s", err)
	}

	dbTx, err := ldb.Begin()
	if err != nil {
		t.Fatalf("TestTransactionCommit: Begin unexpectedly failed: %s", err)
	}
	defer dbTx.RollbackUnlessClosed()

	err = dbTx.Put(firstKey, []byte("value"))
	if err != nil {
		t.Fatalf("TestTransactionCommit: Put unexpectedly failed: %s", err)
	}
	err = dbTx.Delete(secondKey)
	if err != nil {
		t.Fatalf("TestTransactionCommit: Delete unexpectedly failed: %s", err)
	}

	exists, err := ldb.Has(firstKey)
	if err != nil {
		t.Fatalf("TestTransactionCommit: Has unexpectedly failed: %s", err)
	}
	if exists {
		t.Fatalf("TestTransactionCommit: uncommitted Put is visible")
	}

	err = dbTx.Commit()
	if err != nil {
		t.Fatalf("TestTransactionCommit: Commit unexpectedly failed: %s", err)
	}
	value, err := ldb.Get(firstKey)
	if err != nil {
		t.Fatalf("TestTransactionCommit: Get unexpectedly failed: %s", err)
	}
	if !bytes.Equal(value, []byte("value")) {
		t.Fatalf("TestTransactionCommit: Get returned %s, want value", value)
	}
	_, err = ldb.Get(secondKey)
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestTransactionCommit: deleted key returned %v, want ErrNotFound", err)
	}

	err = dbTx.Put(firstKey, []byte("late"))
	if err == nil {
		t.Fatalf("TestTransactionCommit: Put into a committed transaction unexpectedly succeeded")
	}
	err = dbTx.Commit()
	if err == nil {
		t.Fatalf("TestTransactionCommit: second Commit unexpectedly succeeded")
	}
}

func TestTransactionRollback(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestTransactionRollback")
	defer teardownFunc()

	key := database.MakeBucket([]byte("headers")).Key([]byte("key"))
	dbTx, err := ldb.Begin()
	if err != nil {
		t.Fatalf("TestTransactionRollback: Begin unexpectedly failed: %s", err)
	}
	err = dbTx.Put(key, []byte("value"))
	if err != nil {
		t.Fatalf("TestTransactionRollback: Put unexpectedly failed: %s", err)
	}
	err = dbTx.Rollback()
	if err != nil {
		t.Fatalf("TestTransactionRollback: Rollback unexpectedly failed: %s", err)
	}

	exists, err := ldb.Has(key)
	if err != nil {
		t.Fatalf("TestTransactionRollback: Has unexpectedly failed: %s", err)
	}
	if exists {
		t.Fatalf("TestTransactionRollback: rolled back Put is visible")
	}

	err = dbTx.Rollback()
	if err == nil {
		t.Fatalf("TestTransactionRollback: second Rollback unexpectedly succeeded")
	}
	err = dbTx.RollbackUnlessClosed()
	if err != nil {
		t.Fatalf("TestTransactionRollback: RollbackUnlessClosed of a closed transaction failed: %s", err)
	}
}
