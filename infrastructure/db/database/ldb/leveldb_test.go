package ldb

import (
	"bytes"
	"testing"

	"github.com/snarkpow/snarkpowd/infrastructure/db/database"
)

func TestLevelDBSanity(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestLevelDBSanity")
	defer teardownFunc()

	key := database.MakeBucket([]byte("headers")).Key([]byte("key"))
	value := []byte("value")

	exists, err := ldb.Has(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Has unexpectedly failed: %s", err)
	}
	if exists {
		t.Fatalf("TestLevelDBSanity: Has unexpectedly returned true for an empty database")
	}
	_, err = ldb.Get(key)
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestLevelDBSanity: Get of a missing key returned %v, want ErrNotFound", err)
	}

	err = ldb.Put(key, value)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Put unexpectedly failed: %s", err)
	}
	got, err := ldb.Get(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Get unexpectedly failed: %s", err)
	}
	if !bytes.Equal(got, value) {
		t.Fatalf("TestLevelDBSanity: Get returned %s, want %s", got, value)
	}
	exists, err = ldb.Has(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Has unexpectedly failed: %s", err)
	}
	if !exists {
		t.Fatalf("TestLevelDBSanity: Has unexpectedly returned false after Put")
	}

	err = ldb.Delete(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Delete unexpectedly failed: %s", err)
	}
	_, err = ldb.Get(key)
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestLevelDBSanity: Get after Delete returned %v, want ErrNotFound", err)
	}

	// Deleting a missing key is not an error
	err = ldb.Delete(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: second Delete unexpectedly failed: %s", err)
	}
}

func TestLevelDBReopen(t *testing.T) {
	path := t.TempDir()
	key := database.MakeBucket([]byte("tips")).Key([]byte("testnet"))

	ldb, err := NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("TestLevelDBReopen: NewLevelDB unexpectedly failed: %s", err)
	}
	err = ldb.Put(key, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("TestLevelDBReopen: Put unexpectedly failed: %s", err)
	}
	err = ldb.Close()
	if err != nil {
		t.Fatalf("TestLevelDBReopen: Close unexpectedly failed: %s", err)
	}

	ldb, err = NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("TestLevelDBReopen: NewLevelDB unexpectedly failed on reopen: %s", err)
	}
	defer ldb.Close()
	got, err := ldb.Get(key)
	if err != nil {
		t.Fatalf("TestLevelDBReopen: Get unexpectedly failed: %s", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("TestLevelDBReopen: Get returned %x after reopen", got)
	}
}
