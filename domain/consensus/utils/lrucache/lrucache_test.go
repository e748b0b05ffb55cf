package lrucache

import (
	"testing"

	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
)

func TestLRUCache(t *testing.T) {
	cache := New(2)

	hashes := make([]*externalapi.BlockHeaderHash, 3)
	for i := range hashes {
		hashes[i] = &externalapi.BlockHeaderHash{byte(i + 1)}
		cache.Add(hashes[i], &externalapi.BlockHeader{Metadata: externalapi.BlockHeaderMetadata{Nonce: uint32(i)}})
	}

	if cache.Len() != 2 {
		t.Fatalf("TestLRUCache: cache holds %d entries, want 2", cache.Len())
	}
	header, ok := cache.Get(hashes[2])
	if !ok {
		t.Fatalf("TestLRUCache: the last added entry was evicted")
	}
	if header.Metadata.Nonce != 2 {
		t.Fatalf("TestLRUCache: got nonce %d, want 2", header.Metadata.Nonce)
	}

	cache.Remove(hashes[2])
	if cache.Has(hashes[2]) {
		t.Fatalf("TestLRUCache: entry still present after Remove")
	}
}

func TestLRUCacheZeroCapacity(t *testing.T) {
	cache := New(0)
	hash := &externalapi.BlockHeaderHash{1}
	cache.Add(hash, &externalapi.BlockHeader{})
	if cache.Has(hash) {
		t.Fatalf("TestLRUCacheZeroCapacity: a zero capacity cache stored an entry")
	}
}
