package blockheaderstore

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/ruleerrors"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/blockheader"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/lrucache"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/serialization"
	"github.com/snarkpow/snarkpowd/domain/dagconfig"
	"github.com/snarkpow/snarkpowd/infrastructure/db/database"
)

var bucketName = []byte("block-headers")
var countKeyName = []byte("block-headers-count")
var tipKeyName = []byte("tip")

// ErrAlreadyExists is returned by Put for a header that is already stored.
var ErrAlreadyExists = errors.New("block header already exists")

// Store keeps canonically encoded block headers of one network, keyed by
// header hash, along with the hash of the current chain tip.
type Store struct {
	db     database.Database
	params *dagconfig.Params

	bucket   *database.Bucket
	countKey *database.Key
	tipKey   *database.Key

	cache       *lrucache.LRUCache
	countCached uint64
	tipCached   *externalapi.BlockHeaderHash
}

// New instantiates a new Store for the network defined by params. Each
// network lives under its own prefix so one database can serve several.
func New(db database.Database, params *dagconfig.Params, cacheSize int) (*Store, error) {
	prefix := database.MakeBucket([]byte(params.Name))
	store := &Store{
		db:       db,
		params:   params,
		bucket:   prefix.Bucket(bucketName),
		countKey: prefix.Key(countKeyName),
		tipKey:   prefix.Key(tipKeyName),
		cache:    lrucache.New(cacheSize),
	}

	err := store.initializeCount()
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) initializeCount() error {
	count := uint64(0)
	hasCountBytes, err := s.db.Has(s.countKey)
	if err != nil {
		return err
	}
	if hasCountBytes {
		countBytes, err := s.db.Get(s.countKey)
		if err != nil {
			return err
		}
		err = serialization.ReadElement(bytes.NewReader(countBytes), &count)
		if err != nil {
			return errors.Wrapf(err, "corrupted block header count")
		}
	}
	s.countCached = count
	return nil
}

// Put stores header under its hash and returns the hash. Headers with a proof
// of the wrong width for the network are rejected.
func (s *Store) Put(header *externalapi.BlockHeader) (*externalapi.BlockHeaderHash, error) {
	if header.Proof.Size() != s.params.ProofSize {
		return nil, ruleerrors.NewErrProofWidth(s.params.ProofSize, header.Proof.Size())
	}
	headerBytes, err := blockheader.SerializeToBytes(header)
	if err != nil {
		return nil, err
	}
	hash := s.params.HeaderHashFunc(headerBytes)

	exists, err := s.Has(hash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrapf(ErrAlreadyExists, "block header %s", hash)
	}

	// The header and the count are written in one batch so the count
	// always matches the stored headers.
	count := s.countCached + 1
	countBytes, err := serializeCount(count)
	if err != nil {
		return nil, err
	}
	dbTx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer dbTx.RollbackUnlessClosed()

	err = dbTx.Put(s.hashAsKey(hash), headerBytes)
	if err != nil {
		return nil, err
	}
	err = dbTx.Put(s.countKey, countBytes)
	if err != nil {
		return nil, err
	}
	err = dbTx.Commit()
	if err != nil {
		return nil, err
	}
	s.countCached = count
	s.cache.Add(hash, header.Clone())

	log.Debugf("Stored block header %s (%d headers)", hash, s.countCached)
	return hash, nil
}

// Get returns the header stored under hash. It returns an error satisfying
// database.IsNotFoundError if there is none.
func (s *Store) Get(hash *externalapi.BlockHeaderHash) (*externalapi.BlockHeader, error) {
	if header, ok := s.cache.Get(hash); ok {
		return header.Clone(), nil
	}

	headerBytes, err := s.db.Get(s.hashAsKey(hash))
	if err != nil {
		return nil, err
	}
	header, err := blockheader.DeserializeFromBytes(headerBytes, s.params.ProofSize)
	if err != nil {
		return nil, errors.Wrapf(err, "failed decoding stored block header %s", hash)
	}
	s.cache.Add(hash, header)
	return header.Clone(), nil
}

// Has returns whether a header with the given hash is stored.
func (s *Store) Has(hash *externalapi.BlockHeaderHash) (bool, error) {
	if s.cache.Has(hash) {
		return true, nil
	}
	return s.db.Has(s.hashAsKey(hash))
}

// Count returns the number of stored headers.
func (s *Store) Count() uint64 {
	return s.countCached
}

// Hashes returns the hashes of all stored headers, in key order.
func (s *Store) Hashes() ([]*externalapi.BlockHeaderHash, error) {
	cursor, err := s.db.Cursor(s.bucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	hashes := make([]*externalapi.BlockHeaderHash, 0, s.countCached)
	for ok := cursor.First(); ok; ok = cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return nil, err
		}
		hash, err := externalapi.NewBlockHeaderHashFromByteSlice(key.Suffix())
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

// Tip returns the hash of the chain tip. It returns an error satisfying
// database.IsNotFoundError if no tip was set yet.
func (s *Store) Tip() (*externalapi.BlockHeaderHash, error) {
	if s.tipCached == nil {
		tipBytes, err := s.db.Get(s.tipKey)
		if err != nil {
			return nil, err
		}
		tip, err := externalapi.NewBlockHeaderHashFromByteSlice(tipBytes)
		if err != nil {
			return nil, errors.Wrapf(err, "corrupted chain tip")
		}
		s.tipCached = tip
	}
	tip := *s.tipCached
	return &tip, nil
}

// SetTip makes hash the chain tip. The header must already be stored.
func (s *Store) SetTip(hash *externalapi.BlockHeaderHash) error {
	exists, err := s.Has(hash)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(database.ErrNotFound, "cannot set unknown block header %s as tip", hash)
	}
	err = s.db.Put(s.tipKey, hash[:])
	if err != nil {
		return err
	}
	tip := *hash
	s.tipCached = &tip
	log.Debugf("Chain tip set to %s", hash)
	return nil
}

func serializeCount(count uint64) ([]byte, error) {
	var buf bytes.Buffer
	err := serialization.WriteElement(&buf, count)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Store) hashAsKey(hash *externalapi.BlockHeaderHash) *database.Key {
	return s.bucket.Key(hash[:])
}
