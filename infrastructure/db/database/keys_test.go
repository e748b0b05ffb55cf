package database

import (
	"bytes"
	"testing"
)

func TestBucketPath(t *testing.T) {
	tests := []struct {
		bucketByteSlices [][]byte
		expectedPath     []byte
	}{
		{
			bucketByteSlices: [][]byte{[]byte("hello")},
			expectedPath:     []byte("hello/"),
		},
		{
			bucketByteSlices: [][]byte{[]byte("hello"), []byte("world")},
			expectedPath:     []byte("hello/world/"),
		},
	}

	for _, test := range tests {
		// Build a result using the MakeBucket function alone
		resultKey := MakeBucket(test.bucketByteSlices...).Path()
		if !bytes.Equal(resultKey, test.expectedPath) {
			t.Errorf("TestBucketPath: got wrong path using MakeBucket. "+
				"Want: %s, got: %s", string(test.expectedPath), string(resultKey))
		}

		// Build a result using sub-Bucket calls
		bucket := MakeBucket()
		for _, bucketBytes := range test.bucketByteSlices {
			bucket = bucket.Bucket(bucketBytes)
		}
		resultKey = bucket.Path()
		if !bytes.Equal(resultKey, test.expectedPath) {
			t.Errorf("TestBucketPath: got wrong path using sub-Bucket "+
				"calls. Want: %s, got: %s", string(test.expectedPath), string(resultKey))
		}
	}
}

func TestBucketKey(t *testing.T) {
	bucket := MakeBucket([]byte("headers"), []byte("testnet"))
	key := bucket.Key([]byte("abc"))
	if !bytes.Equal(key.Bytes(), []byte("headers/testnet/abc")) {
		t.Fatalf("TestBucketKey: unexpected key bytes %s", key.Bytes())
	}
	if key.Bucket() != bucket {
		t.Fatalf("TestBucketKey: key does not reference its bucket")
	}
	if !bytes.Equal(key.Suffix(), []byte("abc")) {
		t.Fatalf("TestBucketKey: unexpected suffix %s", key.Suffix())
	}
}
