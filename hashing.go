package main

import (
	"encoding/hex"
	"hash"
	"hash/fnv"
	"sync"
)

var hasherPool = &sync.Pool{
	New: func() any {
		return fnv.New128()
	},
}

func putHasher(hasher hash.Hash) {
	hasher.Reset()
	hasherPool.Put(hasher)
}

// hashContent identifies an input by the FNV-128 digest of its bytes.
func hashContent(content []byte) string {
	hasher := hasherPool.Get().(hash.Hash)
	defer putHasher(hasher)
	hasher.Write(content)
	return hex.EncodeToString(hasher.Sum(nil))
}
