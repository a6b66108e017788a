package store

import "context"

// Blobs is the persistence boundary the stores flush through.
// Satisfied by repository.BlobRepository.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
