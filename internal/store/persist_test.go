package store

import (
	"context"
	"fmt"
)

// failingPersister rejects saves, either for every collection or for
// one named collection only. Loads always report an empty backend.
type failingPersister struct {
	collection string
}

func (f failingPersister) Save(ctx context.Context, collection string, v any) error {
	if f.collection == "" || f.collection == collection {
		return fmt.Errorf("%w: backend rejected write", ErrStorageUnavailable)
	}
	return nil
}

func (f failingPersister) Load(ctx context.Context, collection string, v any) (bool, error) {
	return false, nil
}
