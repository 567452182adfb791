package store

import "context"

// Collection names used by the stores when snapshotting through a
// Persister.  Durable layouts key records by these names.
const (
	CollectionStudents   = "students"
	CollectionAttendance = "attendance"
	CollectionFaceData   = "face_data"
	CollectionUsers      = "users"
)

// Persister is the durable backend behind the in-memory stores.  Each
// store serializes its whole collection and hands it over on every
// mutation; Load restores it at startup.  Implementations must treat
// Save as replace-the-collection, and Load of a collection that was
// never saved must report found=false with no error.
//
// A Persister does not need to be safe for concurrent use on the same
// collection: every store serializes its own saves under its write
// lock, and distinct collections belong to distinct stores.
type Persister interface {
	Save(ctx context.Context, collection string, v any) error
	Load(ctx context.Context, collection string, v any) (found bool, err error)
}

// NopPersister discards saves and loads nothing.  Used in tests and
// when the service runs purely in memory.
type NopPersister struct{}

func (NopPersister) Save(ctx context.Context, collection string, v any) error { return nil }

func (NopPersister) Load(ctx context.Context, collection string, v any) (bool, error) {
	return false, nil
}
