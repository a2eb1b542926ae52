package distributed

import "github.com/apple/foundationdb/bindings/go/src/fdb"

// keyValue is an engine-agnostic copy of one row returned by a range scan.
type keyValue struct {
	Key   []byte
	Value []byte
}

// backend is the minimal slice of a FoundationDB transaction's behavior
// Engine and txn depend on. Abstracting it behind an interface lets the
// retry loop and range-scan logic be unit tested against a fake backend
// without a running FoundationDB cluster; fdbBackend is the only
// production implementation.
type backend interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte)
	Clear(key []byte)
	Add(key []byte, encodedDelta []byte)
	GetRange(begin, end []byte, limit int, reverse bool) ([]keyValue, error)
	Commit() error
	OnError(err error) error
}

// fdbBackend adapts a live *fdb.Transaction to the backend interface.
type fdbBackend struct {
	tr fdb.Transaction
}

func (b *fdbBackend) Get(key []byte) ([]byte, error) {
	return b.tr.Get(fdb.Key(key)).Get()
}

func (b *fdbBackend) Set(key, value []byte) { b.tr.Set(fdb.Key(key), value) }

func (b *fdbBackend) Clear(key []byte) { b.tr.Clear(fdb.Key(key)) }

func (b *fdbBackend) Add(key []byte, encodedDelta []byte) {
	b.tr.Add(fdb.Key(key), encodedDelta)
}

func (b *fdbBackend) GetRange(begin, end []byte, limit int, reverse bool) ([]keyValue, error) {
	kr := fdb.KeyRange{Begin: fdb.Key(begin), End: fdb.Key(end)}
	raw, err := b.tr.GetRange(kr, fdb.RangeOptions{Limit: limit, Reverse: reverse}).GetSliceWithError()
	if err != nil {
		return nil, err
	}
	out := make([]keyValue, len(raw))
	for i, kv := range raw {
		out[i] = keyValue{Key: kv.Key, Value: kv.Value}
	}
	return out, nil
}

func (b *fdbBackend) Commit() error { return b.tr.Commit().Get() }

func (b *fdbBackend) OnError(err error) error {
	fdbErr, ok := err.(fdb.Error)
	if !ok {
		return err
	}
	return b.tr.OnError(fdbErr).Get()
}
