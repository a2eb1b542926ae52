package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestFakeEngineGetSet(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()

	t.Run("get on empty engine", func(t *testing.T) {
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			_, ok, err := tx.Get(ctx, []byte("missing"))
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if ok {
				t.Errorf("expected missing key to report ok=false")
			}
			return nil, nil
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
	})

	t.Run("set then get in the same transaction", func(t *testing.T) {
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			if err := tx.Set([]byte("key1"), []byte("value1")); err != nil {
				t.Fatalf("set: %v", err)
			}
			v, ok, err := tx.Get(ctx, []byte("key1"))
			if err != nil || !ok {
				t.Fatalf("get after set: v=%v ok=%v err=%v", v, ok, err)
			}
			if !bytes.Equal(v, []byte("value1")) {
				t.Errorf("expected value1, got %s", v)
			}
			return nil, nil
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
	})

	t.Run("writes are visible to a later transaction", func(t *testing.T) {
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			v, ok, err := tx.Get(ctx, []byte("key1"))
			if err != nil || !ok {
				t.Fatalf("get: v=%v ok=%v err=%v", v, ok, err)
			}
			return nil, nil
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
	})

	t.Run("a failed transaction discards its writes", func(t *testing.T) {
		boom := bytes.ErrTooLarge
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			_ = tx.Set([]byte("doomed"), []byte("x"))
			return nil, boom
		})
		if err != boom {
			t.Fatalf("expected boom, got %v", err)
		}

		_, err = e.Transact(ctx, func(tx Txn) (any, error) {
			_, ok, _ := tx.Get(ctx, []byte("doomed"))
			if ok {
				t.Errorf("expected discarded write to be absent")
			}
			return nil, nil
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
	})

	t.Run("clear removes a key", func(t *testing.T) {
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			_ = tx.Set([]byte("key2"), []byte("v"))
			_ = tx.Clear([]byte("key2"))
			_, ok, _ := tx.Get(ctx, []byte("key2"))
			if ok {
				t.Errorf("expected key2 to be cleared within the same transaction")
			}
			return nil, nil
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
	})
}

func TestFakeEngineForEachInRange(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()

	_, err := e.Transact(ctx, func(tx Txn) (any, error) {
		for _, k := range []string{"a", "b", "c", "d"} {
			if err := tx.Set([]byte(k), []byte(k+"-value")); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Run("unbounded scan visits every key in order", func(t *testing.T) {
		var got []string
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			return nil, tx.ForEachInRange(ctx, RangeQuery{}, func(k, v []byte) (bool, error) {
				got = append(got, string(k))
				return true, nil
			})
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
		want := []string{"a", "b", "c", "d"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got %v, want %v", got, want)
				break
			}
		}
	})

	t.Run("reverse and limit compose", func(t *testing.T) {
		var got []string
		limit := 2
		q := RangeQuery{Reverse: true, Limit: &limit}
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			return nil, tx.ForEachInRange(ctx, q, func(k, v []byte) (bool, error) {
				got = append(got, string(k))
				return true, nil
			})
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
		want := []string{"d", "c"}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("early stop halts the scan", func(t *testing.T) {
		var got []string
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			return nil, tx.ForEachInRange(ctx, RangeQuery{}, func(k, v []byte) (bool, error) {
				got = append(got, string(k))
				return string(k) != "b", nil
			})
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected scan to stop after 'b', got %v", got)
		}
	})

	t.Run("excluded bound excludes the boundary key", func(t *testing.T) {
		var got []string
		q := RangeQuery{Start: ExcludedBound([]byte("a")), End: ExcludedBound([]byte("d"))}
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			return nil, tx.ForEachInRange(ctx, q, func(k, v []byte) (bool, error) {
				got = append(got, string(k))
				return true, nil
			})
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
		want := []string{"b", "c"}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestFakeEngineCounters(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()

	t.Run("increment creates the counter", func(t *testing.T) {
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			if err := tx.CounterIncrement(ctx, []byte("hits"), 3); err != nil {
				return nil, err
			}
			v, ok, err := tx.CounterGet(ctx, []byte("hits"))
			if err != nil || !ok || v != 3 {
				t.Fatalf("v=%d ok=%v err=%v", v, ok, err)
			}
			return nil, nil
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
	})

	t.Run("increments accumulate across transactions", func(t *testing.T) {
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			return nil, tx.CounterIncrement(ctx, []byte("hits"), 4)
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}

		_, err = e.Transact(ctx, func(tx Txn) (any, error) {
			v, ok, err := tx.CounterGet(ctx, []byte("hits"))
			if err != nil || !ok || v != 7 {
				t.Fatalf("v=%d ok=%v err=%v", v, ok, err)
			}
			return nil, nil
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
	})

	t.Run("decrement lowers the counter", func(t *testing.T) {
		_, err := e.Transact(ctx, func(tx Txn) (any, error) {
			return nil, tx.CounterDecrement(ctx, []byte("hits"), 2)
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}

		_, err = e.Transact(ctx, func(tx Txn) (any, error) {
			v, ok, err := tx.CounterGet(ctx, []byte("hits"))
			if err != nil || !ok || v != 5 {
				t.Fatalf("v=%d ok=%v err=%v", v, ok, err)
			}
			return nil, nil
		})
		if err != nil {
			t.Fatalf("transact: %v", err)
		}
	})
}
