package persist_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formedit/pkg/persist"
	"github.com/goliatone/go-formedit/pkg/persist/memstore"
)

func sampleState() persist.FormEditState {
	ts := time.UnixMilli(1709285400000)
	return persist.FormEditState{
		Changes:          map[string]any{"name": "Ada", "dependents.0.name": "Bob"},
		ExpandedSections: []string{"info", "coverage"},
		LastChanged:      &ts,
		EditMode:         true,
	}
}

func TestBridge_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()
	bridge, err := persist.NewBridge(kv)
	require.NoError(t, err)

	_, ok, err := bridge.Load(ctx, "claim-1")
	require.NoError(t, err)
	require.False(t, ok)

	state := sampleState()
	require.NoError(t, bridge.Save(ctx, "claim-1", state))
	require.Equal(t, []string{"dntel-form-claim-1"}, kv.Keys())

	got, ok, err := bridge.Load(ctx, "claim-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Equal(state), "got %s want %s", got, state)
}

func TestBridge_BlobShape(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()
	bridge, err := persist.NewBridge(kv)
	require.NoError(t, err)
	require.NoError(t, bridge.Save(ctx, "f", sampleState()))

	blob, _, err := kv.Get(ctx, "dntel-form-f")
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(blob, &raw))

	want := map[string]any{
		"changes":          map[string]any{"name": "Ada", "dependents.0.name": "Bob"},
		"expandedSections": []any{"info", "coverage"},
		"lastChanged":      float64(1709285400000),
		"editMode":         true,
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Fatalf("blob mismatch (-want +got):\n%s", diff)
	}
}

func TestBridge_CorruptStateIsAbsent(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	kv := memstore.New()
	bridge, err := persist.NewBridge(kv, persist.WithLogger(zap.New(core)))
	require.NoError(t, err)

	for _, blob := range []string{`not json`, `[1,2]`, `{"changes": "x"}`, `{"lastChanged": "yesterday"}`} {
		require.NoError(t, kv.Put(ctx, "dntel-form-f", []byte(blob)))
		_, ok, err := bridge.Load(ctx, "f")
		require.NoError(t, err, blob)
		require.False(t, ok, blob)
	}
	require.Equal(t, 4, logs.FilterMessage("discarding unreadable form state").Len())
}

func TestBridge_LegacyFallback(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()
	bridge, err := persist.NewBridge(kv)
	require.NoError(t, err)

	legacy := `{"changes":{"name":"Old"},"expandedSections":["info"],"lastChanged":null,"editMode":false}`
	require.NoError(t, kv.Put(ctx, "form-f", []byte(legacy)))

	got, ok, err := bridge.Load(ctx, "f")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Old", got.Changes["name"])
	require.Nil(t, got.LastChanged)

	require.NoError(t, bridge.Save(ctx, "f", sampleState()))
	got, _, err = bridge.Load(ctx, "f")
	require.NoError(t, err)
	require.Equal(t, "Ada", got.Changes["name"], "primary key must win over legacy")

	require.NoError(t, bridge.Clear(ctx, "f"))
	require.Empty(t, kv.Keys())

	noLegacy, err := persist.NewBridge(kv, persist.WithLegacyPrefix(""))
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, "form-f", []byte(legacy)))
	_, ok, err = noLegacy.Load(ctx, "f")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBridge_CustomPrefix(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()
	bridge, err := persist.NewBridge(kv, persist.WithKeyPrefix("tenant-a/"))
	require.NoError(t, err)
	require.NoError(t, bridge.Save(ctx, "f", sampleState()))
	require.Equal(t, []string{"tenant-a/f"}, kv.Keys())
}

func TestBridge_Errors(t *testing.T) {
	_, err := persist.NewBridge(nil)
	require.ErrorIs(t, err, persist.ErrNoStore)

	bridge, err := persist.NewBridge(failingKV{})
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = bridge.Load(ctx, "")
	require.ErrorIs(t, err, persist.ErrEmptyFormID)
	_, _, err = bridge.Load(ctx, "f")
	require.ErrorIs(t, err, errBoom)
	require.ErrorIs(t, bridge.Save(ctx, "f", sampleState()), errBoom)
	require.ErrorIs(t, bridge.Clear(ctx, "f"), errBoom)
}

func TestBridge_SavesAreSerialisedPerForm(t *testing.T) {
	ctx := context.Background()
	kv := &slowKV{Store: memstore.New()}
	bridge, err := persist.NewBridge(kv)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- bridge.Save(ctx, "f", persist.FormEditState{Changes: map[string]any{"n": fmt.Sprint(i)}})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.EqualValues(t, 1, kv.maxInFlight.Load())
	require.EqualValues(t, 16, kv.puts.Load())

	// Sequential saves land in call order.
	for i := 0; i < 5; i++ {
		require.NoError(t, bridge.Save(ctx, "f", persist.FormEditState{Changes: map[string]any{"n": fmt.Sprint(i)}}))
	}
	got, _, err := bridge.Load(ctx, "f")
	require.NoError(t, err)
	require.Equal(t, "4", got.Changes["n"])
}

func TestBridge_SaveHonoursContext(t *testing.T) {
	kv := &slowKV{Store: memstore.New(), block: make(chan struct{})}
	bridge, err := persist.NewBridge(kv)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- bridge.Save(context.Background(), "f", sampleState()) }()
	for kv.inFlight.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, bridge.Save(ctx, "f", sampleState()), context.DeadlineExceeded)

	close(kv.block)
	require.NoError(t, <-done)
}

var errBoom = errors.New("boom")

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errBoom }
func (failingKV) Put(context.Context, string, []byte) error         { return errBoom }
func (failingKV) Delete(context.Context, string) error              { return errBoom }

type slowKV struct {
	*memstore.Store
	block       chan struct{}
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	puts        atomic.Int32
}

func (s *slowKV) Put(ctx context.Context, key string, value []byte) error {
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		seen := s.maxInFlight.Load()
		if current <= seen || s.maxInFlight.CompareAndSwap(seen, current) {
			break
		}
	}
	if s.block != nil {
		<-s.block
	} else {
		time.Sleep(time.Millisecond)
	}
	s.puts.Add(1)
	return s.Store.Put(ctx, key, value)
}
