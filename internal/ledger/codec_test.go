package ledger

import (
	"context"
	"testing"
	"time"

	"lavish/internal/core"
	"lavish/internal/log"
	"lavish/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeShape(t *testing.T) {
	data, err := Encode([]core.Record{{ID: 1700000000000, Description: "Coffee", Amount: 4.5, Type: core.Expense}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1700000000000,"desc":"Coffee","amount":4.5,"type":"expense"}]`, string(data))

	empty, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestEncodeDecodeByteForByte(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	s, err := Open(ctx, NewSlotPersister(slot, "", log.Discard()), WithLogger(log.Discard()))
	require.NoError(t, err)
	_, err = s.Add(ctx, "Fish & <chips>", 12.35, core.Expense)
	require.NoError(t, err)
	_, err = s.Add(ctx, "Refund", 0.1, core.Income)
	require.NoError(t, err)

	persisted, ok, err := slot.Get(ctx, storage.DefaultSlotName)
	require.NoError(t, err)
	require.True(t, ok)

	records, err := Decode(persisted)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Fish & <chips>", records[0].Description)

	again, err := Encode(records)
	require.NoError(t, err)
	assert.Equal(t, string(persisted), string(again))
}

func TestDecodeNull(t *testing.T) {
	records, err := Decode([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSlotPersisterLoad(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		payload []byte
		want    int
	}{
		{"absent", nil, 0},
		{"malformed", []byte("{not json"), 0},
		{"wrong shape", []byte(`{"id":1}`), 0},
		{"valid", []byte(`[{"id":1,"desc":"a","amount":1,"type":"income"}]`), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := storage.NewMemorySlot()
			if tt.payload != nil {
				require.NoError(t, slot.Put(ctx, storage.DefaultSlotName, tt.payload))
			}
			p := NewSlotPersister(slot, "", log.Discard())

			records, err := p.Load(ctx)
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestIDGeneratorObserve(t *testing.T) {
	g := NewIDGenerator(fixedClock(time.UnixMilli(10)))
	g.Observe(100)
	assert.Equal(t, int64(101), g.Next())
	g.Observe(50)
	assert.Equal(t, int64(102), g.Next())
}
