package storage

import (
	"testing"
	"time"

	"github.com/kotaelabs/kotae/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportRecordRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	record := &core.SupportRecord{
		Id:        core.IDFromContent("https://example.com/sim-unlock"),
		Title:     "SIMロック解除方法",
		URL:       "https://example.com/sim-unlock",
		Vector:    []float32{0.25, -0.5, 0.125},
		TitleHash: core.IDFromContent("SIMロック解除方法"),
		Metadata:  map[string]string{"category": "sim", "lang": "ja"},
		Seq:       42,
		InsertedAt: now,
		UpdatedAt:  now,
	}

	data := MarshalSupportRecord(record)
	got, err := UnmarshalSupportRecord(data)
	require.NoError(t, err)

	assert.Equal(t, record.Id, got.Id)
	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.URL, got.URL)
	assert.Equal(t, record.Vector, got.Vector)
	assert.Equal(t, record.TitleHash, got.TitleHash)
	assert.Equal(t, record.Metadata, got.Metadata)
	assert.Equal(t, record.Seq, got.Seq)
	assert.True(t, record.InsertedAt.Equal(got.InsertedAt))
	assert.True(t, record.UpdatedAt.Equal(got.UpdatedAt))
}

func TestSupportRecordRoundTrip_EmptyOptionalFields(t *testing.T) {
	record := &core.SupportRecord{
		Title: "料金プラン",
		URL:   "https://example.com/plans",
	}

	data := MarshalSupportRecord(record)
	got, err := UnmarshalSupportRecord(data)
	require.NoError(t, err)

	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.URL, got.URL)
	assert.Empty(t, got.Vector)
	assert.Empty(t, got.Metadata)
}

func TestUnmarshalSupportRecord_Truncated(t *testing.T) {
	record := &core.SupportRecord{
		Title:  "料金プラン",
		URL:    "https://example.com/plans",
		Vector: []float32{0.1, 0.2},
	}

	data := MarshalSupportRecord(record)
	_, err := UnmarshalSupportRecord(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestIDRoundTrip(t *testing.T) {
	id := core.IDFromContent("https://example.com/plans")
	got, err := UnmarshalID(MarshalID(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
