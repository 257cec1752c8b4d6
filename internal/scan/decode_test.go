package scan

import (
	"encoding/json"
	"testing"
	"time"

	"sera-scan-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecordDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("missing amount persists zero", func(t *testing.T) {
		row := DecodeRecord(model.RawItem{"name": "minecraft:stone"}, now)
		assert.Equal(t, int64(0), row.Amount)
	})

	t.Run("displayName falls back to name", func(t *testing.T) {
		row := DecodeRecord(model.RawItem{"name": "x"}, now)
		assert.Equal(t, "x", row.DisplayName)
	})

	t.Run("empty displayName falls back to name", func(t *testing.T) {
		row := DecodeRecord(model.RawItem{"displayName": "", "name": "x"}, now)
		assert.Equal(t, "x", row.DisplayName)
	})

	t.Run("missing both persists sentinel", func(t *testing.T) {
		row := DecodeRecord(model.RawItem{}, now)
		assert.Equal(t, SentinelName, row.DisplayName)
		assert.Equal(t, "", row.Name)
	})

	t.Run("missing craftable flag persists false", func(t *testing.T) {
		row := DecodeRecord(model.RawItem{"isCraftable": "yes"}, now)
		assert.False(t, row.IsCraftable)
	})

	t.Run("scan date is the server stamp", func(t *testing.T) {
		row := DecodeRecord(model.RawItem{"scan_date": "1999-01-01T00:00:00Z"}, now)
		assert.Equal(t, now, row.ScanDate)
	})
}

func TestDecodeRecordFingerprint(t *testing.T) {
	now := time.Now()

	t.Run("large numeric fingerprint survives intact", func(t *testing.T) {
		row := DecodeRecord(model.RawItem{"fingerprint": json.Number("9223372036854775999")}, now)
		require.NotNil(t, row.Fingerprint)
		assert.Equal(t, "9223372036854775999", *row.Fingerprint)
	})

	t.Run("absent fingerprint persists NULL", func(t *testing.T) {
		row := DecodeRecord(model.RawItem{"name": "x"}, now)
		assert.Nil(t, row.Fingerprint)
	})
}

func TestDecodeRecordNBT(t *testing.T) {
	now := time.Now()

	row := DecodeRecord(model.RawItem{"nbt": map[string]interface{}{"Damage": json.Number("3")}}, now)
	assert.JSONEq(t, `{"Damage":3}`, row.NBT)

	row = DecodeRecord(model.RawItem{}, now)
	assert.Equal(t, "null", row.NBT)
}

func TestDecodeRecordTags(t *testing.T) {
	now := time.Now()

	row := DecodeRecord(model.RawItem{
		"tags": []interface{}{"forge:ingots", json.Number("2"), "forge:ingots/iron", nil},
	}, now)
	assert.Equal(t, `{"forge:ingots","forge:ingots/iron"}`, row.Tags)

	row = DecodeRecord(model.RawItem{"tags": map[string]interface{}{}}, now)
	assert.Equal(t, "{}", row.Tags)

	row = DecodeRecord(model.RawItem{}, now)
	assert.Equal(t, "{}", row.Tags)
}

func TestDecodeRecordAmounts(t *testing.T) {
	now := time.Now()

	row := DecodeRecord(model.RawItem{"amount": json.Number("4096")}, now)
	assert.Equal(t, int64(4096), row.Amount)

	row = DecodeRecord(model.RawItem{"amount": "lots"}, now)
	assert.Equal(t, int64(0), row.Amount)

	row = DecodeRecord(model.RawItem{"amount": json.Number("1e300")}, now)
	assert.Equal(t, int64(0), row.Amount)
}

func TestDecodeRecordsStampsUniformly(t *testing.T) {
	now := time.Now()
	rows := DecodeRecords([]model.RawItem{{"name": "a"}, {"name": "b"}}, now)
	require.Len(t, rows, 2)
	assert.Equal(t, now, rows[0].ScanDate)
	assert.Equal(t, now, rows[1].ScanDate)
	assert.Equal(t, "a", rows[0].Name)
	assert.Equal(t, "b", rows[1].Name)
}
