package kernel_test

import (
	"encoding/json"
	"testing"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)


const canonicalID = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID_IsRandomAndValid(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id := kernel.NewUUID()
		require.NoError(t, id.Validate())
		assert.Equal(t, uuid.Version(4), id.Bytes().Version())
		seen[id.String()] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestUUIDFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "canonical", input: canonicalID},
		{name: "braced", input: "{" + canonicalID + "}"},
		{name: "urn", input: "urn:uuid:" + canonicalID},
		{name: "without hyphens", input: "550e8400e29b41d4a716446655440000"},
		{name: "upper case", input: "550E8400-E29B-41D4-A716-446655440000"},
		{name: "empty", input: "", wantErr: true},
		{name: "courier name", input: "courier-7", wantErr: true},
		{name: "truncated", input: "550e8400-e29b-41d4-a716", wantErr: true},
		{name: "trailing garbage", input: canonicalID + "-x", wantErr: true},
		{name: "non hex", input: "550e8400-e29b-41d4-a716-44665544000g", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid UUID format")
				assert.Error(t, id.Validate())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, canonicalID, id.String())
		})
	}
}

func TestUUIDFromBytes(t *testing.T) {
	parsed := uuid.MustParse(canonicalID)

	id, err := kernel.UUIDFromBytes(parsed[:])
	require.NoError(t, err)
	assert.Equal(t, canonicalID, id.String())

	_, err = kernel.UUIDFromBytes(parsed[:4])
	require.ErrorContains(t, err, "invalid UUID format")

	_, err = kernel.UUIDFromBytes(make([]byte, 16))
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_IsEqual(t *testing.T) {
	a, err := kernel.UUIDFromString(canonicalID)
	require.NoError(t, err)
	b, err := kernel.UUIDFromString("urn:uuid:" + canonicalID)
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b))
	assert.Equal(t, a, b)
	assert.False(t, a.IsEqual(kernel.NewUUID()))
	assert.True(t, kernel.UUID{}.IsEqual(kernel.UUID{}))
	assert.False(t, a.IsEqual(kernel.UUID{}))
}

func TestUUID_ZeroValueIsInvalid(t *testing.T) {
	var id kernel.UUID

	require.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
	assert.Equal(t, uuid.Nil.String(), id.String())
}

func TestUUIDFromString_RejectsNil(t *testing.T) {
	_, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestUUIDFromGoogle(t *testing.T) {
	t.Run("adopts a parsed value", func(t *testing.T) {
		raw := uuid.New()
		id, err := kernel.UUIDFromGoogle(raw)

		require.NoError(t, err)
		assert.Equal(t, raw, id.Bytes())
	})

	t.Run("rejects nil", func(t *testing.T) {
		_, err := kernel.UUIDFromGoogle(uuid.Nil)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDsFromStrings(t *testing.T) {
	a := kernel.NewUUID()
	b := kernel.NewUUID()

	t.Run("parses all", func(t *testing.T) {
		ids, err := kernel.UUIDsFromStrings([]string{a.String(), b.String()})

		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.True(t, ids[0].IsEqual(a))
		assert.True(t, ids[1].IsEqual(b))
	})

	t.Run("fails on first invalid", func(t *testing.T) {
		_, err := kernel.UUIDsFromStrings([]string{a.String(), "courier-7"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "courier-7")
	})
}

func TestUUID_TextRoundTrip(t *testing.T) {
	type payload struct {
		CourierID kernel.UUID `json:"courier_id"`
	}

	in := payload{CourierID: kernel.NewUUID()}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), in.CourierID.String())

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, in.CourierID.IsEqual(out.CourierID))

	assert.Error(t, json.Unmarshal([]byte(`{"courier_id":"nope"}`), &out))
}

func TestUUID_Immutability(t *testing.T) {
	t.Run("modifying Bytes() result does not affect original UUID", func(t *testing.T) {
		original := kernel.NewUUID()
		originalString := original.String()

		bytes := original.Bytes()
		for i := range bytes {
			bytes[i] = 0xFF
		}

		assert.Equal(t, originalString, original.String())
		assert.NoError(t, original.Validate())
	})
}
