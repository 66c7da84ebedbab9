package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "bigoffice/pkg/domain-errors"
)

func TestParseOfficerID(t *testing.T) {
	t.Run("valid UUID", func(t *testing.T) {
		raw := uuid.New()
		parsed, err := ParseOfficerID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, OfficerID(raw), parsed)
		assert.Equal(t, raw.String(), parsed.String())
		assert.False(t, parsed.IsNil())
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseOfficerID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := ParseOfficerID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("nil UUID parses, IsNil catches it", func(t *testing.T) {
		parsed, err := ParseOfficerID(uuid.Nil.String())
		require.NoError(t, err)
		assert.True(t, parsed.IsNil())
	})
}

// TestIDJSONEncoding pins the wire shape: IDs serialize as canonical UUID
// strings, not as raw byte arrays, and round-trip through JSON.
func TestIDJSONEncoding(t *testing.T) {
	raw := uuid.New()
	type payload struct {
		RequestID UnmaskRequestID `json:"request_id"`
		OfficerID OfficerID       `json:"officer_id"`
	}

	out, err := json.Marshal(payload{
		RequestID: UnmaskRequestID(raw),
		OfficerID: OfficerID(raw),
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"request_id":"`+raw.String()+`"`)
	assert.Contains(t, string(out), `"officer_id":"`+raw.String()+`"`)

	var back payload
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, OfficerID(raw), back.OfficerID)
	assert.Equal(t, UnmaskRequestID(raw), back.RequestID)
}

func TestParseIDs_AllBoundaryParsers(t *testing.T) {
	raw := uuid.New().String()

	userID, err := ParseUserID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, userID.String())

	officeID, err := ParseOfficeID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, officeID.String())

	designationID, err := ParseDesignationID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, designationID.String())

	requestID, err := ParseUnmaskRequestID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, requestID.String())
}
