package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa-backend/internal/platform/apierr"
)

func validReq() SaveSessionRequest {
	return SaveSessionRequest{
		ClassID:       "c1",
		TeacherID:     "t1",
		MonthYear:     "2026-01",
		DayNumber:     15,
		SessionNumber: 3,
		Records: []SessionRecord{
			{StudentID: "s1", Status: "present"},
			{StudentID: "s2", Status: "absent"},
		},
	}
}

func TestValidateSaveSession_OK(t *testing.T) {
	assert.NoError(t, validateSaveSession(validReq()))
}

func TestValidateSaveSession_BadMonth(t *testing.T) {
	req := validReq()
	req.MonthYear = "2026-13"
	err := validateSaveSession(req)
	require.Error(t, err)
	assert.Equal(t, 400, apierr.ToHTTPStatus(err))
}

func TestValidateSaveSession_DayAndSessionBounds(t *testing.T) {
	req := validReq()
	req.DayNumber = 0
	assert.Error(t, validateSaveSession(req))

	req = validReq()
	req.DayNumber = 32
	assert.Error(t, validateSaveSession(req))

	req = validReq()
	req.SessionNumber = 9
	assert.Error(t, validateSaveSession(req))
}

func TestValidateSaveSession_BadStatus(t *testing.T) {
	req := validReq()
	req.Records[0].Status = "late"
	assert.Error(t, validateSaveSession(req))
}

func TestValidateSaveSession_DuplicateStudent(t *testing.T) {
	req := validReq()
	req.Records = append(req.Records, SessionRecord{StudentID: "s1", Status: "absent"})
	err := validateSaveSession(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestValidateSaveSession_EmptyRecords(t *testing.T) {
	req := validReq()
	req.Records = nil
	assert.Error(t, validateSaveSession(req))
}
