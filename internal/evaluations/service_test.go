package evaluations

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"madrasa-backend/internal/platform/apierr"
)

// ノート長などの入力チェックはDBに触る前に弾かれる
func TestCreateValidation(t *testing.T) {
	svc := &Service{}

	tests := []struct {
		name string
		req  CreateEvaluationRequest
		msg  string
	}{
		{
			name: "ノートが短すぎる",
			req:  CreateEvaluationRequest{StudentID: "s1", TeacherID: "t1", Note: strings.Repeat("a", MinNoteLen-1)},
			msg:  "at least",
		},
		{
			name: "空白だけのノート",
			req:  CreateEvaluationRequest{StudentID: "s1", TeacherID: "t1", Note: "         \t "},
			msg:  "at least",
		},
		{
			name: "ノートが長すぎる",
			req:  CreateEvaluationRequest{StudentID: "s1", TeacherID: "t1", Note: strings.Repeat("あ", MaxNoteLen+1)},
			msg:  "at most",
		},
		{
			name: "マルチバイトはバイト数でなく文字数で数える",
			req:  CreateEvaluationRequest{StudentID: "s1", TeacherID: "t1", Note: strings.Repeat("م", MinNoteLen-1)},
			msg:  "at least",
		},
		{
			name: "teacher_id必須",
			req:  CreateEvaluationRequest{StudentID: "s1", Note: strings.Repeat("a", MinNoteLen)},
			msg:  "teacher_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.Error(t, err)
			api, ok := err.(*apierr.APIError)
			assert.True(t, ok)
			assert.Equal(t, apierr.CodeInvalidArgument, api.Code)
			assert.Contains(t, api.Message, tt.msg)
		})
	}
}
