package subscriptions

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 出欠テーブルを読むクエリの列名がスキーマに実在すること。
// 列名のずれはDBまで行かないと気付けないのでここで突き合わせる。
func TestSessionMarksQueryMatchesSchema(t *testing.T) {
	buf, err := os.ReadFile("../../schema.sql")
	require.NoError(t, err)

	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS attendances \((.*?)\) ENGINE`)
	m := re.FindStringSubmatch(string(buf))
	require.NotNil(t, m)
	ddl := m[1]

	for _, col := range []string{"student_id", "session_number", "status", "month_year", "recorded_at", "id"} {
		assert.Contains(t, sessionMarksQuery, col)
		assert.Regexp(t, `(?m)^\s*`+col+`\s`, ddl, "attendances に列 %s が無い", col)
	}
}

func TestSessionMarksOrderIsDeterministic(t *testing.T) {
	// 同時刻のレコードでも順序が揺れないよう、主キーで二次ソートする
	assert.Contains(t, sessionMarksQuery, "ORDER BY recorded_at ASC, id ASC")
}
