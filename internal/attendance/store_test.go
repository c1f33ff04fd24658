package attendance

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// schema.sql から CREATE TABLE ブロックを取り出す
func tableDDL(t *testing.T, table string) string {
	t.Helper()
	buf, err := os.ReadFile("../../schema.sql")
	require.NoError(t, err)

	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \((.*?)\) ENGINE`)
	m := re.FindStringSubmatch(string(buf))
	require.NotNil(t, m, "schema.sql に %s が無い", table)
	return m[1]
}

// SELECT列がスキーマに実在すること。列名のずれはDBまで行かないと気付けないので
// ここで突き合わせる。
func TestSelectColsMatchSchema(t *testing.T) {
	ddl := tableDDL(t, "attendances")

	for _, col := range strings.Split(selectCols, ",") {
		col = strings.TrimSpace(col)
		assert.Regexp(t, `(?m)^\s*`+col+`\s`, ddl, "attendances に列 %s が無い", col)
	}
}
