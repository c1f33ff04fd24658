package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFinanceCSV(t *testing.T) {
	rep := FinanceReport{
		Month: "2026-01",
		StudentRows: []StudentFinanceRow{
			{StudentID: "s1", FullName: "أحمد بن علي", ClassName: "A", Status: StatusPaid, PaidAt: ts("2026-01-05T10:00:00Z"), Absences: 2},
			{StudentID: "s2", FullName: "S2", ClassName: UnassignedClassName, Status: StatusUnpaid},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFinanceCSV(&buf, rep))

	out := buf.String()
	// Excel対策のBOMが先頭に付く
	assert.True(t, strings.HasPrefix(out, "\uFEFF"), "missing UTF-8 BOM")

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(out, "\uFEFF"), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,class,payment_status,paid_at,absences", lines[0])
	assert.Equal(t, "أحمد بن علي,A,paid,2026-01-05,2", lines[1])
	assert.Equal(t, "S2,unassigned,unpaid,,0", lines[2])
}
