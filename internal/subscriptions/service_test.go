package subscriptions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReceiptNumber(t *testing.T) {
	a := newReceiptNumber()
	b := newReceiptNumber()

	assert.True(t, strings.HasPrefix(a, "RCP-"))
	assert.Len(t, a, len("RCP-")+26) // ULIDは26文字
	assert.NotEqual(t, a, b)
}
