package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ForCategory(t *testing.T) {
	assert.Equal(t, Standard, ForCategory("1"))
	assert.Equal(t, Aurora, ForCategory("2"))
	assert.Equal(t, Standard, ForCategory(""))
	assert.Equal(t, Standard, ForCategory("999"))
}
