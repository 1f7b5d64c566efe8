package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeParam(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "id", humanizeParam("id"))
	assert.Equal(t, "comment id", humanizeParam("commentId"))
	assert.Equal(t, "entry slug id", humanizeParam("entrySlugId"))
}
