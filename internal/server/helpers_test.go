package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "idea ID", humanizeParam("idea_id"))
	assert.Equal(t, "parent comment ID", humanizeParam("parent_comment_id"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestInterestList(t *testing.T) {
	assert.Equal(t, []string{"a", " b"}, interestList("a, b"))
	assert.Equal(t, []string{"x", "y"}, interestList([]any{"x", 3, "y"}))
	assert.Nil(t, interestList(nil))
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "a, b", *tagString("a, b"))
	assert.Equal(t, "x,y", *tagString([]any{"x", "y"}))
	assert.Nil(t, tagString(nil))
	assert.Nil(t, tagString(42.0))
}
