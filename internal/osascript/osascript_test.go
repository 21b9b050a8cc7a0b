package osascript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitScriptList(t *testing.T) {
	assert.Equal(t, []string{"Home", "Work", "Birthdays"}, splitScriptList("Home, Work, Birthdays"))
	assert.Equal(t, []string{"Home"}, splitScriptList("Home"))
	assert.Nil(t, splitScriptList(""))
	assert.Equal(t, []string{"Home", "Work"}, splitScriptList("Home, , Work"))
}
