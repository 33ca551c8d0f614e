package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"A1", "A2", "B1"}, splitCSV("A1, A2 ,B1"))
	assert.Nil(t, splitCSV(""))
	assert.Nil(t, splitCSV(" , ,"))
}

func TestIsAdminHandle(t *testing.T) {
	cfg := Config{AdminHandles: normalizeHandles([]string{"@Boss", "helpdesk"})}

	assert.True(t, cfg.IsAdminHandle("boss"))
	assert.True(t, cfg.IsAdminHandle("@BOSS"))
	assert.True(t, cfg.IsAdminHandle("HelpDesk"))
	assert.False(t, cfg.IsAdminHandle("intern"))
}
