package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

func TestMission(t *testing.T) {
	assert.Equal(t, "/station/mission/m42", Mission("m42"))
}

func TestParseMission(t *testing.T) {
	id, ok := ParseMission("/station/mission/17")
	require.True(t, ok)
	assert.Equal(t, models.ID("17"), id)

	for _, p := range []string{"/station", "/station/mission/", "/station/mission/1/x", "/"} {
		_, ok := ParseMission(p)
		assert.False(t, ok, p)
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory()
	assert.Equal(t, Home, h.Current())

	var seen []string
	h.OnNavigate(func(p string) { seen = append(seen, p) })

	h.Navigate(Station)
	h.Navigate(Mission("5"))

	assert.Equal(t, "/station/mission/5", h.Current())
	assert.Equal(t, []string{Home, Station, "/station/mission/5"}, h.Entries())
	assert.Equal(t, []string{Station, "/station/mission/5"}, seen)
}
