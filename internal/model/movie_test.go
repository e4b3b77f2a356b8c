package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenreList(t *testing.T) {
	m := &Movie{Genres: "Horror, Thriller, Animal Horror"}
	assert.Equal(t, []string{"Horror", "Thriller", "Animal Horror"}, m.GenreList())

	empty := &Movie{}
	assert.Empty(t, empty.GenreList())

	messy := &Movie{Genres: " Horror ,, Drama "}
	assert.Equal(t, []string{"Horror", "Drama"}, messy.GenreList())
}

func TestAppendGenre(t *testing.T) {
	m := &Movie{Genres: "Horror"}
	m.AppendGenre(GenreAnimalHorror)
	assert.Equal(t, "Horror, Animal Horror", m.Genres)

	// appending again is a no-op
	m.AppendGenre(GenreAnimalHorror)
	assert.Equal(t, "Horror, Animal Horror", m.Genres)

	// case differences still count as present
	m2 := &Movie{Genres: "animal horror"}
	m2.AppendGenre(GenreAnimalHorror)
	assert.Equal(t, "animal horror", m2.Genres)

	empty := &Movie{}
	empty.AppendGenre(GenreAnimalHorror)
	assert.Equal(t, "Animal Horror", empty.Genres)
}
