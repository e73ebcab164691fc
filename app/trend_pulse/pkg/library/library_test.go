package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/model"
)

func idea(title string) *model.BusinessIdea {
	return &model.BusinessIdea{Title: title}
}

func TestHistoryNavigation(t *testing.T) {
	lib, err := New(3)
	require.NoError(t, err)

	_, ok := lib.Current()
	assert.False(t, ok)

	a := lib.Push(idea("A"))
	assert.NotEmpty(t, a.ID)
	lib.Push(idea("B"))
	lib.Push(idea("C"))

	cur, ok := lib.Current()
	require.True(t, ok)
	assert.Equal(t, "C", cur.Title)

	_, ok = lib.Next()
	assert.False(t, ok, "at newest idea, caller generates a new one")

	prev, ok := lib.Previous()
	require.True(t, ok)
	assert.Equal(t, "B", prev.Title)
	prev, _ = lib.Previous()
	assert.Equal(t, "A", prev.Title)
	_, ok = lib.Previous()
	assert.False(t, ok)

	next, ok := lib.Next()
	require.True(t, ok)
	assert.Equal(t, "B", next.Title)
}

func TestHistoryEviction(t *testing.T) {
	lib, err := New(2)
	require.NoError(t, err)
	a := lib.Push(idea("A"))
	lib.Push(idea("B"))
	lib.Push(idea("C"))

	var titles []string
	for _, i := range lib.History() {
		titles = append(titles, i.Title)
	}
	assert.Equal(t, []string{"B", "C"}, titles)
	_, err = lib.Idea(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveDeduplicatesByTitle(t *testing.T) {
	lib, err := New(5)
	require.NoError(t, err)
	src := lib.Push(idea("Pet Triage"))

	saved, added := lib.Save(src)
	require.True(t, added)
	assert.NotEqual(t, src.ID, saved.ID)

	again, added := lib.Save(idea("Pet Triage"))
	assert.False(t, added)
	assert.Equal(t, saved.ID, again.ID)
	assert.Len(t, lib.Saved(), 1)

	got, err := lib.Idea(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pet Triage", got.Title)
}

func TestDeleteAndView(t *testing.T) {
	lib, err := New(5)
	require.NoError(t, err)
	s1, _ := lib.Save(idea("One"))
	s2, _ := lib.Save(idea("Two"))

	viewed, err := lib.View(s2.ID)
	require.NoError(t, err)
	cur, _ := lib.Current()
	assert.Equal(t, viewed.ID, cur.ID)
	assert.Len(t, lib.History(), 1)

	require.NoError(t, lib.Delete(s1.ID))
	assert.ErrorIs(t, lib.Delete(s1.ID), ErrNotFound)
	require.Len(t, lib.Saved(), 1)
	assert.Equal(t, "Two", lib.Saved()[0].Title)

	_, err = lib.View("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRejectsBadSize(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
}
