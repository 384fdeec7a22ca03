package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageIsOneBased(t *testing.T) {
	p := NewPage([]int{1, 2}, 7, 4, 2)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 2, p.Size)
	assert.Equal(t, 4, p.Pages)

	empty := NewPage[int](nil, 0, 0, 50)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 0, empty.Pages)
}

func TestNewZeroBasedPage(t *testing.T) {
	p := NewZeroBasedPage([]string{"a"}, 11, 10, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.Size)
	assert.Equal(t, 2, p.Pages)
}

func TestLandmarkPatchTouchesOnlyProvidedFields(t *testing.T) {
	desc := "old"
	l := Landmark{Name: "Hermitage", City: "Saint Petersburg", Description: &desc, Latitude: 1}

	name := "State Hermitage"
	lat := 59.9398
	LandmarkPatch{Name: &name, Latitude: &lat}.Apply(&l)

	assert.Equal(t, "State Hermitage", l.Name)
	assert.Equal(t, "Saint Petersburg", l.City)
	assert.Equal(t, 59.9398, l.Latitude)
	assert.Equal(t, "old", *l.Description)
}

func TestProfilePatchApply(t *testing.T) {
	u := User{FullName: "Anna"}
	bio := "likes museums"
	ProfilePatch{Bio: &bio}.Apply(&u)
	assert.Equal(t, "Anna", u.FullName)
	assert.Equal(t, "likes museums", *u.Bio)
	assert.Nil(t, u.Location)
}
