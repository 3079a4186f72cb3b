package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSections(t *testing.T) {
	got := Sections()
	require.Len(t, got, 2)

	for _, s := range got {
		assert.NotEmpty(t, s.Title)
	}

	assert.Equal(t, "About", got[0].SidebarName)
	assert.Equal(t, "Education", got[1].SidebarName)
	assert.True(t, got[0].Description.IsText())
	assert.True(t, got[1].Description.IsComponent())
	assert.Equal(t, EducationList, got[1].Description.Ref)
}

func TestSectionByName_About(t *testing.T) {
	s, err := SectionByName("About")
	require.NoError(t, err)

	assert.Equal(t, "About", s.SidebarName)
	assert.Equal(t, "About Me", s.Title)
	require.True(t, s.Description.IsText())
	assert.Equal(t, aboutMe, s.Description.Value)
	assert.Contains(t, s.Description.Value, "passionate Front-End Developer")
}

func TestSectionByName_TitleAndCase(t *testing.T) {
	s, err := SectionByName("educations")
	require.NoError(t, err)
	assert.Equal(t, "Education", s.SidebarName)

	_, err = SectionByName("Projects")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestSectionBySlug(t *testing.T) {
	for _, s := range Sections() {
		got, err := SectionBySlug(s.Slug())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := SectionBySlug("nope")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestSlugFallsBackToTitle(t *testing.T) {
	s := Section{Title: "Work History"}
	assert.Equal(t, "work-history", s.Slug())
}

func TestEducations_Order(t *testing.T) {
	got := Educations()
	require.Len(t, got, 3)

	want := []struct{ name, year string }{
		{"Pelita Harapan University", "2026-2029"},
		{"Vocational High School 2 Jakarta", "2022-2025"},
		{"Junior High School Maria Immaculata Marsudirini Jakarta", "2019-2022"},
	}
	for i, w := range want {
		assert.Equal(t, w.name, got[i].Name)
		assert.Equal(t, w.year, got[i].Year)
	}

	for _, e := range got {
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Degree)
		assert.NotEmpty(t, e.Year)
	}
}

func TestRegistriesAreStable(t *testing.T) {
	first := Sections()
	first[0].Title = "changed"
	first[0].Description = Text("changed")
	assert.Equal(t, Sections(), Sections())
	assert.Equal(t, "About Me", Sections()[0].Title)

	edu := Educations()
	edu[0].Name = "changed"
	assert.Equal(t, Educations(), Educations())
	assert.Equal(t, "Pelita Harapan University", Educations()[0].Name)
}
