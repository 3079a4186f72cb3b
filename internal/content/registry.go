// Package content holds the portfolio's static sections and education
// history, and the embedded image assets they point at.
package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSectionNotFound  = errors.New("section not found")
	ErrUnknownComponent = errors.New("unknown component")
)

// Sections returns the sidebar sections in display order. The slice is a
// copy; mutating it does not affect later calls.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Educations returns the education history, newest first.
func Educations() []Education {
	out := make([]Education, len(educations))
	copy(out, educations)
	return out
}

// SectionByName looks a section up by sidebar name, falling back to title.
// Matching is case-insensitive.
func SectionByName(name string) (Section, error) {
	for _, s := range sections {
		if strings.EqualFold(s.SidebarName, name) || strings.EqualFold(s.Title, name) {
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("%w: %q", ErrSectionNotFound, name)
}

// SectionBySlug resolves the URL segment produced by Section.Slug.
func SectionBySlug(slug string) (Section, error) {
	for _, s := range sections {
		if s.Slug() == slug {
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("%w: %q", ErrSectionNotFound, slug)
}

func slugify(name, fallback string) string {
	if name == "" {
		name = fallback
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
