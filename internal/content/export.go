package content

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SnapshotSection is a Section with its icon resolved to a URL.
type SnapshotSection struct {
	Slug        string      `json:"slug" yaml:"slug"`
	SidebarName string      `json:"sidebar_name,omitempty" yaml:"sidebar_name,omitempty"`
	SidebarIcon string      `json:"sidebar_icon,omitempty" yaml:"sidebar_icon,omitempty"`
	Title       string      `json:"title" yaml:"title"`
	Description Description `json:"description" yaml:"description"`
}

// SnapshotEducation is an Education with its image resolved to a URL.
type SnapshotEducation struct {
	Name        string `json:"name" yaml:"name"`
	Year        string `json:"year" yaml:"year"`
	Degree      string `json:"degree" yaml:"degree"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
}

// Snapshot is the export format handed to front-end builds.
type Snapshot struct {
	Sections   []SnapshotSection   `json:"sections" yaml:"sections"`
	Educations []SnapshotEducation `json:"educations" yaml:"educations"`
}

// BuildSnapshot resolves every asset reference against baseURL.
func BuildSnapshot(baseURL string) (*Snapshot, error) {
	snap := &Snapshot{
		Sections:   make([]SnapshotSection, 0, len(sections)),
		Educations: make([]SnapshotEducation, 0, len(educations)),
	}

	for _, s := range sections {
		item := SnapshotSection{
			Slug:        s.Slug(),
			SidebarName: s.SidebarName,
			Title:       s.Title,
			Description: s.Description,
		}
		if s.SidebarIcon != "" {
			a, err := Resolve(s.SidebarIcon)
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", s.Title, err)
			}
			item.SidebarIcon = a.URL(baseURL)
		}
		snap.Sections = append(snap.Sections, item)
	}

	for _, e := range educations {
		a, err := Resolve(e.Image)
		if err != nil {
			return nil, fmt.Errorf("education %q: %w", e.Name, err)
		}
		snap.Educations = append(snap.Educations, SnapshotEducation{
			Name:        e.Name,
			Year:        e.Year,
			Degree:      e.Degree,
			Description: e.Description,
			Image:       a.URL(baseURL),
		})
	}

	return snap, nil
}

func (s *Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func (s *Snapshot) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
