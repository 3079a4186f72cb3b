package content

// DescriptionKind tags which half of the Description union is populated.
type DescriptionKind string

const (
	KindText      DescriptionKind = "text"
	KindComponent DescriptionKind = "component"
)

// ComponentHandle names a renderable unit supplied by the presentation layer.
type ComponentHandle string

// EducationList is rendered by the education timeline template.
const EducationList ComponentHandle = "education-list"

var components = map[ComponentHandle]struct{}{
	EducationList: {},
}

// Known reports whether the presentation layer supplies this component.
func (h ComponentHandle) Known() bool {
	_, ok := components[h]
	return ok
}

// Description is either literal prose or a handle to a richer component.
// Consumers must branch on Kind before displaying it.
type Description struct {
	Kind  DescriptionKind `json:"kind" yaml:"kind"`
	Value string          `json:"value,omitempty" yaml:"value,omitempty"`
	Ref   ComponentHandle `json:"ref,omitempty" yaml:"ref,omitempty"`
}

func Text(s string) Description {
	return Description{Kind: KindText, Value: s}
}

func Component(ref ComponentHandle) Description {
	return Description{Kind: KindComponent, Ref: ref}
}

func (d Description) IsText() bool      { return d.Kind == KindText }
func (d Description) IsComponent() bool { return d.Kind == KindComponent }

// Section is one navigable unit of the portfolio (About, Education, ...).
// SidebarName and SidebarIcon are display-only and may be empty.
type Section struct {
	SidebarName string      `json:"sidebar_name,omitempty" yaml:"sidebar_name,omitempty"`
	SidebarIcon AssetRef    `json:"sidebar_icon,omitempty" yaml:"sidebar_icon,omitempty"`
	Title       string      `json:"title" yaml:"title"`
	Description Description `json:"description" yaml:"description"`
}

// Slug is the URL segment used to request the section fragment.
func (s Section) Slug() string {
	return slugify(s.SidebarName, s.Title)
}

// Education is one entry of the education history. Year is free text
// ("2022-2025") and is never parsed.
type Education struct {
	Name        string   `json:"name" yaml:"name"`
	Year        string   `json:"year" yaml:"year"`
	Degree      string   `json:"degree" yaml:"degree"`
	Description string   `json:"description" yaml:"description"`
	Image       AssetRef `json:"image" yaml:"image"`
}
