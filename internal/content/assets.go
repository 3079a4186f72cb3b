package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"sort"
)

// AssetRef is the logical name of an image, e.g. "images/uph".
type AssetRef string

// Asset is a resolved image handle.
type Asset struct {
	Ref         AssetRef `json:"ref"`
	File        string   `json:"file"`
	ContentType string   `json:"content_type"`
}

// URL returns the path the server exposes the asset under, prefixed by base.
func (a Asset) URL(base string) string {
	return base + "/assets/" + string(a.Ref)
}

var ErrAssetNotFound = errors.New("asset not found")

// Missing files fail the build here, not at runtime.
//
//go:embed assets/icons/*.png assets/images/*.png
var assetFS embed.FS

var assetFiles = map[AssetRef]string{
	"icons/about":     "assets/icons/about.png",
	"icons/education": "assets/icons/education.png",
	"images/uph":      "assets/images/uph.png",
	"images/smk":      "assets/images/smk.png",
	"images/smp":      "assets/images/smp.png",
}

// Resolve maps a logical name to its embedded file.
func Resolve(ref AssetRef) (Asset, error) {
	file, ok := assetFiles[ref]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %q", ErrAssetNotFound, ref)
	}
	ct := mime.TypeByExtension(path.Ext(file))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return Asset{Ref: ref, File: file, ContentType: ct}, nil
}

// Open returns the asset along with its bytes.
func Open(ref AssetRef) (Asset, []byte, error) {
	a, err := Resolve(ref)
	if err != nil {
		return Asset{}, nil, err
	}
	data, err := fs.ReadFile(assetFS, a.File)
	if err != nil {
		return Asset{}, nil, fmt.Errorf("read asset %q: %w", ref, err)
	}
	return a, data, nil
}

// AssetRefs lists every registered logical name, sorted.
func AssetRefs() []AssetRef {
	refs := make([]AssetRef, 0, len(assetFiles))
	for ref := range assetFiles {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs
}

// Validate checks that every registered asset is a non-empty embedded file
// and that every icon, image and component the registries use is registered.
func Validate() error {
	errs := checkFiles(assetFS)
	for _, s := range sections {
		if s.SidebarIcon != "" {
			if _, err := Resolve(s.SidebarIcon); err != nil {
				errs = append(errs, fmt.Errorf("section %q: %w", s.Title, err))
			}
		}
		if s.Description.IsComponent() && !s.Description.Ref.Known() {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownComponent, s.Description.Ref))
		}
	}
	for _, e := range educations {
		if _, err := Resolve(e.Image); err != nil {
			errs = append(errs, fmt.Errorf("education %q: %w", e.Name, err))
		}
	}
	return errors.Join(errs...)
}

func checkFiles(fsys fs.FS) []error {
	var errs []error
	for _, ref := range AssetRefs() {
		data, err := fs.ReadFile(fsys, assetFiles[ref])
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("asset %q: %w", ref, err))
		case len(data) == 0:
			errs = append(errs, fmt.Errorf("asset %q is empty", ref))
		}
	}
	return errs
}
