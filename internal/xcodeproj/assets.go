package xcodeproj

import (
	"embed"
	"path"

	"github.com/jonathan/swiftblocks/internal/schemas"
)

//go:embed assets/*.json
var assetFS embed.FS

// assetFiles maps asset-catalog descriptors, relative to the sources
// directory, onto the embedded file that provides them.
var assetFiles = []struct {
	path   string
	source string
}{
	{"Assets.xcassets/Contents.json", "assets/catalog.json"},
	{"Assets.xcassets/AccentColor.colorset/Contents.json", "assets/accent_color.json"},
	{"Assets.xcassets/AppIcon.appiconset/Contents.json", "assets/app_icon.json"},
	{"Preview Content/Preview Assets.xcassets/Contents.json", "assets/catalog.json"},
}

// addAssets writes the asset catalogs under dir after checking each
// descriptor against its schema.
func addAssets(tree FileTree, dir string) error {
	for _, a := range assetFiles {
		data, err := assetFS.ReadFile(a.source)
		if err != nil {
			return &TemplateError{Name: a.source, Message: "asset not embedded", Cause: err}
		}
		p := path.Join(dir, a.path)
		if err := schemas.ValidateAsset(p, data); err != nil {
			return &TemplateError{Name: a.source, Message: "asset descriptor does not match schema", Cause: err}
		}
		tree[p] = string(data)
	}
	return nil
}
