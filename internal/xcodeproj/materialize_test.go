package xcodeproj

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var demoPaths = []string{
	"Demo.xcodeproj/project.pbxproj",
	"Demo.xcodeproj/project.xcworkspace/contents.xcworkspacedata",
	"Demo.xcodeproj/project.xcworkspace/xcshareddata/swiftpm/configuration",
	"Demo.xcodeproj/project.xcworkspace/xcuserdata/developer.xcuserdatad/UserInterfaceState.xcuserstate",
	"Demo.xcodeproj/xcshareddata/xcschemes/Demo.xcscheme",
	"Demo.xcodeproj/xcuserdata/developer.xcuserdatad/xcschemes/xcschememanagement.plist",
	"Demo/Assets.xcassets/AccentColor.colorset/Contents.json",
	"Demo/Assets.xcassets/AppIcon.appiconset/Contents.json",
	"Demo/Assets.xcassets/Contents.json",
	"Demo/ContentView.swift",
	"Demo/DemoApp.swift",
	"Demo/Info.plist",
	"Demo/Preview Content/Preview Assets.xcassets/Contents.json",
}

func TestMaterialize_Layout(t *testing.T) {
	data, err := Materialize("Demo", "let x = 1", WithIDSource(SeededIDs(42)))
	require.NoError(t, err)

	tree, entries, err := ReadArchive(data)
	require.NoError(t, err)
	assert.ElementsMatch(t, demoPaths, tree.Paths())
	require.Len(t, entries, len(demoPaths))

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
		assert.True(t, e.Deflated(), "%s should be deflated", e.Name)
		assert.True(t, e.Modified.Equal(DefaultModTime), "%s modified %v", e.Name, e.Modified)
		assert.False(t, strings.HasSuffix(e.Name, "/"), "no directory entries")
	}
	assert.True(t, sort.StringsAreSorted(names), "entries are written in path order")
}

func TestMaterialize_ContentView(t *testing.T) {
	p, err := Build("Demo", "print(\"hi\")", WithIDSource(SeededIDs(1)))
	require.NoError(t, err)

	content := p.Files["Demo/ContentView.swift"]
	assert.True(t, strings.HasPrefix(content, "import SwiftUI\n\n"))
	assert.True(t, strings.HasSuffix(content, "print(\"hi\")"))
}

func TestMaterialize_EmptyFiles(t *testing.T) {
	p, err := Build("Demo", "", WithIDSource(SeededIDs(1)))
	require.NoError(t, err)

	assert.Equal(t, "", p.Files["Demo.xcodeproj/project.xcworkspace/xcshareddata/swiftpm/configuration"])
	assert.Equal(t, "", p.Files["Demo.xcodeproj/project.xcworkspace/xcuserdata/developer.xcuserdatad/UserInterfaceState.xcuserstate"])
}

func TestMaterialize_AppAndPlist(t *testing.T) {
	p, err := Build("MyApp", "", WithIDSource(SeededIDs(3)))
	require.NoError(t, err)

	assert.Equal(t, "com.example.MyApp", p.BundleID)
	assert.Contains(t, p.Files["MyApp/MyAppApp.swift"], "struct MyAppApp: App {")
	assert.Contains(t, p.Files["MyApp/Info.plist"], "<string>com.example.MyApp</string>")
	assert.Contains(t, p.Files["MyApp.xcodeproj/project.xcworkspace/contents.xcworkspacedata"], `location = "self:MyApp.xcodeproj"`)
	assert.Contains(t, p.Files["MyApp.xcodeproj/xcshareddata/xcschemes/MyApp.xcscheme"], `BlueprintIdentifier = "`+p.TargetID+`"`)
	assert.Contains(t, p.Files["MyApp.xcodeproj/xcuserdata/developer.xcuserdatad/xcschemes/xcschememanagement.plist"], "<key>MyApp.xcscheme_^#shared#^_</key>")
}

func TestMaterialize_PbxprojSettings(t *testing.T) {
	p, err := Build("MyApp", "", WithIDSource(SeededIDs(3)))
	require.NoError(t, err)
	pbx := p.Files["MyApp.xcodeproj/project.pbxproj"]

	assert.True(t, strings.HasPrefix(pbx, "// !$*UTF8*$!\n"))
	assert.Contains(t, pbx, "objectVersion = 46;")
	assert.Contains(t, pbx, "PRODUCT_BUNDLE_IDENTIFIER = com.example.MyApp;")
	assert.Contains(t, pbx, `productType = "com.apple.product-type.application";`)
	assert.Contains(t, pbx, "MACOSX_DEPLOYMENT_TARGET = 10.15;")
	assert.Contains(t, pbx, "INFOPLIST_FILE = MyApp/Info.plist;")
	assert.Contains(t, pbx, "rootObject = "+string(p.Graph.Root())+" /* Project object */;")
}

func TestMaterialize_IDsDistinctAndReferenced(t *testing.T) {
	p, err := Build("Demo", "", WithIDSource(SeededIDs(42)))
	require.NoError(t, err)
	pbx := p.Files["Demo.xcodeproj/project.pbxproj"]

	ids := p.Graph.IDs()
	require.NotEmpty(t, ids)
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "ID %s declared twice", id)
		seen[id] = true
		assert.GreaterOrEqual(t, strings.Count(pbx, id), 2, "ID %s should be declared and referenced", id)
	}
	assert.True(t, seen[p.TargetID])
	assert.NoError(t, p.Graph.Validate())
}

func TestMaterialize_Deterministic(t *testing.T) {
	a, err := Materialize("Demo", "let x = 1", WithIDSource(SeededIDs(42)))
	require.NoError(t, err)
	b, err := Materialize("Demo", "let x = 1", WithIDSource(SeededIDs(42)))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Materialize("Demo", "let x = 1", WithIDSource(SeededIDs(43)))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestMaterialize_RandomIDsDiffer(t *testing.T) {
	a, err := Build("Demo", "")
	require.NoError(t, err)
	b, err := Build("Demo", "")
	require.NoError(t, err)
	assert.NotEqual(t, a.TargetID, b.TargetID)
}

func TestMaterialize_Options(t *testing.T) {
	stamp := time.Date(2024, time.January, 2, 3, 4, 6, 0, time.UTC)
	data, err := Materialize("Demo", "",
		WithIDSource(SeededIDs(5)),
		WithUser("alice"),
		WithBundlePrefix("org.acme"),
		WithModTime(stamp),
	)
	require.NoError(t, err)

	tree, entries, err := ReadArchive(data)
	require.NoError(t, err)
	assert.Contains(t, tree, "Demo.xcodeproj/xcuserdata/alice.xcuserdatad/xcschemes/xcschememanagement.plist")
	assert.Contains(t, tree, "Demo.xcodeproj/project.xcworkspace/xcuserdata/alice.xcuserdatad/UserInterfaceState.xcuserstate")
	assert.Contains(t, tree["Demo/Info.plist"], "<string>org.acme.Demo</string>")
	for _, e := range entries {
		assert.True(t, e.Modified.Equal(stamp), "%s modified %v", e.Name, e.Modified)
	}
}

func TestMaterialize_EmptyOptionsKeepDefaults(t *testing.T) {
	p, err := Build("Demo", "", WithIDSource(nil), WithUser(""), WithBundlePrefix(""), WithModTime(time.Time{}))
	require.NoError(t, err)
	assert.Equal(t, DefaultUser, p.User)
	assert.Equal(t, "com.example.Demo", p.BundleID)
}

func TestMaterialize_DuplicateIDsRejected(t *testing.T) {
	_, err := Build("Demo", "", WithIDSource(IDFunc(func() string { return "SAME" })))
	require.Error(t, err)

	var graphErr *GraphError
	assert.True(t, errors.As(err, &graphErr))
}

func TestReadArchive_Invalid(t *testing.T) {
	_, _, err := ReadArchive([]byte("not a zip"))
	require.Error(t, err)

	var archiveErr *ArchiveError
	assert.True(t, errors.As(err, &archiveErr))
}

func TestFileTree_ArchiveRoundTrip(t *testing.T) {
	tree := FileTree{"b.txt": "bee", "a/c.txt": "", "a/b.txt": strings.Repeat("x", 1000)}
	data, err := tree.Archive(DefaultModTime)
	require.NoError(t, err)

	got, entries, err := ReadArchive(data)
	require.NoError(t, err)
	assert.Equal(t, tree, got)
	assert.Equal(t, []string{"a/b.txt", "a/c.txt", "b.txt"}, []string{entries[0].Name, entries[1].Name, entries[2].Name})
	assert.Less(t, entries[0].CompressedSize, entries[0].Size)
	assert.Equal(t, 1003, tree.Size())
}
