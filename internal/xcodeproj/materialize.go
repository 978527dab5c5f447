// Package xcodeproj materializes a single-target SwiftUI Xcode project
// around a Swift source body and packages it as a zip archive.
//
// The project.pbxproj is built as an object graph whose references are
// checked before rendering. Every other file is rendered from embedded
// templates. No validation of the Swift body takes place.
package xcodeproj

import (
	"path"
	"time"
)

// Defaults applied when the corresponding option is not given.
const (
	DefaultUser         = "developer"
	DefaultBundlePrefix = "com.example"
	ShortVersion        = "1.0"
	BuildVersion        = "1"
)

// contentViewHeader precedes the translated body in ContentView.swift.
const contentViewHeader = "import SwiftUI\n\n"

type settings struct {
	ids          IDSource
	user         string
	bundlePrefix string
	modified     time.Time
}

// Option customizes Build and Materialize.
type Option func(*settings)

// WithIDSource sets where object identifiers come from.
func WithIDSource(src IDSource) Option {
	return func(s *settings) {
		if src != nil {
			s.ids = src
		}
	}
}

// WithUser sets the account name used for the xcuserdata directories.
func WithUser(user string) Option {
	return func(s *settings) {
		if user != "" {
			s.user = user
		}
	}
}

// WithBundlePrefix sets the reverse-DNS prefix of the bundle identifier.
func WithBundlePrefix(prefix string) Option {
	return func(s *settings) {
		if prefix != "" {
			s.bundlePrefix = prefix
		}
	}
}

// WithModTime sets the modification time stamped on archive entries.
func WithModTime(t time.Time) Option {
	return func(s *settings) {
		if !t.IsZero() {
			s.modified = t
		}
	}
}

// Project is a materialized project before packaging.
type Project struct {
	Name     string
	BundleID string
	TargetID string
	User     string
	Graph    *Graph
	Files    FileTree
	modified time.Time
}

// BundleIdentifier joins a prefix and a project name.
func BundleIdentifier(prefix, name string) string {
	return prefix + "." + name
}

// Build lays out every file of the project in memory.
func Build(name, body string, opts ...Option) (*Project, error) {
	s := settings{
		ids:          RandomIDs(),
		user:         DefaultUser,
		bundlePrefix: DefaultBundlePrefix,
		modified:     DefaultModTime,
	}
	for _, opt := range opts {
		opt(&s)
	}

	ids := drawIDs(s.ids)
	bundleID := BundleIdentifier(s.bundlePrefix, name)
	graph := buildGraph(name, bundleID, ids)
	pbxproj, err := graph.Render()
	if err != nil {
		return nil, err
	}

	data := templateData{
		Name:                 name,
		BundleID:             bundleID,
		TargetID:             ids.target,
		ShortVersion:         ShortVersion,
		BuildVersion:         BuildVersion,
		MinimumSystemVersion: MinimumSystemVersion,
		LastUpgradeCheck:     LastUpgradeCheck,
	}

	projDir := name + ".xcodeproj"
	userDir := s.user + ".xcuserdatad"
	tree := FileTree{}
	tree[path.Join(projDir, "project.pbxproj")] = string(pbxproj)
	tree[path.Join(projDir, "project.xcworkspace/xcshareddata/swiftpm/configuration")] = ""
	tree[path.Join(projDir, "project.xcworkspace/xcuserdata", userDir, "UserInterfaceState.xcuserstate")] = ""
	tree[path.Join(name, "ContentView.swift")] = contentViewHeader + body

	rendered := []struct {
		path     string
		template string
	}{
		{path.Join(projDir, "xcshareddata/xcschemes", name+".xcscheme"), "scheme.xcscheme.tmpl"},
		{path.Join(projDir, "project.xcworkspace/contents.xcworkspacedata"), "contents.xcworkspacedata.tmpl"},
		{path.Join(projDir, "xcuserdata", userDir, "xcschemes/xcschememanagement.plist"), "xcschememanagement.plist.tmpl"},
		{path.Join(name, name+"App.swift"), "App.swift.tmpl"},
		{path.Join(name, "Info.plist"), "Info.plist.tmpl"},
	}
	for _, r := range rendered {
		content, err := render(r.template, data)
		if err != nil {
			return nil, err
		}
		tree[r.path] = content
	}

	if err := addAssets(tree, name); err != nil {
		return nil, err
	}

	return &Project{
		Name:     name,
		BundleID: bundleID,
		TargetID: ids.target,
		User:     s.user,
		Graph:    graph,
		Files:    tree,
		modified: s.modified,
	}, nil
}

// Archive packages the project's files.
func (p *Project) Archive() ([]byte, error) {
	return p.Files.Archive(p.modified)
}

// Materialize builds the project around body and returns the zip archive.
func Materialize(name, body string, opts ...Option) ([]byte, error) {
	p, err := Build(name, body, opts...)
	if err != nil {
		return nil, err
	}
	return p.Archive()
}
