package xcodeproj

import "sort"

// FileTree maps forward-slash paths, relative to the archive root, to file
// contents.
type FileTree map[string]string

// Paths returns every path in lexical order.
func (t FileTree) Paths() []string {
	paths := make([]string, 0, len(t))
	for p := range t {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Size is the total number of content bytes.
func (t FileTree) Size() int {
	n := 0
	for _, content := range t {
		n += len(content)
	}
	return n
}
