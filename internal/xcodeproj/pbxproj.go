package xcodeproj

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Ref is a reference to another object in the graph by ID.
type Ref string

// List is an ordered array value.
type List []any

// Field is one entry of a dictionary. When KeyIsRef is set the key is an
// object ID and is checked like any other reference.
type Field struct {
	Key      string
	Value    any
	KeyIsRef bool
}

// Dict is an ordered dictionary value.
type Dict []Field

// Object is one entry of the objects table.
type Object struct {
	ID      string
	ISA     string
	Comment string
	Fields  Dict
}

// Graph is the object table of a project.pbxproj plus its root.
//
// Values held in fields are string, Ref, List or Dict.
type Graph struct {
	objects []*Object
	root    Ref
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Add declares an object.
func (g *Graph) Add(obj *Object) *Object {
	g.objects = append(g.objects, obj)
	return obj
}

// SetRoot sets the rootObject reference.
func (g *Graph) SetRoot(id string) {
	g.root = Ref(id)
}

// Root returns the rootObject reference.
func (g *Graph) Root() Ref {
	return g.root
}

// Objects returns the declared objects in declaration order.
func (g *Graph) Objects() []*Object {
	out := make([]*Object, len(g.objects))
	copy(out, g.objects)
	return out
}

// Lookup finds a declared object by ID.
func (g *Graph) Lookup(id string) (*Object, bool) {
	for _, obj := range g.objects {
		if obj.ID == id {
			return obj, true
		}
	}
	return nil, false
}

// IDs returns every declared ID in declaration order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.objects))
	for _, obj := range g.objects {
		ids = append(ids, obj.ID)
	}
	return ids
}

// Validate checks that every ID is declared exactly once and that every
// reference resolves to a declared object.
func (g *Graph) Validate() error {
	var problems []string
	declared := make(map[string]int, len(g.objects))
	for _, obj := range g.objects {
		if obj.ID == "" {
			problems = append(problems, fmt.Sprintf("%s object %q has no ID", obj.ISA, obj.Comment))
			continue
		}
		if obj.ISA == "" {
			problems = append(problems, fmt.Sprintf("object %s has no isa", obj.ID))
		}
		declared[obj.ID]++
		if declared[obj.ID] == 2 {
			problems = append(problems, fmt.Sprintf("ID %s declared more than once", obj.ID))
		}
	}

	for _, obj := range g.objects {
		walkRefs(obj.Fields, func(ref Ref) {
			if declared[string(ref)] == 0 {
				problems = append(problems, fmt.Sprintf("%s %s references undeclared ID %s", obj.ISA, obj.ID, ref))
			}
		})
	}

	switch root, ok := g.Lookup(string(g.root)); {
	case g.root == "":
		problems = append(problems, "rootObject is not set")
	case !ok:
		problems = append(problems, fmt.Sprintf("rootObject references undeclared ID %s", g.root))
	case root.ISA != "PBXProject":
		problems = append(problems, fmt.Sprintf("rootObject %s is a %s, not a PBXProject", g.root, root.ISA))
	}

	if len(problems) > 0 {
		return &GraphError{Problems: problems}
	}
	return nil
}

func walkRefs(v any, visit func(Ref)) {
	switch val := v.(type) {
	case Ref:
		visit(val)
	case List:
		for _, item := range val {
			walkRefs(item, visit)
		}
	case Dict:
		for _, f := range val {
			if f.KeyIsRef {
				visit(Ref(f.Key))
			}
			walkRefs(f.Value, visit)
		}
	}
}

// Xcode writes these on a single line.
var inlineISAs = map[string]bool{
	"PBXBuildFile":     true,
	"PBXFileReference": true,
}

// Render validates the graph and writes it in the old-style plist format
// Xcode uses for project.pbxproj, one section per isa in alphabetical order.
func (g *Graph) Render() ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("// !$*UTF8*$!\n{\n")
	sb.WriteString("\tarchiveVersion = 1;\n")
	sb.WriteString("\tclasses = {\n\t};\n")
	sb.WriteString("\tobjectVersion = 46;\n")
	sb.WriteString("\tobjects = {\n")

	for _, isa := range g.sections() {
		fmt.Fprintf(&sb, "\n/* Begin %s section */\n", isa)
		for _, obj := range g.objects {
			if obj.ISA == isa {
				g.writeObject(&sb, obj)
			}
		}
		fmt.Fprintf(&sb, "/* End %s section */\n", isa)
	}

	sb.WriteString("\t};\n")
	fmt.Fprintf(&sb, "\trootObject = %s;\n", g.refString(g.root))
	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func (g *Graph) sections() []string {
	seen := map[string]bool{}
	var isas []string
	for _, obj := range g.objects {
		if !seen[obj.ISA] {
			seen[obj.ISA] = true
			isas = append(isas, obj.ISA)
		}
	}
	sort.Strings(isas)
	return isas
}

func (g *Graph) writeObject(sb *strings.Builder, obj *Object) {
	head := g.refString(Ref(obj.ID))
	if inlineISAs[obj.ISA] {
		fmt.Fprintf(sb, "\t\t%s = {isa = %s; ", head, obj.ISA)
		for _, f := range obj.Fields {
			fmt.Fprintf(sb, "%s = %s; ", quote(f.Key), g.inline(f.Value))
		}
		sb.WriteString("};\n")
		return
	}

	fmt.Fprintf(sb, "\t\t%s = {\n", head)
	fmt.Fprintf(sb, "\t\t\tisa = %s;\n", obj.ISA)
	for _, f := range obj.Fields {
		fmt.Fprintf(sb, "\t\t\t%s = %s;\n", g.key(f), g.value(f.Value, 3))
	}
	sb.WriteString("\t\t};\n")
}

func (g *Graph) key(f Field) string {
	if f.KeyIsRef {
		return f.Key
	}
	return quote(f.Key)
}

func (g *Graph) value(v any, depth int) string {
	indent := strings.Repeat("\t", depth)
	switch val := v.(type) {
	case Ref:
		return g.refString(val)
	case List:
		var sb strings.Builder
		sb.WriteString("(\n")
		for _, item := range val {
			fmt.Fprintf(&sb, "%s\t%s,\n", indent, g.value(item, depth+1))
		}
		sb.WriteString(indent + ")")
		return sb.String()
	case Dict:
		var sb strings.Builder
		sb.WriteString("{\n")
		for _, f := range val {
			fmt.Fprintf(&sb, "%s\t%s = %s;\n", indent, g.key(f), g.value(f.Value, depth+1))
		}
		sb.WriteString(indent + "}")
		return sb.String()
	case string:
		return quote(val)
	default:
		return quote(fmt.Sprint(val))
	}
}

func (g *Graph) inline(v any) string {
	switch val := v.(type) {
	case List:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, g.inline(item)+", ")
		}
		return "(" + strings.Join(parts, "") + ")"
	case Dict:
		var sb strings.Builder
		sb.WriteString("{")
		for _, f := range val {
			fmt.Fprintf(&sb, "%s = %s; ", g.key(f), g.inline(f.Value))
		}
		sb.WriteString("}")
		return sb.String()
	default:
		return g.value(v, 0)
	}
}

func (g *Graph) refString(ref Ref) string {
	obj, ok := g.Lookup(string(ref))
	if !ok || obj.Comment == "" {
		return string(ref)
	}
	return fmt.Sprintf("%s /* %s */", ref, strings.ReplaceAll(obj.Comment, "*/", "* /"))
}

var bareWord = regexp.MustCompile(`^[A-Za-z0-9_$./]+$`)

// quote leaves plain words bare and quotes everything else.
func quote(s string) string {
	if bareWord.MatchString(s) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
