package xcodeproj

import (
	"embed"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("xcodeproj").Funcs(template.FuncMap{"xml": EscapeXML}).ParseFS(templateFS, "templates/*.tmpl"),
)

// templateData is what every embedded template is executed with.
type templateData struct {
	Name                 string
	BundleID             string
	TargetID             string
	ShortVersion         string
	BuildVersion         string
	MinimumSystemVersion string
	LastUpgradeCheck     string
}

// render executes one embedded template by file name.
func render(name string, data templateData) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", &TemplateError{
			Name:    name,
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return sb.String(), nil
}

// EscapeXML escapes the characters that are special in XML text and
// attribute values.
func EscapeXML(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + len(text)/4)

	for _, r := range text {
		switch r {
		case '&':
			result.WriteString("&amp;")
		case '<':
			result.WriteString("&lt;")
		case '>':
			result.WriteString("&gt;")
		case '"':
			result.WriteString("&quot;")
		case '\'':
			result.WriteString("&apos;")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
