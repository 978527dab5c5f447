// Package types provides the request and response types shared by the CLI,
// the export service and the HTTP API.
package types

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ExportRequest asks for one Xcode project archive. Exactly one of Swift and
// JavaScript carries the body; JavaScript is translated first.
type ExportRequest struct {
	ProjectName  string `json:"project_name" validate:"required,max=64,projectname"`
	Swift        string `json:"swift,omitempty" validate:"required_without=JavaScript,excluded_with=JavaScript"`
	JavaScript   string `json:"javascript,omitempty" validate:"required_without=Swift,excluded_with=Swift"`
	User         string `json:"user,omitempty" validate:"omitempty,max=64,username"`
	BundlePrefix string `json:"bundle_prefix,omitempty" validate:"omitempty,max=128,bundleprefix"`
}

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	JavaScript string `json:"javascript"`
}

// TranslateResponse carries the converted source.
type TranslateResponse struct {
	Swift string `json:"swift"`
}

var (
	projectNamePattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	userNamePattern     = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]*$`)
	bundlePrefixPattern = regexp.MustCompile(`^[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	register := func(tag string, pattern *regexp.Regexp) {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	register("projectname", projectNamePattern)
	register("username", userNamePattern)
	register("bundleprefix", bundlePrefixPattern)
	return v
}

// Validate validates the ExportRequest using the validator.
func (r *ExportRequest) Validate() error {
	return validate.Struct(r)
}

// IsJavaScript reports whether the body has to be translated.
func (r *ExportRequest) IsJavaScript() bool {
	return r.JavaScript != ""
}

// Body returns whichever source was supplied.
func (r *ExportRequest) Body() string {
	if r.IsJavaScript() {
		return r.JavaScript
	}
	return r.Swift
}

// ValidProjectName reports whether name can be used as a project name.
func ValidProjectName(name string) bool {
	return len(name) <= 64 && projectNamePattern.MatchString(name)
}

// FieldErrors flattens validator errors into "field: tag" strings keyed by
// the JSON name of each field.
func FieldErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, jsonName(fe.Field())+": "+fe.Tag())
	}
	return out
}

func jsonName(field string) string {
	switch field {
	case "ProjectName":
		return "project_name"
	case "BundlePrefix":
		return "bundle_prefix"
	default:
		return strings.ToLower(field)
	}
}
