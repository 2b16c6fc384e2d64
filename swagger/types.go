package swagger

import (
	"github.com/vitalvas/reqspec/spec"
)

// Version is the value of the "swagger" field of every generated document.
const Version = "2.0"

// Document is the root Swagger 2.0 object.
//
// See: https://swagger.io/specification/v2/#swagger-object
type Document struct {
	Swagger     string                     `json:"swagger" yaml:"swagger"`
	Info        Info                       `json:"info" yaml:"info"`
	Host        string                     `json:"host,omitempty" yaml:"host,omitempty"`
	BasePath    string                     `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Schemes     []string                   `json:"schemes,omitempty" yaml:"schemes,omitempty"`
	Consumes    []string                   `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces    []string                   `json:"produces,omitempty" yaml:"produces,omitempty"`
	Paths       map[string]*spec.RouteSpec `json:"paths" yaml:"paths"`
	Definitions map[string]*spec.Schema    `json:"definitions,omitempty" yaml:"definitions,omitempty"`
	Tags        []Tag                      `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Info provides metadata about the API.
//
// See: https://swagger.io/specification/v2/#info-object
type Info struct {
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	TermsOfService string   `json:"termsOfService,omitempty" yaml:"termsOfService,omitempty"`
	Contact        *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`
	License        *License `json:"license,omitempty" yaml:"license,omitempty"`
	Version        string   `json:"version" yaml:"version"`
}

// Contact represents contact information for the API.
//
// See: https://swagger.io/specification/v2/#contact-object
type Contact struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// License represents license information for the API.
//
// See: https://swagger.io/specification/v2/#license-object
type License struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Tag adds metadata to a tag used by operations.
//
// See: https://swagger.io/specification/v2/#tag-object
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}
