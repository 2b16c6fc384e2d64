package swagger

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/vitalvas/reqspec/spec"
)

// DefinitionPrefix is the JSON pointer prefix of definition references.
const DefinitionPrefix = "#/definitions/"

// SchemaGenerator converts Go types to Swagger schemas. Named struct types
// are collected as definitions and referenced with $ref.
//
// See: https://swagger.io/specification/v2/#schema-object
// See: https://swagger.io/specification/v2/#definitions-object
type SchemaGenerator struct {
	definitions map[string]*spec.Schema
	visited     map[reflect.Type]bool
	typeNames   map[reflect.Type]string
	nameTypes   map[string]reflect.Type
}

// NewSchemaGenerator creates a new schema generator.
func NewSchemaGenerator() *SchemaGenerator {
	return &SchemaGenerator{
		definitions: make(map[string]*spec.Schema),
		visited:     make(map[reflect.Type]bool),
		typeNames:   make(map[reflect.Type]string),
		nameTypes:   make(map[string]reflect.Type),
	}
}

// Definitions returns the collected definitions.
func (g *SchemaGenerator) Definitions() map[string]*spec.Schema {
	return g.definitions
}

// Generate produces a schema for the given Go value. Named struct types
// are stored as definitions and returned as references.
func (g *SchemaGenerator) Generate(v any) *spec.Schema {
	if v == nil {
		return nil
	}
	return g.generateType(reflect.TypeOf(v))
}

// Define stores the schema of v as the definition name and returns a
// reference to it. Struct types keep that name wherever they are nested.
func (g *SchemaGenerator) Define(name string, v any) *spec.Schema {
	if v == nil {
		return nil
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct && t != reflect.TypeOf(time.Time{}) {
		if _, taken := g.typeNames[t]; !taken {
			g.typeNames[t] = name
			g.nameTypes[name] = t
		}
		g.visited[t] = true
		g.definitions[name] = g.generateStructSchema(t)
	} else {
		g.definitions[name] = g.generateType(t)
	}

	return &spec.Schema{Ref: DefinitionPrefix + name}
}

func (g *SchemaGenerator) generateType(t reflect.Type) *spec.Schema {
	// Swagger 2.0 has no nullable keyword.
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct && t != reflect.TypeOf(time.Time{}) {
		if name := g.schemaName(t); name != "" {
			if !g.visited[t] {
				g.visited[t] = true
				g.definitions[name] = g.generateStructSchema(t)
			}
			return &spec.Schema{Ref: DefinitionPrefix + name}
		}
	}

	return g.generateInlineType(t)
}

func schemaOf(typ, format string) *spec.Schema {
	return &spec.Schema{Constraints: spec.Constraints{Type: typ, Format: format}}
}

// generateInlineType maps Go types to Swagger data types.
//
// See: https://swagger.io/specification/v2/#data-types
func (g *SchemaGenerator) generateInlineType(t reflect.Type) *spec.Schema {
	if t == reflect.TypeOf(time.Time{}) {
		return schemaOf(spec.TypeString, spec.FormatDateTime)
	}

	switch t.Kind() {
	case reflect.Bool:
		return schemaOf(spec.TypeBoolean, "")

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return schemaOf(spec.TypeInteger, "int32")

	case reflect.Int64, reflect.Uint64:
		return schemaOf(spec.TypeInteger, "int64")

	case reflect.Float32:
		return schemaOf(spec.TypeNumber, "float")

	case reflect.Float64:
		return schemaOf(spec.TypeNumber, "double")

	case reflect.String:
		return schemaOf(spec.TypeString, "")

	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return schemaOf(spec.TypeString, "byte")
		}
		s := schemaOf(spec.TypeArray, "")
		s.Items = g.generateType(t.Elem())
		return s

	case reflect.Map:
		return schemaOf(spec.TypeObject, "")

	case reflect.Struct:
		return g.generateStructSchema(t)

	case reflect.Interface:
		return &spec.Schema{}
	}

	return nil
}

// generateStructSchema builds an object schema from struct fields.
func (g *SchemaGenerator) generateStructSchema(t reflect.Type) *spec.Schema {
	schema := schemaOf(spec.TypeObject, "")
	schema.Properties = make(map[string]*spec.Schema)

	g.collectFields(t, schema, false)

	if len(schema.Properties) == 0 {
		schema.Properties = nil
	}

	return schema
}

// collectFields collects exported struct fields into the schema. Fields of
// pointer-embedded structs are all optional since the pointer may be nil.
func (g *SchemaGenerator) collectFields(t reflect.Type, schema *spec.Schema, allOptional bool) {
	for i := range t.NumField() {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		if field.Anonymous {
			jsonName, _ := parseJSONTag(field.Tag.Get("json"))
			if jsonName == "" {
				ft := field.Type
				isPtr := ft.Kind() == reflect.Pointer
				if isPtr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					g.collectFields(ft, schema, allOptional || isPtr)
					continue
				}
			}
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, omitempty := parseJSONTag(jsonTag)
		if name == "" {
			name = field.Name
		}

		fieldSchema := g.generateType(field.Type)
		if fieldSchema == nil {
			continue
		}

		if tag := field.Tag.Get("swagger"); tag != "" {
			if fieldSchema.Ref != "" {
				// Siblings of $ref are ignored by consumers.
				fieldSchema = &spec.Schema{Ref: fieldSchema.Ref}
			} else {
				applySwaggerTag(fieldSchema, tag)
			}
		}

		schema.Properties[name] = fieldSchema

		if !omitempty && !allOptional {
			schema.Required = append(schema.Required, name)
		}
	}
}

func parseJSONTag(tag string) (string, bool) {
	if tag == "" {
		return "", false
	}
	name, rest, _ := strings.Cut(tag, ",")
	return name, strings.Contains(rest, "omitempty") || strings.Contains(rest, "omitzero")
}

// applySwaggerTag parses the `swagger` struct tag, a comma separated list
// of constraint keywords:
//
//	Name string `json:"name" swagger:"minLength=2,maxLength=64,pattern=^[a-z]+$"`
//	Role string `json:"role" swagger:"enum=admin|user,description=Account role"`
func applySwaggerTag(schema *spec.Schema, tag string) {
	for part := range strings.SplitSeq(tag, ",") {
		key, value, _ := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "description":
			schema.Description = value
		case "format":
			schema.Format = value
		case "pattern":
			schema.Pattern = value
		case "minimum":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.Minimum = &v
			}
		case "maximum":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.Maximum = &v
			}
		case "exclusiveMinimum":
			schema.ExclusiveMinimum = true
		case "exclusiveMaximum":
			schema.ExclusiveMaximum = true
		case "minLength":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MinLength = &v
			}
		case "maxLength":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MaxLength = &v
			}
		case "enum":
			values := strings.Split(value, "|")
			schema.Enum = make([]any, len(values))
			for i, v := range values {
				schema.Enum[i] = v
			}
		}
	}
}

// schemaName returns a unique definition name for t. A type whose simple
// name is already taken by a type from another package is prefixed with
// its package name, then numbered if that still collides.
func (g *SchemaGenerator) schemaName(t reflect.Type) string {
	simple := sanitizeSchemaName(t.Name())
	if simple == "" || t.PkgPath() == "" {
		return ""
	}

	if name, ok := g.typeNames[t]; ok {
		return name
	}

	name := simple
	if existing, ok := g.nameTypes[name]; ok && existing != t {
		name = pkgPrefix(t.PkgPath()) + simple
		if existing, ok := g.nameTypes[name]; ok && existing != t {
			base := name
			for i := 2; ; i++ {
				candidate := base + strconv.Itoa(i)
				if _, ok := g.nameTypes[candidate]; !ok {
					name = candidate
					break
				}
			}
		}
	}

	g.typeNames[t] = name
	g.nameTypes[name] = t
	return name
}

func pkgPrefix(pkgPath string) string {
	if idx := strings.LastIndexByte(pkgPath, '/'); idx >= 0 {
		pkgPath = pkgPath[idx+1:]
	}
	if pkgPath == "" {
		return ""
	}
	pkgPath = strings.NewReplacer("-", "_", ".", "_").Replace(pkgPath)
	return strings.ToUpper(pkgPath[:1]) + pkgPath[1:]
}

// sanitizeSchemaName turns generic instantiation names such as
// "Page[pkg.User]" into "PageUser" and "Page[[]pkg.User]" into
// "PageUserList".
func sanitizeSchemaName(name string) string {
	base, inner, ok := strings.Cut(name, "[")
	if !ok {
		return name
	}
	inner = strings.TrimSuffix(inner, "]")

	isList := strings.HasPrefix(inner, "[]")
	inner = strings.TrimPrefix(inner, "[]")

	if dot := strings.LastIndexByte(inner, '.'); dot >= 0 {
		inner = inner[dot+1:]
	}

	if isList {
		return base + inner + "List"
	}
	return base + inner
}
