package discover

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI imports an OpenAPI 3.x document and derives one manifest
// per operation. Path parameters become required positional arguments in
// the order they appear in the URL template, query parameters become long
// options, and top-level scalar properties of a JSON request body become
// long options as well.
//
// The command name is the x-cli-command extension when present, otherwise
// the kebab-cased operation ID. Operations marked x-cli-hidden are
// skipped. The result is sorted by command name.
func FromOpenAPI(ctx context.Context, path string) ([]*Manifest, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("OpenAPI document validation failed: %w", err)
	}

	var manifests []*Manifest
	seen := make(map[string]string)

	for urlPath, pathItem := range doc.Paths.Map() {
		for method, op := range pathItem.Operations() {
			if op == nil {
				continue
			}
			if hidden, ok := op.Extensions["x-cli-hidden"].(bool); ok && hidden {
				continue
			}

			m, err := operationManifest(urlPath, pathItem, op)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, urlPath, err)
			}

			if prev, dup := seen[m.Name]; dup {
				return nil, fmt.Errorf("%s %s: command name %q already taken by %s", method, urlPath, m.Name, prev)
			}
			seen[m.Name] = fmt.Sprintf("%s %s", method, urlPath)

			manifests = append(manifests, m)
		}
	}

	sort.Slice(manifests, func(i, j int) bool { return manifests[i].Name < manifests[j].Name })
	return manifests, nil
}

// operationManifest converts one operation to a manifest.
func operationManifest(urlPath string, pathItem *openapi3.PathItem, op *openapi3.Operation) (*Manifest, error) {
	name := commandName(op)
	if name == "" {
		return nil, fmt.Errorf("operation has neither x-cli-command nor operationId")
	}

	m := &Manifest{
		Name:        name,
		Description: operationDescription(op),
	}
	if op.Deprecated {
		m.Deprecated = "this operation is deprecated"
	}

	// Path and operation level parameters, operation level winning on
	// name collisions.
	params := mergeParameters(pathItem.Parameters, op.Parameters)

	// Path parameters bind positionally in URL template order, not in
	// declaration order.
	byName := make(map[string]*openapi3.Parameter, len(params))
	for _, p := range params {
		byName[p.Name] = p
	}
	for _, segment := range templateParams(urlPath) {
		p, ok := byName[segment]
		if !ok {
			return nil, fmt.Errorf("path parameter {%s} is not declared", segment)
		}
		arg, err := pathArg(p)
		if err != nil {
			return nil, err
		}
		m.Args = append(m.Args, arg)
	}

	for _, p := range params {
		if p.In != openapi3.ParameterInQuery {
			continue
		}
		opt, err := queryOpt(p)
		if err != nil {
			return nil, err
		}
		m.Opts = append(m.Opts, opt)
	}

	bodyOpts, err := requestBodyOpts(op)
	if err != nil {
		return nil, err
	}
	m.Opts = append(m.Opts, bodyOpts...)

	return m, nil
}

// commandName resolves the command name for an operation.
func commandName(op *openapi3.Operation) string {
	if name, ok := op.Extensions["x-cli-command"].(string); ok && name != "" {
		return name
	}
	return kebabCase(op.OperationID)
}

// operationDescription prefers the summary as the leading line and keeps
// the long description below it.
func operationDescription(op *openapi3.Operation) string {
	summary := strings.TrimSpace(op.Summary)
	desc := strings.TrimSpace(op.Description)

	switch {
	case summary != "" && desc != "":
		return summary + "\n\n" + desc
	case summary != "":
		return summary
	default:
		return desc
	}
}

// mergeParameters combines path-item and operation parameters; the
// operation level wins when both declare the same name and location.
func mergeParameters(levels ...openapi3.Parameters) []*openapi3.Parameter {
	var out []*openapi3.Parameter
	index := make(map[string]int)

	for _, level := range levels {
		for _, ref := range level {
			if ref == nil || ref.Value == nil {
				continue
			}
			p := ref.Value
			key := p.In + " " + p.Name
			if i, ok := index[key]; ok {
				out[i] = p
				continue
			}
			index[key] = len(out)
			out = append(out, p)
		}
	}
	return out
}

// templateParams extracts {name} segments from a URL template in order.
func templateParams(urlPath string) []string {
	var names []string
	for _, segment := range strings.Split(urlPath, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			names = append(names, segment[1:len(segment)-1])
		}
	}
	return names
}

// pathArg converts a path parameter to a positional argument. Path
// parameters are always required.
func pathArg(p *openapi3.Parameter) (Parameter, error) {
	typ, def, err := schemaType(p.Schema)
	if err != nil {
		return Parameter{}, fmt.Errorf("path parameter %q: %w", p.Name, err)
	}
	if typ == "bool" {
		return Parameter{}, fmt.Errorf("path parameter %q: boolean parameters must map to options", p.Name)
	}
	return Parameter{
		Name:        kebabCase(p.Name),
		Type:        typ,
		Default:     def,
		Description: p.Description,
	}, nil
}

// queryOpt converts a query parameter to a long option.
func queryOpt(p *openapi3.Parameter) (Parameter, error) {
	typ, def, err := schemaType(p.Schema)
	if err != nil {
		return Parameter{}, fmt.Errorf("query parameter %q: %w", p.Name, err)
	}

	opt := Parameter{
		Long:        kebabCase(p.Name),
		Type:        typ,
		Default:     def,
		Description: p.Description,
	}
	if p.Required {
		required := true
		opt.Required = &required
	}
	return opt, nil
}

// requestBodyOpts maps the top-level scalar properties of a JSON request
// body to long options. Nested objects have no flat command-line shape
// and are skipped.
func requestBodyOpts(op *openapi3.Operation) ([]Parameter, error) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, nil
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, nil
	}
	schema := media.Schema.Value

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var opts []Parameter
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}

		typ, def, err := schemaType(ref)
		if err != nil {
			return nil, fmt.Errorf("body property %q: %w", name, err)
		}
		if typ == "" {
			continue // nested object or unsupported shape
		}

		opt := Parameter{
			Long:        kebabCase(name),
			Type:        typ,
			Default:     def,
			Description: ref.Value.Description,
		}
		if required[name] && typ != "bool" {
			r := true
			opt.Required = &r
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// schemaType maps an OpenAPI schema to a manifest type name and default.
// Objects return "" so callers can skip them.
func schemaType(ref *openapi3.SchemaRef) (string, any, error) {
	if ref == nil || ref.Value == nil {
		return "string", nil, nil
	}
	schema := ref.Value

	var typ string
	if schema.Type != nil && len(schema.Type.Slice()) > 0 {
		typ = schema.Type.Slice()[0]
	}

	switch typ {
	case "integer":
		return "int", schema.Default, nil
	case "number":
		return "float", schema.Default, nil
	case "boolean":
		// Presence-based flags cannot carry a document default.
		return "bool", nil, nil
	case "array":
		return "[]string", schema.Default, nil
	case "object":
		return "", nil, nil
	default:
		// Untyped schemas read best as strings on a command line.
		return "string", schema.Default, nil
	}
}

// kebabCase converts camelCase and snake_case identifiers to the
// kebab-case spelling used for command and option names.
func kebabCase(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")

	var b strings.Builder
	prevUpper := false
	for i, r := range s {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper && i > 0 && !prevUpper {
			b.WriteByte('-')
		}
		b.WriteRune(r)
		prevUpper = isUpper
	}
	return strings.ToLower(b.String())
}
