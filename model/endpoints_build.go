package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsbridge/tsbridge/internal/naming"
	"github.com/tsbridge/tsbridge/resolver"
)

// buildEndpoints converts every path operation into an Endpoint, binding its
// parameter, request, and response schemas to type refs through the graph's
// inline nodes.
func (bd *build) buildEndpoints() error {
	doc := bd.graph.Document
	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, pathKey := range paths {
		item := doc.Paths[pathKey]
		if item == nil {
			continue
		}
		for _, mo := range item.Operations() {
			ep, err := bd.buildEndpoint(pathKey, item, mo)
			if err != nil {
				return err
			}
			bd.model.Endpoints = append(bd.model.Endpoints, ep)
		}
	}
	return nil
}

func (bd *build) buildEndpoint(pathKey string, item *resolver.PathItem, mo resolver.MethodOperation) (Endpoint, error) {
	op := mo.Operation
	opID := op.OperationID
	if opID == "" {
		opID = synthesizeOperationID(mo.Method, pathKey)
	}
	opID = naming.FunctionName(opID)

	ep := Endpoint{
		OperationID: opID,
		Method:      mo.Method,
		Path:        pathKey,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
		Tags:        op.Tags,
	}
	ep.Visible = !bd.excluded(&ep)
	base := fmt.Sprintf("paths.%s.%s", pathKey, strings.ToLower(mo.Method))

	params := mergeParameters(base, pathKey, item.Parameters, op.Parameters)
	for _, mp := range params {
		ref, err := bd.parameterRef(mp, opID)
		if err != nil {
			return Endpoint{}, err
		}
		p := Param{
			Name:        mp.param.Name,
			Type:        ref,
			Required:    mp.param.Required,
			Description: mp.param.Description,
		}
		switch mp.param.In {
		case "path":
			// Path parameters are always required regardless of declaration.
			p.Required = true
			ep.PathParams = append(ep.PathParams, p)
		case "query":
			ep.QueryParams = append(ep.QueryParams, p)
		}
	}

	if op.RequestBody != nil {
		if node, ok := bd.graph.Node(base + ".requestBody"); ok {
			ref, err := bd.buildRef(node.Schema, naming.ToPascalCase(opID)+"Request", node.Path)
			if err != nil {
				return Endpoint{}, err
			}
			ep.Request = &Body{Type: ref, Required: op.RequestBody.Required}
		}
	}

	statuses := make([]string, 0, len(op.Responses))
	for status := range op.Responses {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		resp := op.Responses[status]
		if resp == nil {
			continue
		}
		binding := ResponseBinding{Status: status, Description: resp.Description}
		if node, ok := bd.graph.Node(base + ".responses." + status); ok {
			hint := naming.ToPascalCase(opID) + "Response"
			if !strings.HasPrefix(status, "2") {
				hint += status
			}
			ref, err := bd.buildRef(node.Schema, hint, node.Path)
			if err != nil {
				return Endpoint{}, err
			}
			binding.Type = ref
		} else {
			binding.Empty = true
			binding.Type = bd.primitiveRef(PrimitiveUnknown, "", false)
		}
		ep.Responses = append(ep.Responses, binding)
	}
	sortResponses(ep.Responses)

	return ep, nil
}

// mergedParam pairs a parameter with the canonical graph path its schema was
// registered under.
type mergedParam struct {
	param *resolver.Parameter
	path  string
}

// mergeParameters combines path-item level and operation level parameters;
// an operation parameter overrides a shared one with the same name and
// location.
func mergeParameters(base, pathKey string, shared, own []*resolver.Parameter) []mergedParam {
	out := make([]mergedParam, 0, len(shared)+len(own))
	for i, p := range shared {
		if p == nil {
			continue
		}
		out = append(out, mergedParam{
			param: p,
			path:  fmt.Sprintf("paths.%s.parameters.%d.%s", pathKey, i, p.Name),
		})
	}
	for _, p := range own {
		if p == nil {
			continue
		}
		mp := mergedParam{param: p, path: base + ".parameters." + p.Name}
		replaced := false
		for i := range out {
			if out[i].param.Name == p.Name && out[i].param.In == p.In {
				out[i] = mp
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, mp)
		}
	}
	return out
}

// parameterRef binds a parameter schema to a type ref, preferring the
// normalized graph node over the raw declaration.
func (bd *build) parameterRef(mp mergedParam, opID string) (TypeRef, error) {
	schema := mp.param.Schema
	where := mp.path
	if node, ok := bd.graph.Node(mp.path); ok {
		schema = node.Schema
	}
	if schema == nil {
		return bd.primitiveRef(PrimitiveString, "", false), nil
	}
	hint := naming.ToPascalCase(opID) + naming.ToPascalCase(mp.param.Name)
	return bd.buildRef(schema, hint, where)
}

// synthesizeOperationID derives a deterministic operation id from the method
// and path template, e.g. GET /users/{id} -> getUsersById.
func synthesizeOperationID(method, pathKey string) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(method))
	for _, seg := range strings.Split(pathKey, "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			sb.WriteString("By")
			sb.WriteString(naming.ToPascalCase(strings.Trim(seg, "{}")))
			continue
		}
		sb.WriteString(naming.ToPascalCase(seg))
	}
	return sb.String()
}

// excluded reports whether the endpoint carries a tag on the exclusion list.
func (bd *build) excluded(ep *Endpoint) bool {
	for _, ex := range bd.builder.ExcludeTags {
		if ep.HasTag(ex) {
			return true
		}
	}
	return false
}
