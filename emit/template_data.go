package emit

import (
	"sort"
	"strings"

	"github.com/tsbridge/tsbridge/internal/naming"
	"github.com/tsbridge/tsbridge/model"
)

// headerData is the shared generated-file banner.
type headerData struct {
	Title   string
	Version string
}

func header(m *model.Model) headerData {
	return headerData{Title: m.Title, Version: m.Version}
}

// typeDecl is one declaration in types.ts.
type typeDecl struct {
	Name        string
	Description string
	Deprecated  bool
	// IsInterface selects interface syntax; otherwise Expr is the alias
	// right-hand side.
	IsInterface bool
	Fields      []fieldDecl
	// IndexType, when non-empty, adds an index signature of that value type.
	IndexType string
	Expr      string
}

// fieldDecl is one interface member.
type fieldDecl struct {
	Key         string
	Optional    bool
	ReadOnly    bool
	Type        string
	Description string
	Deprecated  bool
}

type typesData struct {
	Header headerData
	Decls  []typeDecl
}

func (e *Emitter) buildTypesData(m *model.Model) typesData {
	data := typesData{Header: header(m)}
	for _, tn := range m.Types() {
		if tn.Name == "" {
			continue
		}
		decl := typeDecl{
			Name:        tn.Name,
			Description: tn.Description,
			Deprecated:  tn.Deprecated,
		}
		if tn.Kind == model.KindRecord {
			decl.IsInterface = true
			for _, f := range tn.Fields {
				decl.Fields = append(decl.Fields, fieldDecl{
					Key:         naming.PropertyKey(f.Name),
					Optional:    !f.Required,
					ReadOnly:    f.ReadOnly,
					Type:        tsType(m, f.Type),
					Description: f.Description,
					Deprecated:  f.Deprecated,
				})
			}
			if tn.AdditionalProps != nil {
				decl.IndexType = tsType(m, *tn.AdditionalProps)
			}
		} else {
			decl.Expr = declExpr(m, tn)
		}
		data.Decls = append(data.Decls, decl)
	}
	return data
}

// validatorDecl is one schema constant in validators.ts.
type validatorDecl struct {
	Const  string
	TSType string
	Expr   string
}

type validatorsData struct {
	Header      headerData
	TypeImports []string
	Decls       []validatorDecl
}

func (e *Emitter) buildValidatorsData(m *model.Model) validatorsData {
	data := validatorsData{Header: header(m)}
	zr := newZodRenderer(e, m)

	for _, tn := range topoOrder(m) {
		decl := validatorDecl{
			Const: schemaConst(tn.Name),
			Expr:  zr.decl(tn),
		}
		// Cycle members are referenced through z.lazy, so their consts need
		// an explicit annotation to break circular type inference. Everything
		// else stays unannotated to preserve the inferred zod type (notably
		// the z.ZodObject shape z.discriminatedUnion requires).
		if tn.Recursive {
			decl.TSType = tn.Name
			data.TypeImports = append(data.TypeImports, tn.Name)
		}
		data.Decls = append(data.Decls, decl)
		zr.emitted[tn.ID] = true
	}
	sort.Strings(data.TypeImports)
	return data
}

// endpointDecl is one client method, with its signature fully precomputed.
type endpointDecl struct {
	Name        string
	Summary     string
	Description string
	Deprecated  bool
	Method      string
	// PathExpr is a template literal interpolating the path parameters.
	PathExpr string
	// ParamSig is the argument list, required parameters first.
	ParamSig string
	// CallArgs is the matching argument list for forwarding calls.
	CallArgs string
	// RequestOpts is the object-literal body for the request options
	// ("body," / "query," / both), empty when neither applies.
	RequestOpts string
	ReturnType  string
	HasReturn   bool
	// QueryType is the query object type literal, empty without query
	// params.
	QueryType     string
	QueryRequired bool
	// TypeNames lists the named model types the signature references.
	TypeNames []string
}

type clientData struct {
	Header      headerData
	BaseURL     string
	TypeImports []string
	Endpoints   []endpointDecl
}

func (e *Emitter) buildClientData(m *model.Model) clientData {
	data := clientData{Header: header(m), BaseURL: m.BaseURL}
	imports := make(map[string]bool)

	for _, ep := range m.VisibleEndpoints() {
		decl := e.buildEndpointDecl(m, ep)
		for _, name := range decl.TypeNames {
			imports[name] = true
		}
		data.Endpoints = append(data.Endpoints, decl)
	}

	for name := range imports {
		data.TypeImports = append(data.TypeImports, name)
	}
	sort.Strings(data.TypeImports)
	return data
}

func (e *Emitter) buildEndpointDecl(m *model.Model, ep model.Endpoint) endpointDecl {
	decl := endpointDecl{
		Name:        ep.OperationID,
		Summary:     ep.Summary,
		Description: ep.Description,
		Deprecated:  ep.Deprecated,
		Method:      ep.Method,
	}
	names := make(map[string]bool)

	// Path parameters become individual required arguments, referenced by
	// their camelCase name inside the path template literal.
	argName := make(map[string]string, len(ep.PathParams))
	var required, optional []string
	var callArgs []string
	for _, p := range ep.PathParams {
		arg := naming.ToCamelCase(p.Name)
		argName[p.Name] = arg
		required = append(required, arg+": "+tsType(m, p.Type))
		callArgs = append(callArgs, arg)
		collectTypeNames(m, p.Type, names)
	}
	decl.PathExpr = pathTemplate(ep.Path, func(name string) string {
		if arg, ok := argName[name]; ok {
			return arg
		}
		return naming.ToCamelCase(name)
	})

	var opts []string
	if ep.Request != nil {
		bodyType := tsType(m, ep.Request.Type)
		collectTypeNames(m, ep.Request.Type, names)
		if ep.Request.Required {
			required = append(required, "body: "+bodyType)
		} else {
			optional = append(optional, "body?: "+bodyType)
		}
		callArgs = append(callArgs, "body")
		opts = append(opts, "body")
	}

	if len(ep.QueryParams) > 0 {
		var members []string
		queryRequired := false
		for _, q := range ep.QueryParams {
			member := naming.PropertyKey(q.Name)
			if !q.Required {
				member += "?"
			} else {
				queryRequired = true
			}
			members = append(members, member+": "+tsType(m, q.Type))
			collectTypeNames(m, q.Type, names)
		}
		decl.QueryType = "{ " + strings.Join(members, "; ") + " }"
		decl.QueryRequired = queryRequired
		if queryRequired {
			required = append(required, "query: "+decl.QueryType)
		} else {
			optional = append(optional, "query?: "+decl.QueryType)
		}
		callArgs = append(callArgs, "query")
		opts = append(opts, "query")
	}

	decl.ParamSig = strings.Join(append(required, optional...), ", ")
	decl.CallArgs = strings.Join(callArgs, ", ")
	decl.RequestOpts = strings.Join(opts, ", ")

	decl.ReturnType = "void"
	if success := ep.SuccessResponse(); success != nil && !success.Empty {
		decl.ReturnType = tsType(m, success.Type)
		decl.HasReturn = true
		collectTypeNames(m, success.Type, names)
	} else if success == nil {
		e.report(SeverityWarning, ArtifactClient,
			"paths."+ep.Path+"."+strings.ToLower(ep.Method),
			"operation declares no 2xx response; the client method resolves to void")
	}

	for name := range names {
		decl.TypeNames = append(decl.TypeNames, name)
	}
	sort.Strings(decl.TypeNames)
	return decl
}

// collectTypeNames gathers the named declarations a type expression
// references, for import generation.
func collectTypeNames(m *model.Model, ref model.TypeRef, into map[string]bool) {
	tn := m.Node(ref)
	if tn == nil {
		return
	}
	if tn.Name != "" {
		into[tn.Name] = true
		return
	}
	if tn.Kind == model.KindArray {
		collectTypeNames(m, tn.Elem, into)
	}
}

// hookDecl is one generated hook.
type hookDecl struct {
	Name     string
	Endpoint endpointDecl
	// KeyParts is the query-key expression list: "'getUser', id".
	KeyParts string
	// DepArgs is the effect dependency list: "client, id, query".
	DepArgs string
}

type hooksData struct {
	Header      headerData
	TypeImports []string
	Hooks       []hookDecl
}

func (e *Emitter) buildHooksData(m *model.Model) hooksData {
	data := hooksData{Header: header(m)}
	imports := make(map[string]bool)

	for _, ep := range m.VisibleEndpoints() {
		// Hooks bind read operations; mutations go through the client.
		if ep.Method != "GET" {
			continue
		}
		decl := e.buildEndpointDecl(m, ep)
		if !decl.HasReturn {
			continue
		}
		for _, name := range decl.TypeNames {
			imports[name] = true
		}

		keyParts := []string{"'" + ep.OperationID + "'"}
		if decl.CallArgs != "" {
			keyParts = append(keyParts, strings.Split(decl.CallArgs, ", ")...)
		}
		deps := append([]string{"client"}, strings.Split(decl.CallArgs, ", ")...)
		if decl.CallArgs == "" {
			deps = []string{"client"}
		}

		data.Hooks = append(data.Hooks, hookDecl{
			Name:     naming.HookName(ep.OperationID),
			Endpoint: decl,
			KeyParts: strings.Join(keyParts, ", "),
			DepArgs:  strings.Join(deps, ", "),
		})
	}

	for name := range imports {
		data.TypeImports = append(data.TypeImports, name)
	}
	sort.Strings(data.TypeImports)
	return data
}

// docEndpoint is one row in the generated guides.
type docEndpoint struct {
	Method     string
	Path       string
	Name       string
	Summary    string
	ReturnType string
	HookName   string
	Deprecated bool
}

type docsData struct {
	Header      headerData
	Title       string
	Version     string
	Description string
	BaseURL     string
	HookMode    string
	HasHooks    bool
	Endpoints []docEndpoint
	TypeCount int
	Example   *docEndpoint
	// ExampleSchema is the validator constant of the example endpoint's
	// return type, when that type is a plain named declaration.
	ExampleSchema string
}

func (e *Emitter) buildDocsData(m *model.Model, mode HookMode) docsData {
	data := docsData{
		Header:      header(m),
		Title:       m.Title,
		Version:     m.Version,
		Description: m.Description,
		BaseURL:     m.BaseURL,
		HookMode:    string(mode),
		HasHooks:    mode != HookModeNone,
	}
	if data.Title == "" {
		data.Title = "API"
	}

	for _, tn := range m.Types() {
		if tn.Name != "" {
			data.TypeCount++
		}
	}

	for _, ep := range m.VisibleEndpoints() {
		decl := e.buildEndpointDecl(m, ep)
		doc := docEndpoint{
			Method:     ep.Method,
			Path:       ep.Path,
			Name:       ep.OperationID,
			Summary:    ep.Summary,
			ReturnType: decl.ReturnType,
			Deprecated: ep.Deprecated,
		}
		if data.HasHooks && ep.Method == "GET" && decl.HasReturn {
			doc.HookName = naming.HookName(ep.OperationID)
		}
		data.Endpoints = append(data.Endpoints, doc)
		if data.Example == nil && ep.Method == "GET" && decl.HasReturn {
			example := doc
			data.Example = &example
			if naming.IsValidPropertyKey(decl.ReturnType) {
				data.ExampleSchema = schemaConst(decl.ReturnType)
			}
		}
	}
	return data
}
