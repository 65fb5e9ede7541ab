package emit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/tsbridge/tsbridge/model"
)

// Fingerprints summarizes the emission-relevant identity of a model: one
// digest over the type declarations (including constraints) and one over the
// endpoint surface. The change engine compares them against the last
// snapshot to schedule only affected artifacts.
type Fingerprints struct {
	// Types covers every declaration: names, shapes, and constraints. It
	// changes whenever types.ts or validators.ts would change.
	Types string
	// Endpoints covers the operation surface including the type names
	// appearing in signatures. It changes whenever client.ts or hooks.ts
	// would change.
	Endpoints string
	// Docs covers the document metadata and declaration count the guides
	// summarize on top of the endpoint surface.
	Docs string
}

// Fingerprint computes the model's emission fingerprints. The digest input
// is a deterministic walk, so equal models yield equal fingerprints.
func Fingerprint(m *model.Model) Fingerprints {
	// Title and version appear in every artifact header.
	docID := fmt.Sprintf("doc=%s|%s\n", m.Title, m.Version)

	th := sha256.New()
	fmt.Fprint(th, docID)
	for _, tn := range m.Types() {
		writeTypeFingerprint(th, m, tn)
	}

	eh := sha256.New()
	fmt.Fprint(eh, docID)
	fmt.Fprintf(eh, "base=%s\n", m.BaseURL)
	for _, ep := range m.VisibleEndpoints() {
		writeEndpointFingerprint(eh, m, ep)
	}

	named := 0
	for _, tn := range m.Types() {
		if tn.Name != "" {
			named++
		}
	}
	dh := sha256.New()
	fmt.Fprint(dh, docID)
	fmt.Fprintf(dh, "desc=%q base=%s types=%d\n", m.Description, m.BaseURL, named)
	for _, ep := range m.VisibleEndpoints() {
		writeEndpointFingerprint(dh, m, ep)
	}

	return Fingerprints{
		Types:     hex.EncodeToString(th.Sum(nil)),
		Endpoints: hex.EncodeToString(eh.Sum(nil)),
		Docs:      hex.EncodeToString(dh.Sum(nil)),
	}
}

func writeTypeFingerprint(w io.Writer, m *model.Model, tn *model.TypeNode) {
	fmt.Fprintf(w, "type %s kind=%s recursive=%t desc=%q\n",
		tn.Name, tn.Kind, tn.Recursive, tn.Description)
	switch tn.Kind {
	case model.KindRecord:
		for _, f := range tn.Fields {
			fmt.Fprintf(w, "  field %s required=%t type=%s %s\n",
				f.Name, f.Required, tsType(m, f.Type), constraintFingerprint(f.Constraint))
		}
		if tn.AdditionalProps != nil {
			fmt.Fprintf(w, "  extra %s\n", tsType(m, *tn.AdditionalProps))
		}
	case model.KindUnion:
		fmt.Fprintf(w, "  union %s tag=%s\n", tsUnionExpr(m, tn.Variants), tn.Discriminator)
	case model.KindEnum:
		fmt.Fprintf(w, "  enum %s\n", tsEnumExpr(tn.Values))
	case model.KindArray:
		fmt.Fprintf(w, "  elem %s\n", tsType(m, tn.Elem))
	case model.KindAlias:
		fmt.Fprintf(w, "  alias %s\n", tsType(m, tn.Target))
	case model.KindPrimitive:
		fmt.Fprintf(w, "  prim %s format=%s\n", tn.Primitive, tn.Format)
	}
}

func writeEndpointFingerprint(w io.Writer, m *model.Model, ep model.Endpoint) {
	fmt.Fprintf(w, "op %s %s %s deprecated=%t summary=%q\n",
		ep.OperationID, ep.Method, ep.Path, ep.Deprecated, ep.Summary)
	for _, p := range ep.PathParams {
		fmt.Fprintf(w, "  path %s required=%t type=%s\n", p.Name, p.Required, tsType(m, p.Type))
	}
	for _, q := range ep.QueryParams {
		fmt.Fprintf(w, "  query %s required=%t type=%s\n", q.Name, q.Required, tsType(m, q.Type))
	}
	if ep.Request != nil {
		fmt.Fprintf(w, "  body required=%t type=%s\n", ep.Request.Required, tsType(m, ep.Request.Type))
	}
	for _, r := range ep.Responses {
		fmt.Fprintf(w, "  resp %s empty=%t type=%s\n", r.Status, r.Empty, tsType(m, r.Type))
	}
}

// constraintFingerprint serializes a constraint deterministically.
func constraintFingerprint(c model.Constraint) string {
	if c.IsZero() {
		return "unconstrained"
	}
	enum := ""
	if c.Enum != nil {
		enum = tsEnumExpr(c.Enum.Values)
	}
	return fmt.Sprintf("minLen=%s maxLen=%s pattern=%q format=%s min=%s max=%s exMin=%t exMax=%t multipleOf=%s minItems=%s maxItems=%s unique=%t enum=%q",
		intPtr(c.MinLength), intPtr(c.MaxLength), c.Pattern, c.Format,
		floatPtr(c.Minimum), floatPtr(c.Maximum), c.ExclusiveMinimum, c.ExclusiveMaximum,
		floatPtr(c.MultipleOf), intPtr(c.MinItems), intPtr(c.MaxItems), c.UniqueItems, enum)
}

func intPtr(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

func floatPtr(p *float64) string {
	if p == nil {
		return "-"
	}
	return formatNumber(*p)
}
