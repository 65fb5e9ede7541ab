package emit

import (
	"fmt"
	"strings"

	"github.com/tsbridge/tsbridge/internal/naming"
	"github.com/tsbridge/tsbridge/model"
)

// zodRenderer renders zod validator expressions. Declarations are written in
// dependency order so schema constants reference each other directly;
// only edges that close a cycle fall back to z.lazy.
type zodRenderer struct {
	emitter *Emitter
	m       *model.Model
	// emitted tracks schema constants already declared above the current
	// rendering position.
	emitted map[model.TypeID]bool
}

func newZodRenderer(e *Emitter, m *model.Model) *zodRenderer {
	return &zodRenderer{emitter: e, m: m, emitted: make(map[model.TypeID]bool)}
}

// schemaConst is the exported validator constant name for a type.
func schemaConst(name string) string {
	return name + "Schema"
}

// decl renders the full right-hand side for one named declaration.
func (z *zodRenderer) decl(tn *model.TypeNode) string {
	switch tn.Kind {
	case model.KindRecord:
		return z.record(tn)
	case model.KindUnion:
		return z.union(tn)
	case model.KindEnum:
		return z.enum(tn)
	case model.KindArray:
		return z.array(tn, model.Constraint{})
	case model.KindAlias:
		return z.ref(tn.Target, model.Constraint{})
	case model.KindPrimitive:
		return z.primitive(tn, model.Constraint{})
	default:
		return "z.unknown()"
	}
}

// ref renders the validator expression for a type reference with the
// constraints declared at this occurrence.
func (z *zodRenderer) ref(ref model.TypeRef, c model.Constraint) string {
	tn := z.m.Node(ref)
	if tn == nil {
		return "z.unknown()"
	}

	var expr string
	if tn.Name != "" {
		expr = z.namedRef(tn)
	} else {
		switch tn.Kind {
		case model.KindArray:
			expr = z.array(tn, c)
		case model.KindPrimitive:
			expr = z.primitive(tn, c)
		default:
			expr = "z.unknown()"
		}
	}

	if ref.Nullable {
		expr += ".nullable()"
	}
	return expr
}

// namedRef references another declared schema constant, lazily when the
// target has not been declared yet (a cycle back-edge).
func (z *zodRenderer) namedRef(tn *model.TypeNode) string {
	if z.emitted[tn.ID] {
		return schemaConst(tn.Name)
	}
	return fmt.Sprintf("z.lazy(() => %s)", schemaConst(tn.Name))
}

func (z *zodRenderer) record(tn *model.TypeNode) string {
	if len(tn.Fields) == 0 && tn.AdditionalProps != nil {
		return fmt.Sprintf("z.record(z.string(), %s)", z.ref(*tn.AdditionalProps, model.Constraint{}))
	}

	var sb strings.Builder
	sb.WriteString("z.object({\n")
	for _, f := range tn.Fields {
		expr := z.ref(f.Type, f.Constraint)
		if !f.Required {
			expr += ".optional()"
		}
		fmt.Fprintf(&sb, "  %s: %s,\n", naming.PropertyKey(f.Name), expr)
	}
	sb.WriteString("})")

	if tn.AdditionalProps != nil {
		fmt.Fprintf(&sb, ".catchall(%s)", z.ref(*tn.AdditionalProps, model.Constraint{}))
	}
	return sb.String()
}

func (z *zodRenderer) union(tn *model.TypeNode) string {
	parts := make([]string, len(tn.Variants))
	direct := true
	for i, v := range tn.Variants {
		target := z.m.Node(v)
		if target == nil || target.Name == "" || target.Kind != model.KindRecord || !z.emitted[target.ID] {
			direct = false
		}
		parts[i] = z.ref(v, model.Constraint{})
	}

	if tn.Discriminator != "" && direct {
		return fmt.Sprintf("z.discriminatedUnion(%q, [%s])", tn.Discriminator, strings.Join(parts, ", "))
	}
	if tn.Discriminator != "" {
		z.emitter.report(SeverityWarning, ArtifactValidators, tn.Origin,
			"discriminator cannot be enforced on non-object or cyclic variants; using a plain union")
	}
	return fmt.Sprintf("z.union([%s])", strings.Join(parts, ", "))
}

func (z *zodRenderer) enum(tn *model.TypeNode) string {
	if len(tn.Values) == 1 {
		return fmt.Sprintf("z.literal(%s)", tsLiteral(tn.Values[0]))
	}

	allStrings := true
	for _, v := range tn.Values {
		if _, ok := v.(string); !ok {
			allStrings = false
			break
		}
	}
	if allStrings {
		parts := make([]string, len(tn.Values))
		for i, v := range tn.Values {
			parts[i] = tsLiteral(v)
		}
		return fmt.Sprintf("z.enum([%s])", strings.Join(parts, ", "))
	}

	parts := make([]string, len(tn.Values))
	for i, v := range tn.Values {
		parts[i] = fmt.Sprintf("z.literal(%s)", tsLiteral(v))
	}
	return fmt.Sprintf("z.union([%s])", strings.Join(parts, ", "))
}

func (z *zodRenderer) array(tn *model.TypeNode, c model.Constraint) string {
	expr := fmt.Sprintf("z.array(%s)", z.ref(tn.Elem, model.Constraint{}))
	if c.MinItems != nil {
		expr += fmt.Sprintf(".min(%d)", *c.MinItems)
	}
	if c.MaxItems != nil {
		expr += fmt.Sprintf(".max(%d)", *c.MaxItems)
	}
	if c.UniqueItems {
		z.emitter.report(SeverityInfo, ArtifactValidators, tn.Origin,
			"uniqueItems is not enforced at runtime")
	}
	return expr
}

func (z *zodRenderer) primitive(tn *model.TypeNode, c model.Constraint) string {
	switch tn.Primitive {
	case model.PrimitiveString:
		return zodString(c)
	case model.PrimitiveInteger:
		return zodNumber(c, true)
	case model.PrimitiveNumber:
		return zodNumber(c, false)
	case model.PrimitiveBoolean:
		return "z.boolean()"
	default:
		return "z.unknown()"
	}
}

func zodString(c model.Constraint) string {
	expr := "z.string()"
	switch c.Format {
	case "email":
		expr += ".email()"
	case "uuid":
		expr += ".uuid()"
	case "uri", "url":
		expr += ".url()"
	case "date-time":
		expr += ".datetime()"
	}
	if c.MinLength != nil {
		expr += fmt.Sprintf(".min(%d)", *c.MinLength)
	}
	if c.MaxLength != nil {
		expr += fmt.Sprintf(".max(%d)", *c.MaxLength)
	}
	if c.Pattern != "" {
		expr += fmt.Sprintf(".regex(new RegExp(%s))", tsLiteral(c.Pattern))
	}
	return expr
}

func zodNumber(c model.Constraint, integer bool) string {
	expr := "z.number()"
	if integer {
		expr += ".int()"
	}
	if c.Minimum != nil {
		if c.ExclusiveMinimum {
			expr += fmt.Sprintf(".gt(%s)", formatNumber(*c.Minimum))
		} else {
			expr += fmt.Sprintf(".gte(%s)", formatNumber(*c.Minimum))
		}
	}
	if c.Maximum != nil {
		if c.ExclusiveMaximum {
			expr += fmt.Sprintf(".lt(%s)", formatNumber(*c.Maximum))
		} else {
			expr += fmt.Sprintf(".lte(%s)", formatNumber(*c.Maximum))
		}
	}
	if c.MultipleOf != nil {
		expr += fmt.Sprintf(".multipleOf(%s)", formatNumber(*c.MultipleOf))
	}
	return expr
}

// formatNumber renders a float without a trailing ".0" for whole values.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// topoOrder returns the named declarations in dependency order: every
// non-cyclic dependency precedes its dependents, so validator constants can
// reference each other directly. Ties and cycles keep build order.
func topoOrder(m *model.Model) []*model.TypeNode {
	var order []*model.TypeNode
	state := make(map[model.TypeID]int) // 0 unvisited, 1 visiting, 2 done

	var visit func(tn *model.TypeNode)
	visit = func(tn *model.TypeNode) {
		if tn == nil || state[tn.ID] != 0 {
			return
		}
		state[tn.ID] = 1
		for _, dep := range dependencies(m, tn) {
			if state[dep.ID] == 0 {
				visit(dep)
			}
		}
		state[tn.ID] = 2
		if tn.Name != "" {
			order = append(order, tn)
		}
	}

	for _, tn := range m.Types() {
		if tn.Name != "" {
			visit(tn)
		}
	}
	return order
}

// dependencies lists the nodes a declaration's body refers to, following
// anonymous nodes transitively.
func dependencies(m *model.Model, tn *model.TypeNode) []*model.TypeNode {
	var deps []*model.TypeNode
	var add func(ref model.TypeRef)
	add = func(ref model.TypeRef) {
		target := m.Node(ref)
		if target == nil {
			return
		}
		if target.Name != "" {
			deps = append(deps, target)
			return
		}
		// Anonymous containers pull in whatever they wrap.
		if target.Kind == model.KindArray {
			add(target.Elem)
		}
	}

	switch tn.Kind {
	case model.KindRecord:
		for _, f := range tn.Fields {
			add(f.Type)
		}
		if tn.AdditionalProps != nil {
			add(*tn.AdditionalProps)
		}
	case model.KindUnion:
		for _, v := range tn.Variants {
			add(v)
		}
	case model.KindArray:
		add(tn.Elem)
	case model.KindAlias:
		add(tn.Target)
	}
	return deps
}
