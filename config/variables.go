// Copyright (C) 2021-2025 Chronicle Labs, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"maps"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

const (
	// varBlockName is the name of the block that declares session variables.
	varBlockName = "variables"

	// varObjectName is the name of the object through which variables are
	// referenced, both in other variables and in the rest of the file.
	varObjectName = "var"
)

// Variables evaluates the attributes of all "variables" blocks in body and
// stores them in the "var" object of the evaluation context. Variables may
// reference each other in any order, they are evaluated in dependency order.
//
// Example:
//
//	variables {
//	  files = ["${var.root}/a.csv", "${var.root}/b.csv"]
//	  root  = "/data"
//	}
//
// If a variable is declared in more than one block, the last declaration is
// used. The returned body contains everything except the variables blocks.
func Variables(ctx *hcl.EvalContext, body hcl.Body) (hcl.Body, hcl.Diagnostics) {
	content, remain, diags := body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{{Type: varBlockName}},
	})
	if diags.HasErrors() {
		return nil, diags
	}

	attrs, diags := collectAttributes(content)
	if diags.HasErrors() {
		return nil, diags
	}

	sorted, diags := topologicalSort(ctx, collectVariables(attrs))
	if diags.HasErrors() {
		return nil, diags
	}

	if ctx.Variables == nil {
		ctx.Variables = make(map[string]cty.Value)
	}
	ctx.Variables[varObjectName] = cty.EmptyObjectVal

	for _, v := range sorted {
		diags = diags.Extend(v.evaluate(ctx))
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return remain, diags
}

func collectAttributes(content *hcl.BodyContent) (hcl.Attributes, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	attrs := make(hcl.Attributes)
	for _, block := range content.Blocks {
		battrs, bdiags := block.Body.JustAttributes()
		diags = diags.Extend(bdiags)
		if bdiags.HasErrors() {
			continue
		}
		maps.Copy(attrs, battrs)
	}
	return attrs, diags
}

// collectVariables builds the dependency graph of the declared variables.
// References to undeclared variables are left to the evaluation, which
// reports them.
func collectVariables(attrs hcl.Attributes) []*variable {
	m := make(map[string]*variable, len(attrs))
	for name, attr := range attrs {
		m[name] = &variable{name: name, attr: attr}
	}
	l := make([]*variable, 0, len(m))
	for _, v := range m {
		for _, tr := range v.attr.Expr.Variables() {
			if ref, ok := m[referencedName(tr)]; ok {
				v.refs = append(v.refs, ref)
			}
		}
		l = append(l, v)
	}
	// Keep the evaluation order stable between runs.
	sort.Slice(l, func(i, j int) bool { return l[i].name < l[j].name })
	return l
}

// referencedName returns the variable name referenced by a "var.NAME"
// traversal or an empty string.
func referencedName(tr hcl.Traversal) string {
	if tr.RootName() != varObjectName || len(tr) < 2 {
		return ""
	}
	switch t := tr[1].(type) {
	case hcl.TraverseAttr:
		return t.Name
	case hcl.TraverseIndex:
		if t.Key.Type() == cty.String && t.Key.IsKnown() && !t.Key.IsNull() {
			return t.Key.AsString()
		}
	}
	return ""
}

// topologicalSort using DFS algorithm (https://en.wikipedia.org/wiki/Topological_sorting)
func topologicalSort(ctx *hcl.EvalContext, nodes []*variable) ([]*variable, hcl.Diagnostics) {
	var res []*variable
	temp := make(map[string]bool, len(nodes))
	mark := make(map[string]bool, len(nodes))

	var visit func(node *variable) hcl.Diagnostics
	visit = func(node *variable) hcl.Diagnostics {
		if mark[node.name] {
			return nil
		}
		if temp[node.name] {
			return hcl.Diagnostics{{
				Severity:    hcl.DiagError,
				Summary:     "Circular reference detected",
				Detail:      "Variable " + node.name + " refers to itself through a circular reference.",
				Subject:     node.attr.Expr.Range().Ptr(),
				Expression:  node.attr.Expr,
				EvalContext: ctx,
			}}
		}
		temp[node.name] = true
		for _, ref := range node.refs {
			if diags := visit(ref); diags.HasErrors() {
				return diags
			}
		}
		temp[node.name] = false
		mark[node.name] = true
		res = append(res, node)
		return nil
	}

	for _, node := range nodes {
		if diags := visit(node); diags.HasErrors() {
			return nil, diags
		}
	}
	return res, nil
}

type variable struct {
	name string
	attr *hcl.Attribute
	refs []*variable
}

func (v *variable) evaluate(ctx *hcl.EvalContext) hcl.Diagnostics {
	value, diags := v.attr.Expr.Value(ctx)
	if diags.HasErrors() {
		return diags
	}
	values := ctx.Variables[varObjectName].AsValueMap()
	if values == nil {
		values = make(map[string]cty.Value)
	}
	values[v.name] = value
	ctx.Variables[varObjectName] = cty.ObjectVal(values)
	return diags
}
