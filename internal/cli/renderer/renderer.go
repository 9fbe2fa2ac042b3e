// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package renderer turns compilation results and registry metadata into
// human-readable cli output.
package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ddddddO/gtree"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/platform-engineering-labs/stratum/internal/cli/display"
	"github.com/platform-engineering-labs/stratum/internal/compiler"
	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/model"
)

func newTable(buf *strings.Builder) *tablewriter.Table {
	return tablewriter.NewTable(buf,
		tablewriter.WithRowAutoWrap(tw.WrapBreak),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On, ShowHeader: tw.On}},
		})))
}

// RenderConstructs renders the registered construct catalog in a table.
func RenderConstructs(descriptors []construct.Descriptor) (string, error) {
	var buf strings.Builder
	table := newTable(&buf)
	table.Header(display.LightBlue("Type"), "Description", "Commands")

	for _, descriptor := range descriptors {
		commands := "-"
		if len(descriptor.Commands) > 0 {
			commands = strings.Join(descriptor.Commands, "\n")
		}
		if err := table.Append(display.Green(descriptor.Type), descriptor.Doc, commands); err != nil {
			return "", err
		}
	}

	if err := table.Render(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RenderSchema renders the configuration schema of one construct type.
func RenderSchema(typeID string, schema model.Schema) (string, error) {
	var buf strings.Builder
	table := newTable(&buf)
	table.Header(display.LightBlue("Field"), "Type", "Required", "Constraints", "Description")

	for _, name := range schema.FieldNames() {
		field := schema.Fields[name]
		required := ""
		if field.Required {
			required = "yes"
		}
		if err := table.Append(display.Green(name), string(field.Type), required,
			renderConstraints(field), field.Doc); err != nil {
			return "", err
		}
	}

	if err := table.Render(); err != nil {
		return "", err
	}

	return display.Gold(typeID) + "\n\n" + buf.String(), nil
}

func renderConstraints(field model.Field) string {
	var parts []string
	if len(field.Enum) > 0 {
		parts = append(parts, "one of: "+strings.Join(field.Enum, ", "))
	}
	if field.Pattern != "" {
		parts = append(parts, "pattern: "+field.Pattern)
	}
	if field.MinLength > 0 {
		parts = append(parts, fmt.Sprintf("min length: %d", field.MinLength))
	}
	if field.Minimum != nil {
		parts = append(parts, fmt.Sprintf("minimum: %d", *field.Minimum))
	}
	return strings.Join(parts, "\n")
}

// RenderResourceTree renders the compiled resource graph grouped by
// construct.
func RenderResourceTree(result *compiler.Result) (string, error) {
	root := gtree.NewRoot(display.Gold(result.Definition.Stack))

	byConstruct := make(map[string][]string)
	for _, resourceID := range result.ResourceIDs() {
		constructID, _, found := strings.Cut(resourceID, ".")
		if !found {
			constructID = resourceID
		}
		byConstruct[constructID] = append(byConstruct[constructID], resourceID)
	}

	for _, constructID := range result.Definition.LogicalIDs() {
		decl := result.Definition.Constructs[constructID]
		node := root.Add(display.Green(constructID) + display.Grey(" ("+decl.Type+")"))
		for _, resourceID := range byConstruct[constructID] {
			resourceType, _ := result.ResourceType(resourceID)
			node.Add(resourceID + display.Grey(" "+resourceType))
		}
	}

	if keys := result.OutputKeys(); len(keys) > 0 {
		node := root.Add(display.Gold("outputs"))
		for _, key := range keys {
			node.Add(key)
		}
	}

	var buf strings.Builder
	if err := gtree.OutputFromRoot(&buf, root); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RenderVariables renders every construct's variable surface. Values only
// known after deployment print as their encoded template expression.
func RenderVariables(result *compiler.Result) (string, error) {
	var buf strings.Builder
	table := newTable(&buf)
	table.Header(display.LightBlue("Variable"), "Value")

	var rows [][2]string
	for constructID, instance := range result.Constructs {
		for name, variable := range instance.Variables() {
			rows = append(rows, [2]string{constructID + "." + name, renderVariable(variable)})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	for _, row := range rows {
		if err := table.Append(display.Green(row[0]), row[1]); err != nil {
			return "", err
		}
	}

	if err := table.Render(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func renderVariable(variable construct.Variable) string {
	if value, ok := variable.Static(); ok {
		return value
	}

	node, err := variable.Value()
	if err != nil {
		return display.Red(err.Error())
	}

	encoded, err := node.Encode()
	if err != nil {
		return display.Red(err.Error())
	}

	return display.Grey("(deferred) ") + string(encoded)
}
