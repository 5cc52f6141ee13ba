package meta

import (
	"fmt"

	"github.com/FrankKr/power-grid-model/pkg/dataset"
)

// Attribute shorthands matching the upstream dtype notation.

func f8(name string) dataset.Attribute {
	return dataset.Attribute{Name: name, Kind: dataset.Float64, Size: 1}
}

func f8x3(name string) dataset.Attribute {
	return dataset.Attribute{Name: name, Kind: dataset.Float64, Size: 3}
}

func i4(name string) dataset.Attribute {
	return dataset.Attribute{Name: name, Kind: dataset.Int32, Size: 1}
}

func i1(name string) dataset.Attribute {
	return dataset.Attribute{Name: name, Kind: dataset.Int8, Size: 1}
}

func mustSchema(attributes []dataset.Attribute) *dataset.Schema {
	schema, err := dataset.NewSchema(attributes)
	if err != nil {
		panic(fmt.Sprintf("invalid standard layout: %v", err))
	}
	return schema
}

func mustSchemas(layouts map[string][]dataset.Attribute) map[string]*dataset.Schema {
	schemas := make(map[string]*dataset.Schema, len(layouts))
	for component, attributes := range layouts {
		schemas[component] = mustSchema(attributes)
	}
	return schemas
}

// standardLayouts builds the attribute layouts of the standard power-grid
// components, following the upstream power-grid-model metadata: ids and node
// references are i4, statuses and enums are i1, physical quantities are f8,
// and asymmetric (per-phase) quantities are f8 vectors of size 3.
func standardLayouts() map[string]map[string]*dataset.Schema {
	return map[string]map[string]*dataset.Schema{
		DataTypeInput:      mustSchemas(inputLayouts()),
		DataTypeUpdate:     mustSchemas(updateLayouts()),
		DataTypeSymOutput:  mustSchemas(outputLayouts(false)),
		DataTypeAsymOutput: mustSchemas(outputLayouts(true)),
	}
}

func inputLayouts() map[string][]dataset.Attribute {
	symLoadGen := []dataset.Attribute{
		i4("id"), i4("node"), i1("status"), i1("type"),
		f8("p_specified"), f8("q_specified"),
	}
	asymLoadGen := []dataset.Attribute{
		i4("id"), i4("node"), i1("status"), i1("type"),
		f8x3("p_specified"), f8x3("q_specified"),
	}

	return map[string][]dataset.Attribute{
		"node": {i4("id"), f8("u_rated")},
		"line": {
			i4("id"), i4("from_node"), i4("to_node"), i1("from_status"), i1("to_status"),
			f8("r1"), f8("x1"), f8("c1"), f8("tan1"),
			f8("r0"), f8("x0"), f8("c0"), f8("tan0"),
			f8("i_n"),
		},
		"link": {
			i4("id"), i4("from_node"), i4("to_node"), i1("from_status"), i1("to_status"),
		},
		"transformer": {
			i4("id"), i4("from_node"), i4("to_node"), i1("from_status"), i1("to_status"),
			f8("u1"), f8("u2"), f8("sn"), f8("uk"), f8("pk"), f8("i0"), f8("p0"),
			i1("winding_from"), i1("winding_to"), i1("clock"), i1("tap_side"),
			i1("tap_pos"), i1("tap_min"), i1("tap_max"), i1("tap_nom"),
			f8("tap_size"),
			f8("uk_min"), f8("uk_max"), f8("pk_min"), f8("pk_max"),
			f8("r_grounding_from"), f8("x_grounding_from"),
			f8("r_grounding_to"), f8("x_grounding_to"),
		},
		"sym_load":  symLoadGen,
		"sym_gen":   symLoadGen,
		"asym_load": asymLoadGen,
		"asym_gen":  asymLoadGen,
		"shunt": {
			i4("id"), i4("node"), i1("status"),
			f8("g1"), f8("b1"), f8("g0"), f8("b0"),
		},
		"source": {
			i4("id"), i4("node"), i1("status"),
			f8("u_ref"), f8("sk"), f8("rx_ratio"), f8("z01_ratio"),
		},
		"sym_voltage_sensor": {
			i4("id"), i4("measured_object"), f8("u_sigma"),
			f8("u_measured"), f8("u_angle_measured"),
		},
		"asym_voltage_sensor": {
			i4("id"), i4("measured_object"), f8("u_sigma"),
			f8x3("u_measured"), f8x3("u_angle_measured"),
		},
		"sym_power_sensor": {
			i4("id"), i4("measured_object"), i1("measured_terminal_type"), f8("power_sigma"),
			f8("p_measured"), f8("q_measured"),
		},
		"asym_power_sensor": {
			i4("id"), i4("measured_object"), i1("measured_terminal_type"), f8("power_sigma"),
			f8x3("p_measured"), f8x3("q_measured"),
		},
	}
}

func updateLayouts() map[string][]dataset.Attribute {
	branch := []dataset.Attribute{i4("id"), i1("from_status"), i1("to_status")}
	symLoadGen := []dataset.Attribute{
		i4("id"), i1("status"), f8("p_specified"), f8("q_specified"),
	}
	asymLoadGen := []dataset.Attribute{
		i4("id"), i1("status"), f8x3("p_specified"), f8x3("q_specified"),
	}

	return map[string][]dataset.Attribute{
		"node":        {i4("id")},
		"line":        branch,
		"link":        branch,
		"transformer": {i4("id"), i1("from_status"), i1("to_status"), i1("tap_pos")},
		"sym_load":    symLoadGen,
		"sym_gen":     symLoadGen,
		"asym_load":   asymLoadGen,
		"asym_gen":    asymLoadGen,
		"shunt":       {i4("id"), i1("status")},
		"source":      {i4("id"), i1("status"), f8("u_ref")},
		"sym_voltage_sensor": {
			i4("id"), f8("u_sigma"), f8("u_measured"), f8("u_angle_measured"),
		},
		"asym_voltage_sensor": {
			i4("id"), f8("u_sigma"), f8x3("u_measured"), f8x3("u_angle_measured"),
		},
		"sym_power_sensor": {
			i4("id"), f8("power_sigma"), f8("p_measured"), f8("q_measured"),
		},
		"asym_power_sensor": {
			i4("id"), f8("power_sigma"), f8x3("p_measured"), f8x3("q_measured"),
		},
	}
}

// outputLayouts builds the symmetric or asymmetric output layouts. Per-phase
// quantities widen to three elements in asymmetric output; loading and other
// scalar ratios stay scalar.
func outputLayouts(asym bool) map[string][]dataset.Attribute {
	rv := f8
	if asym {
		rv = f8x3
	}

	branch := []dataset.Attribute{
		i4("id"), i1("energized"), f8("loading"),
		rv("p_from"), rv("q_from"), rv("i_from"), rv("s_from"),
		rv("p_to"), rv("q_to"), rv("i_to"), rv("s_to"),
	}
	appliance := []dataset.Attribute{
		i4("id"), i1("energized"),
		rv("p"), rv("q"), rv("i"), rv("s"), rv("pf"),
	}
	voltageSensor := []dataset.Attribute{
		i4("id"), i1("energized"), rv("u_residual"), rv("u_angle_residual"),
	}
	powerSensor := []dataset.Attribute{
		i4("id"), i1("energized"), rv("p_residual"), rv("q_residual"),
	}

	return map[string][]dataset.Attribute{
		"node": {
			i4("id"), i1("energized"), rv("u_pu"), rv("u"), rv("u_angle"),
		},
		"line":                branch,
		"link":                branch,
		"transformer":         branch,
		"sym_load":            appliance,
		"sym_gen":             appliance,
		"asym_load":           appliance,
		"asym_gen":            appliance,
		"shunt":               appliance,
		"source":              appliance,
		"sym_voltage_sensor":  voltageSensor,
		"asym_voltage_sensor": voltageSensor,
		"sym_power_sensor":    powerSensor,
		"asym_power_sensor":   powerSensor,
	}
}
