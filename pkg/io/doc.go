// Package io reads heatmap data and spec files.
//
// # Data
//
// Tables are read from CSV, TSV or JSON. JSON data is either row-oriented
// (an array of objects) or column-oriented (an object of arrays):
//
//	[{"id": "a", "score": 0.5}, {"id": "b", "score": 0.9}]
//	{"id": ["a", "b"], "score": [0.5, 0.9]}
//
// Field order follows the CSV header or the key order of the first JSON
// object. Empty CSV cells are missing values; all other cells stay strings
// and are classified by the column model.
//
//	t, err := io.ImportData("results.csv")
//
// # Specs
//
// Heatmap specs are read from TOML, YAML or JSON, picked by file extension:
//
//	spec, err := io.LoadSpec("heatmap.toml")
//
// Unknown top-level keys are rejected so that typos do not silently fall
// back to defaults. [WriteSpec] writes a spec back in any of the three
// formats, and [Starter] derives an editable spec from a table.
package io
