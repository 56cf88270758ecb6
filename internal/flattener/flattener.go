package flattener

import (
	"encoding/json" // Added for json.Number
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/models"
)

// DefaultSeparator joins nested object keys into column names.
const DefaultSeparator = "__"

// ValueColumn is the column name used when a record is a bare primitive
// rather than an object.
const ValueColumn = "value"

// MetaPrefix prefixes broadcast columns built from root members that sit
// alongside the row-producing array.
const MetaPrefix = "meta"

// Flattener converts parsed JSON documents into flat tables

type Flattener struct {
	// sep joins nested key paths into column names
	sep string
	// normalize rewrites every path segment to snake_case
	normalize bool
}

// NewFlattener creates a new Flattener instance with default settings.
func NewFlattener() *Flattener {
	return NewFlattenerWithConfig(config.NewConfig())
}

// NewFlattenerWithConfig creates a new Flattener instance with custom configuration.
func NewFlattenerWithConfig(cfg *config.Config) *Flattener {
	sep := cfg.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	return &Flattener{
		sep:       sep,
		normalize: cfg.NormalizeColumns,
	}
}

// Flatten converts a document into a table. Array roots yield one row per
// element. An object root with exactly one array-valued member yields rows
// from that array plus constant meta columns for the remaining members.
// Any other object is a single record, and a primitive root becomes a
// one-row, one-column table.
func (f *Flattener) Flatten(doc models.Document) (*models.Table, error) {
	switch root := doc.Root.(type) {
	case models.JSONArray:
		return f.flattenArray(root)
	case models.JSONObject:
		if rows, meta, ok := splitSingleArrayMember(root); ok {
			table, err := f.flattenArray(rows)
			if err != nil {
				return nil, err
			}
			if err := f.broadcastMeta(table, meta); err != nil {
				return nil, err
			}
			return table, nil
		}
		return f.flattenSingle(root)
	case nil, bool, string, json.Number:
		table := models.NewTable()
		table.AddColumn(ValueColumn)
		table.Append(models.Row{ValueColumn: doc.Root})
		return table, nil
	default:
		return nil, errors.NewFlattenError(fmt.Sprintf("unsupported root value of type %T", doc.Root), nil)
	}
}

// flattenArray converts one array element per row. Object elements are
// flattened recursively; primitives and nested arrays land in the value
// column, matching the primitive-root rule.
func (f *Flattener) flattenArray(arr models.JSONArray) (*models.Table, error) {
	table := models.NewTable()
	for _, elem := range arr {
		row := models.Row{}
		switch v := elem.(type) {
		case models.JSONObject:
			if err := f.flattenInto(table, row, "", v); err != nil {
				return nil, err
			}
		case models.JSONArray:
			text, err := models.CompactJSON(v)
			if err != nil {
				return nil, errors.NewFlattenError("failed to serialize nested array", err)
			}
			table.AddColumn(ValueColumn)
			row[ValueColumn] = text
		case nil, bool, string, json.Number:
			table.AddColumn(ValueColumn)
			row[ValueColumn] = v
		default:
			return nil, errors.NewFlattenError(fmt.Sprintf("unsupported array element of type %T", elem), nil)
		}
		table.Append(row)
	}
	return table, nil
}

// flattenSingle treats the whole object as one record.
func (f *Flattener) flattenSingle(obj models.JSONObject) (*models.Table, error) {
	table := models.NewTable()
	row := models.Row{}
	if err := f.flattenInto(table, row, "", obj); err != nil {
		return nil, err
	}
	table.Append(row)
	return table, nil
}

// flattenInto walks an object depth-first. Nested objects flatten through
// with separator-joined names, arrays terminate as one compact JSON cell,
// and scalars land directly under their joined path. Columns register at
// write time, so first-seen order is preserved. A joined path that
// collides with an earlier one overwrites that row's cell (last write
// wins) while the column keeps its first position.
func (f *Flattener) flattenInto(table *models.Table, row models.Row, prefix string, obj models.JSONObject) error {
	for _, m := range obj {
		name := f.columnName(prefix, m.Key)
		switch v := m.Value.(type) {
		case models.JSONObject:
			if err := f.flattenInto(table, row, name, v); err != nil {
				return err
			}
		case models.JSONArray:
			text, err := models.CompactJSON(v)
			if err != nil {
				return errors.NewFlattenError(fmt.Sprintf("failed to serialize array at %q", name), err)
			}
			table.AddColumn(name)
			row[name] = text
		case nil, bool, string, json.Number:
			table.AddColumn(name)
			row[name] = v
		default:
			return errors.NewFlattenError(fmt.Sprintf("unsupported value of type %T at %q", m.Value, name), nil)
		}
	}
	return nil
}

// broadcastMeta appends one constant column per leftover root member,
// applied identically to every row. Structured values are serialized once
// to compact JSON; scalars are stored as-is, unconverted.
func (f *Flattener) broadcastMeta(table *models.Table, meta models.JSONObject) error {
	for _, m := range meta {
		name := f.columnName(MetaPrefix, m.Key)
		var cell models.JSONValue
		switch v := m.Value.(type) {
		case models.JSONObject, models.JSONArray:
			text, err := models.CompactJSON(v)
			if err != nil {
				return errors.NewFlattenError(fmt.Sprintf("failed to serialize meta value %q", m.Key), err)
			}
			cell = text
		case nil, bool, string, json.Number:
			cell = v
		default:
			return errors.NewFlattenError(fmt.Sprintf("unsupported meta value of type %T at %q", m.Value, m.Key), nil)
		}
		table.AddColumn(name)
		for i := range table.Rows {
			table.Rows[i][name] = cell
		}
	}
	return nil
}

// splitSingleArrayMember detects the root shape with exactly one
// array-valued member. It returns that array plus the remaining members in
// document order.
func splitSingleArrayMember(obj models.JSONObject) (models.JSONArray, models.JSONObject, bool) {
	var rows models.JSONArray
	var meta models.JSONObject
	arrays := 0
	for _, m := range obj {
		if arr, ok := m.Value.(models.JSONArray); ok {
			arrays++
			if arrays > 1 {
				return nil, nil, false
			}
			rows = arr
			continue
		}
		meta = append(meta, m)
	}
	if arrays != 1 {
		return nil, nil, false
	}
	return rows, meta, true
}

func (f *Flattener) columnName(prefix, key string) string {
	if f.normalize {
		key = strcase.ToSnake(key)
	}
	if prefix == "" {
		return key
	}
	return prefix + f.sep + key
}
