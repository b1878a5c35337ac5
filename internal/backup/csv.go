package backup

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"reflect"
	"strconv"

	"github.com/opaco/opacovault/internal/model"
)

// ExportCSV writes one collection as CSV. Column names are the item shape's
// JSON keys so a CSV round-trips against the same headers the JSON backup
// uses.
func ExportCSV[T any](items []T) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	cols := columns[T]()
	if err := w.Write(cols); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, item := range items {
		if err := w.Write(record(item)); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportCSV parses a single-collection CSV and detects which collection it
// holds from its header row: shelf+display means figures, released+buy means
// wishlist, head+body means customs. Exactly one of the returned slices is
// non-nil.
func ImportCSV(data []byte) (*Backup, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}
	header := rows[0]

	b := &Backup{}
	switch {
	case hasColumns(header, "shelf", "display"):
		b.FigureItems, err = decodeRows[model.FigureItem](header, rows[1:])
	case hasColumns(header, "released", "buy"):
		b.WishlistItems, err = decodeRows[model.WishlistItem](header, rows[1:])
	case hasColumns(header, "head", "body"):
		b.CustomItems, err = decodeRows[model.CustomItem](header, rows[1:])
	default:
		return nil, fmt.Errorf("csv header does not match any collection: %v", header)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func hasColumns(header []string, names ...string) bool {
	for _, name := range names {
		found := false
		for _, col := range header {
			if col == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// columns lists T's JSON keys in field order.
func columns[T any]() []string {
	var zero T
	t := reflect.TypeOf(zero)
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		cols = append(cols, jsonKey(t.Field(i)))
	}
	return cols
}

func jsonKey(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	return tag
}

func record[T any](item T) []string {
	v := reflect.ValueOf(item)
	out := make([]string, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		switch f := v.Field(i); f.Kind() {
		case reflect.String:
			out[i] = f.String()
		case reflect.Int:
			out[i] = strconv.FormatInt(f.Int(), 10)
		case reflect.Bool:
			out[i] = strconv.FormatBool(f.Bool())
		}
	}
	return out
}

// decodeRows builds items from CSV rows, mapping columns by header name.
// Unknown columns are skipped. Cell values are re-typed leniently: a ranking
// cell that is not a number becomes zero and a boolean cell is true only for
// the literal "true".
func decodeRows[T any](header []string, rows [][]string) ([]T, error) {
	var zero T
	t := reflect.TypeOf(zero)

	fieldByCol := make(map[int]int)
	for col, name := range header {
		for i := 0; i < t.NumField(); i++ {
			if jsonKey(t.Field(i)) == name {
				fieldByCol[col] = i
				break
			}
		}
	}

	items := make([]T, 0, len(rows))
	for _, row := range rows {
		item := reflect.New(t).Elem()
		for col, cell := range row {
			idx, ok := fieldByCol[col]
			if !ok {
				continue
			}
			switch f := item.Field(idx); f.Kind() {
			case reflect.String:
				f.SetString(cell)
			case reflect.Int:
				n, _ := strconv.ParseInt(cell, 10, 64)
				f.SetInt(n)
			case reflect.Bool:
				f.SetBool(cell == "true")
			}
		}
		items = append(items, item.Interface().(T))
	}
	return items, nil
}
