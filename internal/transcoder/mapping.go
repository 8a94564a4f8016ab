// Package transcoder converts records between their nested application
// shape and the flattened row shape. The mapping is declared with struct
// tags on the record type:
//
//	db:"column"            scalar column, codec inferred from the Go type
//	db:"column,json"       nested value stored as a JSON document
//	db:"column,readonly"   server-assigned, never sent on insert
//	list:"3"               string list with a nominal length of 3
//
// String lists without a list tag are open ended and hold at least one slot.
// Embedded structs without a db tag are flattened into the parent.
package transcoder

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/limbo/ceoos/internal/schema"
)

type kind int

const (
	kindText kind = iota
	kindInt
	kindFloat
	kindBool
	kindList
	kindJSON
	kindTime
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	stringsType = reflect.TypeOf([]string(nil))
)

type field struct {
	column   string
	index    []int
	kind     kind
	readonly bool
	size     int
}

// Mapping is the compiled field table of one record type.
type Mapping[T any] struct {
	fields   []field
	defaults func() T
	hooks    []func(schema.Row, *T)
}

type Option[T any] func(*Mapping[T])

// WithDecodeHook runs fn after a row has been decoded and padded.
func WithDecodeHook[T any](fn func(row schema.Row, v *T)) Option[T] {
	return func(m *Mapping[T]) {
		m.hooks = append(m.hooks, fn)
	}
}

func New[T any](defaults func() T, opts ...Option[T]) (*Mapping[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("mapping %s: record must be a struct", t)
	}
	m := &Mapping[T]{defaults: defaults}
	if err := compile(t, nil, &m.fields); err != nil {
		return nil, fmt.Errorf("mapping %s: %w", t, err)
	}
	seen := make(map[string]struct{}, len(m.fields))
	for _, f := range m.fields {
		if _, ok := seen[f.column]; ok {
			return nil, fmt.Errorf("mapping %s: duplicate column %q", t, f.column)
		}
		seen[f.column] = struct{}{}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func MustNew[T any](defaults func() T, opts ...Option[T]) *Mapping[T] {
	m, err := New(defaults, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func compile(t reflect.Type, prefix []int, fields *[]field) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int{}, prefix...), i)
		tag, ok := sf.Tag.Lookup("db")
		if !ok {
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				if err := compile(sf.Type, index, fields); err != nil {
					return err
				}
			}
			continue
		}
		if tag == "-" || !sf.IsExported() {
			continue
		}
		parts := strings.Split(tag, ",")
		f := field{column: parts[0], index: index}
		if f.column == "" {
			return fmt.Errorf("field %s: empty column name", sf.Name)
		}
		asJSON := false
		for _, opt := range parts[1:] {
			switch opt {
			case "json":
				asJSON = true
			case "readonly":
				f.readonly = true
			default:
				return fmt.Errorf("field %s: unknown option %q", sf.Name, opt)
			}
		}
		if asJSON {
			f.kind = kindJSON
		} else {
			k, err := kindOf(sf.Type)
			if err != nil {
				return fmt.Errorf("field %s: %w", sf.Name, err)
			}
			f.kind = k
		}
		if size, ok := sf.Tag.Lookup("list"); ok {
			if f.kind != kindList {
				return fmt.Errorf("field %s: list tag on non-list field", sf.Name)
			}
			n, err := strconv.Atoi(size)
			if err != nil || n < 1 {
				return fmt.Errorf("field %s: invalid list size %q", sf.Name, size)
			}
			f.size = n
		}
		*fields = append(*fields, f)
	}
	return nil
}

func kindOf(t reflect.Type) (kind, error) {
	if t == timeType {
		return kindTime, nil
	}
	switch t.Kind() {
	case reflect.String:
		return kindText, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt, nil
	case reflect.Float32, reflect.Float64:
		return kindFloat, nil
	case reflect.Bool:
		return kindBool, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return kindList, nil
		}
	}
	return 0, errors.New("type " + t.String() + " needs the json option")
}

// Columns lists every mapped column in declaration order.
func (m *Mapping[T]) Columns() []string {
	cols := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		cols = append(cols, f.column)
	}
	return cols
}

// Default returns a fresh default record.
func (m *Mapping[T]) Default() T {
	return m.defaults()
}

// Encode produces the insert row: every writable column, lists compacted,
// nested values as raw JSON.
func (m *Mapping[T]) Encode(v T) (schema.Row, error) {
	rv := reflect.ValueOf(&v).Elem()
	row := make(schema.Row, len(m.fields))
	for _, f := range m.fields {
		if f.readonly {
			continue
		}
		val, err := encodeValue(f, rv.FieldByIndex(f.index))
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.column, err)
		}
		row[f.column] = val
	}
	return row, nil
}

// Diff produces a sparse update row holding only the writable columns that
// differ between before and after.
func (m *Mapping[T]) Diff(before, after T) (schema.Row, error) {
	bv := reflect.ValueOf(&before).Elem()
	av := reflect.ValueOf(&after).Elem()
	row := make(schema.Row)
	for _, f := range m.fields {
		if f.readonly {
			continue
		}
		b, a := bv.FieldByIndex(f.index), av.FieldByIndex(f.index)
		if f.kind == kindList {
			if reflect.DeepEqual(compact(toStrings(b)), compact(toStrings(a))) {
				continue
			}
		} else if reflect.DeepEqual(b.Interface(), a.Interface()) {
			continue
		}
		val, err := encodeValue(f, a)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.column, err)
		}
		row[f.column] = val
	}
	return row, nil
}

// Decode builds a record from a row. Missing and null columns keep the
// default value, values that cannot be coerced or fail enum validation keep
// the default too. Lists come back padded to their nominal length.
func (m *Mapping[T]) Decode(row schema.Row) T {
	v := m.defaults()
	rv := reflect.ValueOf(&v).Elem()
	for _, f := range m.fields {
		raw, ok := row[f.column]
		if !ok || raw == nil {
			continue
		}
		if err := decodeValue(f, rv.FieldByIndex(f.index), raw); err != nil {
			slog.Debug("decode: column kept default", slog.String("column", f.column), slog.String("error", err.Error()))
		}
	}
	m.pad(rv)
	for _, hook := range m.hooks {
		hook(row, &v)
	}
	if n, ok := any(&v).(normalizer); ok {
		n.Normalize()
	}
	return v
}

// Normalize pads every list of v to its nominal length and replaces enum
// values that fail validation by their defaults.
func (m *Mapping[T]) Normalize(v *T) {
	rv := reflect.ValueOf(v).Elem()
	m.pad(rv)
	var def reflect.Value
	for _, f := range m.fields {
		fv := rv.FieldByIndex(f.index)
		switch f.kind {
		case kindText:
			if e, ok := fv.Interface().(validator); ok && !e.Valid() {
				if !def.IsValid() {
					d := m.defaults()
					def = reflect.ValueOf(&d).Elem()
				}
				fv.Set(def.FieldByIndex(f.index))
			}
		case kindJSON:
			if n, ok := fv.Addr().Interface().(normalizer); ok {
				n.Normalize()
			}
		}
	}
	if n, ok := any(v).(normalizer); ok {
		n.Normalize()
	}
}

// Compact strips trailing empty strings from every list of v.
func (m *Mapping[T]) Compact(v *T) {
	rv := reflect.ValueOf(v).Elem()
	for _, f := range m.fields {
		if f.kind != kindList {
			continue
		}
		fv := rv.FieldByIndex(f.index)
		fv.Set(reflect.ValueOf(compact(toStrings(fv))).Convert(fv.Type()))
	}
}

func (m *Mapping[T]) pad(rv reflect.Value) {
	for _, f := range m.fields {
		if f.kind != kindList {
			continue
		}
		fv := rv.FieldByIndex(f.index)
		fv.Set(reflect.ValueOf(fit(toStrings(fv), f.size)).Convert(fv.Type()))
	}
}

type normalizer interface {
	Normalize()
}

func toStrings(v reflect.Value) []string {
	if v.IsNil() {
		return nil
	}
	return v.Convert(stringsType).Interface().([]string)
}

// fit pads or truncates list to size. Open lists (size 0) keep their length
// but hold at least one slot.
func fit(list []string, size int) []string {
	n := size
	if n == 0 {
		n = max(len(list), 1)
	}
	out := make([]string, n)
	copy(out, list)
	return out
}

func compact(list []string) []string {
	end := len(list)
	for end > 0 && list[end-1] == "" {
		end--
	}
	out := make([]string, end)
	copy(out, list[:end])
	return out
}
