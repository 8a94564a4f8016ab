package transcoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

var errUnexpectedType = errors.New("unexpected value type")

type validator interface {
	Valid() bool
}

func encodeValue(f field, fv reflect.Value) (any, error) {
	switch f.kind {
	case kindText:
		return fv.String(), nil
	case kindInt:
		return fv.Int(), nil
	case kindFloat:
		return fv.Float(), nil
	case kindBool:
		return fv.Bool(), nil
	case kindList:
		return compact(toStrings(fv)), nil
	case kindTime:
		t := fv.Interface().(time.Time)
		if t.IsZero() {
			return nil, nil
		}
		return t.UTC().Format(time.RFC3339Nano), nil
	case kindJSON:
		b, err := sonic.ConfigStd.Marshal(fv.Interface())
		if err != nil {
			return nil, err
		}
		return json.RawMessage(b), nil
	}
	return nil, fmt.Errorf("unknown codec %d", f.kind)
}

func decodeValue(f field, fv reflect.Value, raw any) error {
	switch f.kind {
	case kindText:
		s, err := asString(raw)
		if err != nil {
			return err
		}
		tmp := reflect.New(fv.Type()).Elem()
		tmp.SetString(s)
		if v, ok := tmp.Interface().(validator); ok && !v.Valid() {
			return fmt.Errorf("unrecognized value %q", s)
		}
		fv.Set(tmp)
	case kindInt:
		n, err := asFloat(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(math.Round(n)))
	case kindFloat:
		n, err := asFloat(raw)
		if err != nil {
			return err
		}
		fv.SetFloat(n)
	case kindBool:
		b, ok := raw.(bool)
		if !ok {
			return errUnexpectedType
		}
		fv.SetBool(b)
	case kindList:
		list, err := asStrings(raw)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(list).Convert(fv.Type()))
	case kindTime:
		t, err := asTime(raw)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(t))
	case kindJSON:
		b, err := asJSON(raw)
		if err != nil {
			return err
		}
		if string(b) == "null" {
			return nil
		}
		// decode over a copy of the default so absent keys keep it
		ptr := reflect.New(fv.Type())
		ptr.Elem().Set(cloneValue(fv))
		if err := sonic.ConfigStd.Unmarshal(b, ptr.Interface()); err != nil {
			return err
		}
		if n, ok := ptr.Interface().(normalizer); ok {
			n.Normalize()
		}
		fv.Set(ptr.Elem())
	}
	return nil
}

func asString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", errUnexpectedType
}

func asFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(v, 64)
	}
	return 0, errUnexpectedType
}

func asStrings(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			switch s := item.(type) {
			case string:
				out[i] = s
			case nil:
			default:
				return nil, errUnexpectedType
			}
		}
		return out, nil
	}
	return nil, errUnexpectedType
}

func asTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return time.Parse(time.RFC3339Nano, v)
	}
	return time.Time{}, errUnexpectedType
}

func asJSON(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	}
	return sonic.ConfigStd.Marshal(raw)
}

// Clone returns a deep copy of v. Slices and maps are never shared with the
// source.
func Clone[T any](v T) T {
	return cloneValue(reflect.ValueOf(&v).Elem()).Interface().(T)
}

func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			c.Index(i).Set(cloneValue(v.Index(i)))
		}
		return c
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			c.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return c
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		c := reflect.New(v.Type().Elem())
		c.Elem().Set(cloneValue(v.Elem()))
		return c
	case reflect.Struct:
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				c.Field(i).Set(cloneValue(v.Field(i)))
			}
		}
		return c
	}
	return v
}
