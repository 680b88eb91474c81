// Package phpserial reads and writes the PHP serialize() format used by WordPress
// for array-valued post meta.
package phpserial

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Pair is one key/value entry of a PHP array. Key is int64 or string.
type Pair struct {
	Key   interface{}
	Value interface{}
}

// Array is an ordered PHP array.
type Array []Pair

// Arrayer is implemented by values that serialize as an associative array.
type Arrayer interface {
	PHPArray() Array
}

// List builds an Array with 0..n-1 integer keys.
func List(values ...interface{}) Array {
	a := make(Array, 0, len(values))
	for i, v := range values {
		a = append(a, Pair{Key: int64(i), Value: v})
	}
	return a
}

// Values returns the array values in order.
func (a Array) Values() []interface{} {
	values := make([]interface{}, 0, len(a))
	for _, p := range a {
		values = append(values, p.Value)
	}
	return values
}

// Get returns the value stored under key.
func (a Array) Get(key interface{}) (interface{}, bool) {
	for _, p := range a {
		if keyEqual(p.Key, key) {
			return p.Value, true
		}
	}
	return nil, false
}

type inexactFloat interface {
	InexactFloat64() float64
}

func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v interface{}) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("N;")
	case bool:
		if t {
			buf.WriteString("b:1;")
		} else {
			buf.WriteString("b:0;")
		}
	case int:
		fmt.Fprintf(buf, "i:%d;", t)
	case int32:
		fmt.Fprintf(buf, "i:%d;", t)
	case int64:
		fmt.Fprintf(buf, "i:%d;", t)
	case float64:
		fmt.Fprintf(buf, "d:%s;", strconv.FormatFloat(t, 'f', -1, 64))
	case string:
		fmt.Fprintf(buf, "s:%d:\"%s\";", len(t), t)
	case inexactFloat:
		return encode(buf, t.InexactFloat64())
	case Array:
		return encodeArray(buf, t)
	case Arrayer:
		return encodeArray(buf, t.PHPArray())
	default:
		return encodeReflect(buf, v)
	}
	return nil
}

func encodeArray(buf *bytes.Buffer, a Array) error {
	fmt.Fprintf(buf, "a:%d:{", len(a))
	for _, p := range a {
		switch k := p.Key.(type) {
		case int64:
			fmt.Fprintf(buf, "i:%d;", k)
		case int:
			fmt.Fprintf(buf, "i:%d;", k)
		case string:
			fmt.Fprintf(buf, "s:%d:\"%s\";", len(k), k)
		default:
			return errors.Errorf("unsupported array key type %T", p.Key)
		}
		if err := encode(buf, p.Value); err != nil {
			return err
		}
	}
	buf.WriteString("}")
	return nil
}

func encodeReflect(buf *bytes.Buffer, v interface{}) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		a := make(Array, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			a = append(a, Pair{Key: int64(i), Value: rv.Index(i).Interface()})
		}
		return encodeArray(buf, a)
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		a := make(Array, 0, len(keys))
		for _, k := range keys {
			key := k.Interface()
			switch k.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				key = k.Int()
			case reflect.String:
				key = k.String()
			default:
				return errors.Errorf("unsupported map key type %s", k.Type())
			}
			a = append(a, Pair{Key: key, Value: rv.MapIndex(k).Interface()})
		}
		return encodeArray(buf, a)
	case reflect.Int, reflect.Int8, reflect.Int16:
		return encode(buf, rv.Int())
	case reflect.Float32:
		return encode(buf, rv.Float())
	case reflect.String:
		return encode(buf, rv.String())
	}
	return errors.Errorf("unsupported type %T", v)
}

func keyEqual(a, b interface{}) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}
