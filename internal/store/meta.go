package store

import (
	"strconv"

	"StoreImport/internal/phpserial"
)

type MetaKind int

const (
	Scalar MetaKind = iota
	List
	NestedList
)

func (k MetaKind) String() string {
	switch k {
	case List:
		return "list"
	case NestedList:
		return "nested_list"
	}
	return "scalar"
}

// MetaValue is one stored field row. Scalar rows carry Value; list rows carry Items.
type MetaValue struct {
	Kind  MetaKind
	Value string
	Items []MetaValue
}

func ScalarValue(s string) MetaValue {
	return MetaValue{Kind: Scalar, Value: s}
}

func ListValue(items ...string) MetaValue {
	m := MetaValue{Kind: List}
	for _, s := range items {
		m.Items = append(m.Items, ScalarValue(s))
	}
	return m
}

// DecodeMeta turns a raw stored value into a MetaValue. Serialized arrays become
// lists, anything that does not unserialize stays a scalar.
func DecodeMeta(raw string) MetaValue {
	if !phpserial.IsSerialized(raw) {
		return ScalarValue(raw)
	}
	v, err := phpserial.Unmarshal([]byte(raw))
	if err != nil {
		return ScalarValue(raw)
	}
	return fromPHP(v)
}

func fromPHP(v interface{}) MetaValue {
	a, ok := v.(phpserial.Array)
	if !ok {
		return ScalarValue(scalarString(v))
	}
	m := MetaValue{Kind: List}
	for _, p := range a {
		item := fromPHP(p.Value)
		if item.Kind != Scalar {
			m.Kind = NestedList
		}
		m.Items = append(m.Items, item)
	}
	return m
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "1"
		}
	}
	return ""
}

// Strings returns the scalar itself, or the scalar items of a list. Items nested
// deeper than one level are dropped.
func (m MetaValue) Strings() []string {
	if m.Kind == Scalar {
		return []string{m.Value}
	}
	out := make([]string, 0, len(m.Items))
	for _, item := range m.Items {
		if item.Kind == Scalar {
			out = append(out, item.Value)
		}
	}
	return out
}

// Flatten normalizes field rows to a flat list, unwrapping list rows by one level.
func Flatten(values []MetaValue) []string {
	var out []string
	for _, v := range values {
		out = append(out, v.Strings()...)
	}
	return out
}

// Unwrap keeps the items of a field stored as one list row. With several rows
// only scalar rows are kept; list rows among them are dropped.
func Unwrap(values []MetaValue) []string {
	if len(values) == 1 {
		return values[0].Strings()
	}
	var out []string
	for _, v := range values {
		if v.Kind == Scalar {
			out = append(out, v.Value)
		}
	}
	return out
}
