package phpserial

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// IsSerialized is a cheap shape check, the same one WordPress does before unserializing.
func IsSerialized(s string) bool {
	s = strings.TrimSpace(s)
	if s == "N;" {
		return true
	}
	if len(s) < 4 || s[1] != ':' {
		return false
	}
	last := s[len(s)-1]
	if last != ';' && last != '}' {
		return false
	}
	switch s[0] {
	case 's', 'a', 'i', 'd', 'b':
		return true
	}
	return false
}

// Unmarshal decodes a serialized value into string, int64, float64, bool, nil or Array.
func Unmarshal(data []byte) (interface{}, error) {
	d := &decoder{data: data}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, errors.Errorf("phpserial: trailing data at offset %d", d.pos)
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) value() (interface{}, error) {
	if d.pos >= len(d.data) {
		return nil, errors.New("phpserial: unexpected end of input")
	}
	kind := d.data[d.pos]
	if kind == 'N' {
		if err := d.expect("N;"); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := d.expect(string(kind) + ":"); err != nil {
		return nil, err
	}
	switch kind {
	case 'b':
		raw, err := d.until(';')
		if err != nil {
			return nil, err
		}
		return raw == "1", nil
	case 'i':
		raw, err := d.until(';')
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "phpserial: bad integer %q", raw)
		}
		return n, nil
	case 'd':
		raw, err := d.until(';')
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "phpserial: bad float %q", raw)
		}
		return f, nil
	case 's':
		s, err := d.str()
		if err != nil {
			return nil, err
		}
		if err := d.expect(";"); err != nil {
			return nil, err
		}
		return s, nil
	case 'a':
		return d.array()
	}
	return nil, errors.Errorf("phpserial: unsupported type %q at offset %d", kind, d.pos-2)
}

func (d *decoder) array() (Array, error) {
	raw, err := d.until(':')
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, errors.Errorf("phpserial: bad array length %q", raw)
	}
	if err := d.expect("{"); err != nil {
		return nil, err
	}
	a := make(Array, 0, n)
	for i := 0; i < n; i++ {
		key, err := d.value()
		if err != nil {
			return nil, err
		}
		switch key.(type) {
		case int64, string:
		default:
			return nil, errors.Errorf("phpserial: bad array key %v", key)
		}
		val, err := d.value()
		if err != nil {
			return nil, err
		}
		a = append(a, Pair{Key: key, Value: val})
	}
	if err := d.expect("}"); err != nil {
		return nil, err
	}
	return a, nil
}

// str reads <len>:"<bytes>"
func (d *decoder) str() (string, error) {
	raw, err := d.until(':')
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return "", errors.Errorf("phpserial: bad string length %q", raw)
	}
	if err := d.expect("\""); err != nil {
		return "", err
	}
	if d.pos+n > len(d.data) {
		return "", errors.New("phpserial: string overruns input")
	}
	s := string(d.data[d.pos : d.pos+n])
	d.pos += n
	if err := d.expect("\""); err != nil {
		return "", err
	}
	return s, nil
}

func (d *decoder) until(c byte) (string, error) {
	start := d.pos
	for d.pos < len(d.data) {
		if d.data[d.pos] == c {
			s := string(d.data[start:d.pos])
			d.pos++
			return s, nil
		}
		d.pos++
	}
	return "", errors.Errorf("phpserial: missing %q after offset %d", c, start)
}

func (d *decoder) expect(s string) error {
	if !strings.HasPrefix(string(d.data[d.pos:]), s) {
		return errors.Errorf("phpserial: expected %q at offset %d", s, d.pos)
	}
	d.pos += len(s)
	return nil
}
