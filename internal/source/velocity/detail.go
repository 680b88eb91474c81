package velocity

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// text accepts a JSON string, number or bool. The checkout form posts numbers
// as strings on some installs and as numbers on others.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*t = ""
	case bytes.Equal(data, []byte("true")):
		*t = "1"
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
	default:
		*t = text(data)
	}
	return nil
}

type detail struct {
	Nama        text                `json:"nama"`
	Email       text                `json:"email"`
	HP          text                `json:"hp"`
	Alamat      text                `json:"alamat"`
	Subdistrict *text               `json:"subdistrict_destination"`
	Ongkir      text                `json:"ongkir"`
	Produk      jsoniter.RawMessage `json:"produk"`
}

type detailItem struct {
	ID         text  `json:"id"`
	Jumlah     *text `json:"jumlah"`
	Harga      *text `json:"harga"`
	Keterangan *text `json:"keterangan"`
}

// decodeDetail never fails: a blob that does not decode yields an empty detail,
// and product entries that do not decode are left out. products may be a list
// or an object keyed by cart key; object entries keep their document order.
func decodeDetail(raw string) (*detail, []*detailItem, error) {
	d := new(detail)
	if err := json.Unmarshal([]byte(raw), d); err != nil {
		return new(detail), nil, err
	}

	var produk struct {
		Products jsoniter.RawMessage `json:"products"`
	}
	if len(d.Produk) == 0 || json.Unmarshal(d.Produk, &produk) != nil {
		return d, nil, nil
	}
	entries := productEntries(produk.Products)
	items := make([]*detailItem, 0, len(entries))
	for _, p := range entries {
		item := new(detailItem)
		if err := json.Unmarshal(p, item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return d, items, nil
}

func productEntries(raw jsoniter.RawMessage) []jsoniter.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	iter := json.BorrowIterator(raw)
	defer json.ReturnIterator(iter)

	var entries []jsoniter.RawMessage
	switch iter.WhatIsNext() {
	case jsoniter.ArrayValue:
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			entries = append(entries, it.SkipAndReturnBytes())
			return it.Error == nil
		})
	case jsoniter.ObjectValue:
		iter.ReadObjectCB(func(it *jsoniter.Iterator, _ string) bool {
			entries = append(entries, it.SkipAndReturnBytes())
			return it.Error == nil
		})
	}
	return entries
}
