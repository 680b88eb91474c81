package product

import (
	"StoreImport/internal/phpserial"
	"strings"
)

type AdvancedOption struct {
	Label string
	Price string
}

func (o AdvancedOption) PHPArray() phpserial.Array {
	return phpserial.Array{
		{Key: "label", Value: o.Label},
		{Key: "price", Value: o.Price},
	}
}

// ParseAdvancedOptions reads "label=price" rows in order. Rows without "=" are dropped.
func ParseAdvancedOptions(rows []string) []AdvancedOption {
	var options []AdvancedOption
	for _, row := range rows {
		parts := strings.SplitN(row, "=", 2)
		if len(parts) < 2 {
			continue
		}
		options = append(options, AdvancedOption{
			Label: strings.TrimSpace(parts[0]),
			Price: strings.TrimSpace(parts[1]),
		})
	}
	return options
}
