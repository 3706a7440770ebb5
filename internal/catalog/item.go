// Package catalog defines the records of the Azure VM image catalog:
// publishers, offers, SKUs and versions as a single tagged item type, the
// image detail record, and numeric version ordering.
package catalog

import (
	"strings"

	"github.com/samber/lo"
)

// Kind identifies which level of the image hierarchy an Item belongs to.
type Kind int

// Catalog levels, broadest first.
const (
	KindPublisher Kind = iota + 1
	KindOffer
	KindSku
	KindVersion
)

// String returns the lowercase level name.
func (k Kind) String() string {
	switch k {
	case KindPublisher:
		return "publisher"
	case KindOffer:
		return "offer"
	case KindSku:
		return "sku"
	case KindVersion:
		return "version"
	default:
		return "unknown"
	}
}

// Named is anything with a display key. The selector works over any Named.
type Named interface {
	DisplayKey() string
}

// Item is one entry of a catalog listing. Name is the display key for every
// kind: the publisher name, offer name, SKU name or version string.
type Item struct {
	Kind     Kind
	Name     string
	Location string
	ID       string

	// Set for KindVersion only.
	URN          string
	Architecture string
}

// DisplayKey implements Named.
func (i Item) DisplayKey() string {
	return i.Name
}

// FilterByKey returns the items whose display key contains filter,
// case-insensitively, in their original order. An empty filter returns a
// copy of items.
func FilterByKey[T Named](items []T, filter string) []T {
	if filter == "" {
		return append([]T(nil), items...)
	}
	needle := strings.ToLower(filter)
	return lo.Filter(items, func(item T, _ int) bool {
		return strings.Contains(strings.ToLower(item.DisplayKey()), needle)
	})
}

// Names returns the display keys of items.
func Names[T Named](items []T) []string {
	return lo.Map(items, func(item T, _ int) string {
		return item.DisplayKey()
	})
}
