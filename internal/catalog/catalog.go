package catalog

import (
	"errors"
	"strings"

	"github.com/five82/drova-launcher/internal/drova"
	"github.com/five82/drova-launcher/internal/state"
)

// ErrEmptyCatalog reports that no station product survived the ready filter.
var ErrEmptyCatalog = errors.New("station catalog is empty")

const (
	// DesktopProductID is the well-known product id of the desktop entry.
	DesktopProductID = "9fd0eb43-b2bb-4ce3-93b8-9df63f209098"

	// DefaultTitle is shown when neither record carries a title.
	DefaultTitle = "Игра"

	// AltLimit is the maximum number of characters kept in Card.Alt.
	AltLimit = 100

	desktopTitle       = "desktop"
	desktopDisplayName = "рабочий стол"
)

// DesktopPolicy selects how desktop entries are detected.
type DesktopPolicy int

const (
	// DesktopMatch detects the desktop by sentinel id, title or display name.
	DesktopMatch DesktopPolicy = iota
	// DesktopFlag additionally honours use_default_desktop on either record.
	DesktopFlag
)

// ParseDesktopPolicy maps a config value to a DesktopPolicy.
func ParseDesktopPolicy(value string) (DesktopPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "match":
		return DesktopMatch, true
	case "flag":
		return DesktopFlag, true
	}
	return DesktopMatch, false
}

func (p DesktopPolicy) String() string {
	if p == DesktopFlag {
		return "flag"
	}
	return "match"
}

// Card is the UI projection of one ready product.
type Card struct {
	ProductID       string `json:"productId"`
	Title           string `json:"title"`
	ImageURL        string `json:"imageUrl"`
	Alt             string `json:"alt"`
	RequiredAccount string `json:"requiredAccount"`
	IsFree          bool   `json:"isFree"`
	IsDesktop       bool   `json:"isDesktop"`
}

// FallbackDesktopCard is offered when the catalog cannot be loaded so the
// operator can still leave the kiosk.
func FallbackDesktopCard() Card {
	return Card{
		ProductID: "desktop",
		Title:     "Рабочий стол",
		Alt:       "Доступ ко всему почти без ограничений.",
		IsFree:    true,
		IsDesktop: true,
	}
}

// MetaMap indexes product metadata by product id.
type MetaMap map[string]drova.ProductMeta

// BuildMetaMap indexes list. A later entry with the same id replaces an
// earlier one. Entries without an id are skipped.
func BuildMetaMap(list []drova.ProductMeta) MetaMap {
	m := make(MetaMap, len(list))
	for _, item := range list {
		if item.ProductID == "" {
			continue
		}
		m[item.ProductID] = item
	}
	return m
}

// Lookup returns the metadata for id, if any.
func (m MetaMap) Lookup(id string) (drova.ProductMeta, bool) {
	meta, ok := m[id]
	return meta, ok
}

// FilterReady keeps the ready records in catalog order.
func FilterReady(items []drova.StationProduct) []drova.StationProduct {
	out := make([]drova.StationProduct, 0, len(items))
	for _, item := range items {
		if item.Ready() {
			out = append(out, item)
		}
	}
	return out
}

// IsDesktop classifies one product. meta may be nil.
func IsDesktop(item drova.StationProduct, meta *drova.ProductMeta, policy DesktopPolicy) bool {
	if item.ProductID == DesktopProductID {
		return true
	}
	if policy == DesktopFlag {
		if isTrue(item.UseDefaultDesktop) || (meta != nil && isTrue(meta.UseDefaultDesktop)) {
			return true
		}
	}

	title := item.Title
	if meta != nil && meta.Title != "" {
		title = meta.Title
	}
	if strings.ToLower(title) == desktopTitle {
		return true
	}

	if meta != nil && strings.ToLower(meta.DisplayName) == desktopDisplayName {
		return true
	}
	return false
}

// BuildDesktopSet classifies every ready record.
func BuildDesktopSet(items []drova.StationProduct, metas MetaMap, policy DesktopPolicy) state.DesktopSet {
	set := state.NewDesktopSet()
	for _, item := range items {
		if IsDesktop(item, metaPtr(metas, item.ProductID), policy) {
			set[item.ProductID] = struct{}{}
		}
	}
	return set
}

// ResolveTitle picks display name, then catalog title, then station title,
// then DefaultTitle.
func ResolveTitle(item drova.StationProduct, meta *drova.ProductMeta) string {
	if meta != nil {
		if meta.DisplayName != "" {
			return meta.DisplayName
		}
		if meta.Title != "" {
			return meta.Title
		}
	}
	if item.Title != "" {
		return item.Title
	}
	return DefaultTitle
}

// Truncate returns at most max characters of value, never splitting a
// multi-byte character.
func Truncate(value string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	for i := range value {
		if count == max {
			return value[:i]
		}
		count++
	}
	return value
}

func metaPtr(metas MetaMap, id string) *drova.ProductMeta {
	meta, ok := metas[id]
	if !ok {
		return nil
	}
	return &meta
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
