package drova

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ReadyMarker is the verification value that marks a station product as ready.
const ReadyMarker = "READY"

// Indicator is a verification or availability marker. Depending on the
// backend schema it arrives either as a string ("READY") or as a bool.
type Indicator struct {
	Set   bool
	Ready bool
	Raw   string
}

// UnmarshalJSON accepts a string, a bool or null.
func (i *Indicator) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*i = Indicator{}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*i = Indicator{Set: true, Raw: text, Ready: strings.EqualFold(text, ReadyMarker)}
		return nil
	}
	var flag bool
	if err := json.Unmarshal(data, &flag); err != nil {
		return fmt.Errorf("indicator must be string or bool, got %s", trimmed)
	}
	*i = Indicator{Set: true, Ready: flag, Raw: strconv.FormatBool(flag)}
	return nil
}

// StationProduct is an entry of the station-assigned product list.
type StationProduct struct {
	ProductID         string
	Enabled           bool
	Verified          Indicator
	Available         Indicator
	UseDefaultDesktop *bool
	GamePath          string
	WorkPath          string
	Args              string
	Title             string
}

// UnmarshalJSON accepts both snake_case and camelCase keys; the station
// endpoints have shipped both over time.
func (p *StationProduct) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductID              string    `json:"product_id"`
		ProductIDCamel         string    `json:"productId"`
		Enabled                bool      `json:"enabled"`
		Verified               Indicator `json:"verified"`
		Available              Indicator `json:"available"`
		UseDefaultDesktop      *bool     `json:"use_default_desktop"`
		UseDefaultDesktopCamel *bool     `json:"useDefaultDesktop"`
		GamePath               string    `json:"game_path"`
		GamePathCamel          string    `json:"gamePath"`
		WorkPath               string    `json:"work_path"`
		WorkPathCamel          string    `json:"workPath"`
		Args                   string    `json:"args"`
		Title                  string    `json:"title"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = StationProduct{
		ProductID:         firstNonEmpty(raw.ProductID, raw.ProductIDCamel),
		Enabled:           raw.Enabled,
		Verified:          raw.Verified,
		Available:         raw.Available,
		UseDefaultDesktop: raw.UseDefaultDesktop,
		GamePath:          firstNonEmpty(raw.GamePath, raw.GamePathCamel),
		WorkPath:          firstNonEmpty(raw.WorkPath, raw.WorkPathCamel),
		Args:              raw.Args,
		Title:             raw.Title,
	}
	if p.UseDefaultDesktop == nil {
		p.UseDefaultDesktop = raw.UseDefaultDesktopCamel
	}
	return nil
}

// Ready reports whether the product is enabled and every present
// verification/availability marker is positive.
func (p StationProduct) Ready() bool {
	if !p.Enabled {
		return false
	}
	if p.Verified.Set && !p.Verified.Ready {
		return false
	}
	if p.Available.Set && !p.Available.Ready {
		return false
	}
	return true
}

// ProductMeta is the catalog-wide descriptive entry for a product.
type ProductMeta struct {
	ProductID         string `json:"productId"`
	Title             string `json:"title"`
	DisplayName       string `json:"displayName"`
	DescriptionRu     string `json:"descriptionRu"`
	CardPicture       string `json:"cardPicture"`
	RequiredAccount   string `json:"requiredAccount"`
	NoLicenseRequired bool   `json:"noLicenseRequired"`
	UseDefaultDesktop *bool  `json:"useDefaultDesktop"`
}

// UnmarshalJSON also accepts the misspelled noLicenseRequred key served by
// the product manager.
func (m *ProductMeta) UnmarshalJSON(data []byte) error {
	type plain ProductMeta
	var raw struct {
		plain
		NoLicenseRequred *bool `json:"noLicenseRequred"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = ProductMeta(raw.plain)
	if raw.NoLicenseRequred != nil && *raw.NoLicenseRequred {
		m.NoLicenseRequired = true
	}
	return nil
}

// LaunchDetails mirrors the per-product launch endpoint. Station overrides
// take precedence over the product defaults.
type LaunchDetails struct {
	GamePath        string `json:"gamePath"`
	DefaultGamePath string `json:"defaultGamePath"`
	WorkPath        string `json:"workPath"`
	DefaultWorkPath string `json:"defaultWorkPath"`
	Args            string `json:"args"`
	DefaultArgs     string `json:"defaultArgs"`
}

// StationInfo mirrors the public server-manager entry.
type StationInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Hardware mirrors the station hardware listing.
type Hardware struct {
	RAMBytes  uint64            `json:"ram_bytes"`
	Processor *HardwareCPU      `json:"processor,omitempty"`
	Graphic   []HardwareGraphic `json:"graphic"`
}

// HardwareCPU describes the station processor.
type HardwareCPU struct {
	Version string `json:"version"`
}

// HardwareGraphic describes one video adapter.
type HardwareGraphic struct {
	Name     string `json:"name"`
	RAMBytes uint64 `json:"ram_bytes"`
}

// CPU returns the processor label or an empty string.
func (h Hardware) CPU() string {
	if h.Processor == nil {
		return ""
	}
	return strings.TrimSpace(h.Processor.Version)
}

// StationDetails combines the station info with its hardware.
type StationDetails struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Hardware    Hardware `json:"hardware"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
