package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/drova-launcher/internal/drova"
	"github.com/five82/drova-launcher/internal/progress"
	"github.com/five82/drova-launcher/internal/state"
	"github.com/five82/drova-launcher/internal/station"
)

// StatusLaunchDetails is reported while per-product launch details load.
const StatusLaunchDetails = "Загружаем параметры запуска…"

// LaunchSource resolves the launch descriptors of the ready products.
type LaunchSource interface {
	Resolve(ctx context.Context, st station.Info, items []drova.StationProduct, report progress.Reporter) (map[string]state.LaunchParams, error)
}

// LaunchSourceKind names a LaunchSource implementation in configuration.
type LaunchSourceKind int

const (
	// SourceInline reads the override fields of the station record.
	SourceInline LaunchSourceKind = iota
	// SourceDetails fetches a launch descriptor per product.
	SourceDetails
)

// ParseLaunchSource maps a config value to a LaunchSourceKind.
func ParseLaunchSource(value string) (LaunchSourceKind, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "inline":
		return SourceInline, true
	case "details":
		return SourceDetails, true
	}
	return SourceInline, false
}

func (k LaunchSourceKind) String() string {
	if k == SourceDetails {
		return "details"
	}
	return "inline"
}

// InlineSource builds descriptors straight from the station records.
type InlineSource struct{}

// Resolve implements LaunchSource.
func (InlineSource) Resolve(_ context.Context, _ station.Info, items []drova.StationProduct, _ progress.Reporter) (map[string]state.LaunchParams, error) {
	out := make(map[string]state.LaunchParams, len(items))
	for _, item := range items {
		out[item.ProductID] = InlineParams(item)
	}
	return out, nil
}

// InlineParams maps the station override fields to a descriptor.
func InlineParams(item drova.StationProduct) state.LaunchParams {
	return state.LaunchParams{
		ExePath: item.GamePath,
		WorkDir: item.WorkPath,
		Args:    item.Args,
	}
}

// DetailsFetcher is the subset of the catalog client DetailsSource needs.
type DetailsFetcher interface {
	FetchLaunchDetails(ctx context.Context, stationUUID, productID, token string) (drova.LaunchDetails, error)
}

// DetailsSource fetches one launch descriptor per product, in catalog order.
type DetailsSource struct {
	Client DetailsFetcher
}

// Resolve implements LaunchSource. The first failed fetch aborts the load.
func (s DetailsSource) Resolve(ctx context.Context, st station.Info, items []drova.StationProduct, report progress.Reporter) (map[string]state.LaunchParams, error) {
	if s.Client == nil {
		return nil, fmt.Errorf("details source has no client")
	}
	out := make(map[string]state.LaunchParams, len(items))
	progress.Safe(report, progress.Text(StatusLaunchDetails))
	for idx, item := range items {
		details, err := s.Client.FetchLaunchDetails(ctx, st.UUID, item.ProductID, st.Token)
		if err != nil {
			return nil, fmt.Errorf("launch details for %s: %w", item.ProductID, err)
		}
		out[item.ProductID] = DetailsParams(details)
		progress.Safe(report, progress.Tick(StatusLaunchDetails, idx+1, len(items)))
	}
	return out, nil
}

// DetailsParams prefers the station overrides and falls back to the product
// defaults.
func DetailsParams(d drova.LaunchDetails) state.LaunchParams {
	return state.LaunchParams{
		ExePath: firstSet(d.GamePath, d.DefaultGamePath),
		WorkDir: firstSet(d.WorkPath, d.DefaultWorkPath),
		Args:    firstSet(d.Args, d.DefaultArgs),
	}
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
