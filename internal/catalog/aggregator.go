package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/five82/drova-launcher/internal/drova"
	"github.com/five82/drova-launcher/internal/imagecache"
	"github.com/five82/drova-launcher/internal/progress"
	"github.com/five82/drova-launcher/internal/state"
	"github.com/five82/drova-launcher/internal/station"
)

// Status texts reported before each network phase.
const (
	StatusStation   = "Получаем токен и UUID станции…"
	StatusProducts  = "Загружаем список игр…"
	StatusCatalog   = "Загружаем каталог игр…"
	StatusResources = "Загружаем ресурсы…"
)

// Fetcher is the subset of the catalog client the aggregator needs.
type Fetcher interface {
	FetchStationProducts(ctx context.Context, stationUUID, token string) ([]drova.StationProduct, error)
	FetchProductsFull(ctx context.Context, token string) ([]drova.ProductMeta, error)
}

// Options configure an Aggregator.
type Options struct {
	Station      station.Provider
	Client       Fetcher
	Store        *state.Store
	Images       imagecache.Resolver // nil passes remote URLs through
	LaunchSource LaunchSource        // nil uses InlineSource
	Desktop      DesktopPolicy
	MetadataAuth bool // send the station token with the metadata request
	Logger       *slog.Logger
}

// Aggregator turns the station list and the metadata catalog into cards
// and installs the matching launch state.
type Aggregator struct {
	station      station.Provider
	client       Fetcher
	store        *state.Store
	images       imagecache.Resolver
	launches     LaunchSource
	desktop      DesktopPolicy
	metadataAuth bool
	log          *slog.Logger
}

// New builds an Aggregator.
func New(opts Options) (*Aggregator, error) {
	if opts.Station == nil {
		return nil, fmt.Errorf("aggregator requires a station provider")
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("aggregator requires a catalog client")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("aggregator requires a launch store")
	}
	a := &Aggregator{
		station:      opts.Station,
		client:       opts.Client,
		store:        opts.Store,
		images:       opts.Images,
		launches:     opts.LaunchSource,
		desktop:      opts.Desktop,
		metadataAuth: opts.MetadataAuth,
		log:          opts.Logger,
	}
	if a.images == nil {
		a.images = imagecache.Passthrough{}
	}
	if a.launches == nil {
		a.launches = InlineSource{}
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	a.log = a.log.With("component", "catalog")
	return a, nil
}

// Load runs one full catalog load and returns the cards in station order.
// report may be nil. On success the launch state in the store is replaced;
// on failure it is left untouched.
func (a *Aggregator) Load(ctx context.Context, report progress.Reporter) ([]Card, error) {
	progress.Safe(report, progress.Text(StatusStation))
	st, err := a.station.Station(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve station: %w", err)
	}
	a.log.Debug("station resolved", "station", st)

	progress.Safe(report, progress.Text(StatusProducts))
	products, err := a.client.FetchStationProducts(ctx, st.UUID, st.Token)
	if err != nil {
		return nil, fmt.Errorf("fetch station products: %w", err)
	}
	ready := FilterReady(products)
	if len(ready) == 0 {
		return nil, ErrEmptyCatalog
	}

	progress.Safe(report, progress.Text(StatusCatalog))
	token := ""
	if a.metadataAuth {
		token = st.Token
	}
	metaList, err := a.client.FetchProductsFull(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch product catalog: %w", err)
	}
	metas := BuildMetaMap(metaList)

	desktop := BuildDesktopSet(ready, metas, a.desktop)

	launches, err := a.launches.Resolve(ctx, st, ready, report)
	if err != nil {
		return nil, err
	}

	cards := a.buildCards(ctx, ready, metas, desktop, report)

	if err := a.store.Replace(launches, desktop); err != nil {
		return nil, fmt.Errorf("install launch state: %w", err)
	}
	a.log.Info("catalog loaded",
		"station_products", len(products),
		"ready", len(ready),
		"metadata", len(metas),
		"desktop", len(desktop))
	return cards, nil
}

func (a *Aggregator) buildCards(ctx context.Context, ready []drova.StationProduct, metas MetaMap, desktop state.DesktopSet, report progress.Reporter) []Card {
	progress.Safe(report, progress.Text(StatusResources))
	cards := make([]Card, 0, len(ready))
	for idx, item := range ready {
		progress.Safe(report, progress.Tick(StatusResources, idx+1, len(ready)))

		meta := metaPtr(metas, item.ProductID)
		card := Card{
			ProductID: item.ProductID,
			Title:     ResolveTitle(item, meta),
			IsDesktop: desktop.Contains(item.ProductID),
		}
		if meta != nil {
			if meta.CardPicture != "" {
				card.ImageURL = a.images.Resolve(ctx, meta.CardPicture)
			}
			card.Alt = Truncate(meta.DescriptionRu, AltLimit)
			card.RequiredAccount = meta.RequiredAccount
			card.IsFree = meta.NoLicenseRequired
		}
		cards = append(cards, card)
	}
	return cards
}
