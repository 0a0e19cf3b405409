// Package catalog aggregates the station product list and the product
// metadata catalog into display cards and a launch table.
//
// # Pipeline
//
// Aggregator.Load runs these steps sequentially, reporting a status before
// each network phase:
//
//  1. Resolve the station UUID and token.
//  2. Fetch the station products and keep the ready ones (enabled, and
//     every present verification/availability marker positive). An empty
//     result is ErrEmptyCatalog.
//  3. Fetch the metadata catalog and index it by id; later duplicates win.
//  4. Classify desktop entries.
//  5. Resolve launch descriptors through the configured LaunchSource.
//  6. Build one Card per ready product, resolving images through the cache.
//  7. Install the launch table and desktop set in the store, once.
//
// Any failure before step 7 leaves the previously installed state intact.
//
// # Desktop Detection
//
// A product is the desktop entry when any of these hold:
//
//   - its id is DesktopProductID
//   - its catalog title (or station title) is "desktop", ignoring case
//   - its display name is "Рабочий стол", ignoring case
//
// DesktopFlag also honours use_default_desktop on either record. The default
// DesktopMatch ignores it, since stations set that flag on ordinary games.
//
// # Launch Sources
//
// InlineSource reads game_path/work_path/args from the station record.
// DetailsSource fetches a launch descriptor per product and falls back to
// its default_* fields.
package catalog
