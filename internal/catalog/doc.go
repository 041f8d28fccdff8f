// Package catalog holds the backend-agnostic half of a warehouse driver.
//
// # Overview
//
// A driver talks to one inventory server (see package inventree) and turns
// its JSON into the records defined here. Everything in this package is pure
// or works through small interfaces, so any backend can reuse it:
//
//   - types.go: StockLocation, ParameterTemplate, part parameters/attributes, FoundPart
//   - resolve.go: joins parameters to templates and attributes to locations by id
//   - format.go: display labels and the attribute allow-list
//   - assemble.go: Assembler, which builds the detail map for a selected part
//   - session.go: per-connection state owned by one driver
//   - events.go: typed events a driver publishes to its host
//   - warehouse.go: the Warehouse contract and capability enum
//
// # Reference Resolution
//
// Parameters reference a template id and are resolved to the template's name
// and unit. The default_location attribute references a stock location id and
// is rewritten to "<name> ->> <description>". Lookups take the first match;
// a miss leaves empty strings (parameters) or the raw value (attributes).
// Neither case is an error.
//
// # Detail Map
//
// BuildDetail writes one entry per parameter, keyed by the formatted template
// name with the value "<data> <unit>", then one entry per allow-listed
// attribute keyed by the formatted attribute name. Attributes are written
// last, so on a label collision the attribute wins.
//
// # Events
//
// Drivers return explicit results and additionally publish FoundPartsEvent,
// PartDetailEvent and StatusEvent values through a Notifier. Every event
// carries the driver id assigned at connect time.
//
// # Thread Safety
//
// Session has no locking. Hosts call one driver operation at a time.
package catalog
