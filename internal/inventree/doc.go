// Package inventree implements the InvenTree warehouse driver.
//
// # Overview
//
// The package has three layers:
//
//   - decode.go: turns InvenTree JSON into catalog records
//   - client.go: HTTP client for the handful of REST endpoints the driver needs
//   - driver.go: Driver, the catalog.Warehouse implementation that owns the
//     session and runs the call pipeline
//
// # Client Usage
//
//	client, err := inventree.NewClient("http://inventree.local:8000", 0)
//	if err != nil {
//		return err
//	}
//	token, err := client.FetchToken(ctx, "admin", "secret")
//
// # API Endpoints
//
// All paths are relative to <server>/api/:
//
//   - GET /                          version document (no auth)
//   - GET user/token/                auth token (HTTP basic auth)
//   - GET part/parameter/template/   parameter templates
//   - GET stock/location/            stock locations
//   - GET part/?search=<term>        part search
//   - GET part/<id>/                 one part record
//   - GET part/parameter/?part=<id>  parameter values of one part
//
// Authenticated calls send "Authorization: Token <token>".
//
// # Pipeline
//
// Driver.Connect first resets the session, then runs version → token →
// templates → locations strictly in sequence. A failed version call is
// reported and ignored. A failed or empty token ends the connect with
// catalog.ErrNoToken and the remaining stages are skipped. Template and
// location failures are reported and leave those lists empty.
//
// Search and SelectPart need a token; a search without one is reported as a
// "Search" status. SelectPart is handed to
// catalog.Assembler together with a PartSource bound to the session token.
//
// # Error Handling
//
// Any status other than 200 becomes a *StatusError carrying code and reason
// phrase; its status text is "Error Code:<code>\n<reason>" wherever the
// failure is reported. Transport failures are wrapped as "execute request: ..." and bodies
// that are not JSON as "decode response: ...". Stage failures are also
// published as catalog.StatusEvent values with SeverityErrorDialog.
//
// # Decoding
//
// Decoding is driven by field names; unknown keys are ignored and missing
// keys keep per-record defaults (location and template pk -1, location items
// -1, parameter pk/part/template 1, strings empty). Numeric fields that hold
// something other than a number keep their default. String values are read
// from the compact JSON text and passed through StripQuotes, which drops one
// leading and one trailing byte when the text starts with a quote. No
// unescaping happens. A top-level document of the wrong shape decodes to an
// empty slice.
//
// # Timeouts
//
// NewClient takes an optional per-request timeout. Zero keeps requests
// unbounded; callers can always cancel through the context.
//
// # Thread Safety
//
// Client is safe for concurrent use. Driver is not: its session is plain
// state and callers serialize Connect, Search and SelectPart.
package inventree
