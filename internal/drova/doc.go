// Package drova provides an HTTP client for the Drova catalog services.
//
// # Overview
//
// The client fetches the products assigned to a station, the full product
// metadata catalog, optional per-product launch descriptors and the public
// station details. Every call is a single GET whose JSON body is decoded into
// a statically known shape.
//
// # Files
//
//   - client.go: request pipeline, endpoint templates, base URL handling
//   - types.go: payload records and their tolerant decoders
//   - errors.go: the three failure kinds a call can return
//
// # Authentication
//
// Station-scoped endpoints take the station token as the X-Auth-Token
// header. An empty token sends no header. The token is never logged; debug
// lines record the URL and whether auth was attached.
//
// # Errors
//
// A call fails with exactly one of:
//
//   - *TransportError: the request could not be built or sent
//   - *StatusError: the server answered with status >= 400
//   - *DecodeError: the body did not match the expected shape
//
// There is no retry. Callers surface the first failure.
//
// # Endpoint Templates
//
// Paths are configured relative to the API base. The placeholders {station}
// and {product} are replaced with path-escaped identifiers:
//
//	/product-manager/serverproduct/list/{station}
//	/product-manager/serverproduct/launch/{station}/{product}
package drova
