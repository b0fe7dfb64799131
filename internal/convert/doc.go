// Package convert turns a standardized BAM assessment output into the two
// record types the MSE simulation engine consumes: the observed-data record
// (mse.Data) and the stock-parameter record (mse.Stock).
//
// A Converter is a deterministic, single-pass pipeline: standardize the raw
// structure, extend every age-indexed quantity down to age 0, derive growth,
// maturity and vulnerability scalars, aggregate indices and compositions,
// then assign output fields in fixed order. No output field is ever computed
// from another already-assigned output field. Both entry points are pure up
// to slog diagnostics and safe to call concurrently.
package convert
