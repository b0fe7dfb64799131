// Package mse defines the record types consumed by the downstream
// management-strategy-evaluation simulation engine: an observed-data record
// (Data) and a stock-parameter record (Stock).
//
// Field names and array shapes are the compatibility surface with that
// engine. Every array on Data carries a leading replicate dimension of size
// NSim; values are identical across replicates, which is a structural
// requirement of the consumer rather than a stochastic feature. Missing
// observations are represented as NaN.
package mse
