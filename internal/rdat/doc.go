// Package rdat models the output structure of a BAM stock assessment run.
//
// The loader (external to this module) produces a Raw value: a tree of named
// scalars, vectors and matrices whose field names vary across assessment-model
// versions. Standardize reconciles that tree into the canonical Rdat form the
// conversion pipelines consume: typed parameter fields, abbreviation-keyed
// index/composition/selectivity maps, and year-as-rows matrix orientation.
package rdat
