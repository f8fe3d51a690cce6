// Package reindex re-embeds existing support records with a new or updated
// embedding model.
//
// This package supports batch processing of support records, progress
// tracking, retry logic with exponential backoff, and automatic migration
// of the store's enforced vector dimension when the new model produces
// vectors of a different size.
package reindex
