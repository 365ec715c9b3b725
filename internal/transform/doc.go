// Package transform turns a raw batch of fetched records into the grouped,
// ordered view that presentation layers render. Transform is pure: it owns no
// state and never fails; invalid records are dropped, never rejected as a
// batch.
package transform
