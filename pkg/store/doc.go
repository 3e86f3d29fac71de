// Package store persists intake records behind a small generic repository
// interface. Memory keeps records in process; SQL keeps one JSON document per
// row on sqlite (modernc.org/sqlite) or postgres (lib/pq).
package store
