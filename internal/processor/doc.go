// Package processor contains the core business logic for announcing
// arXiv papers. It orchestrates the search, summary cleanup, translation,
// history tracking and audio pregeneration. This package serves as the
// main coordinator between all other components.
package processor
