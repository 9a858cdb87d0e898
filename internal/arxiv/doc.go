// Package arxiv queries the arXiv Atom API for recent papers matching
// configured keywords and subject categories. It builds quoted OR queries,
// expands umbrella subject areas to their registered sub-categories and
// filters results by category membership.
package arxiv
