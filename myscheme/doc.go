// Package myscheme searches the myscheme.gov.in portal for government
// scheme information via the Google Custom Search API.
//
// Search results are enriched with extracted page text so the model can
// judge whether a scheme answers the citizen's question without another
// round trip. Failures are soft: misconfiguration, empty queries, and
// upstream errors all come back as a SearchResult with Success false
// rather than an error, so the assistant can respond conversationally.
package myscheme
