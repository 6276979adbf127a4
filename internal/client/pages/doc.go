// Package pages contains the dashboard's page controllers.
//
// A controller owns the query parameters of one screen, the last snapshot
// fetched for them and a loading flag. Fetches are tagged with a sequence
// number and only the answer to the most recent one is applied, so a slow
// earlier response cannot overwrite a newer one. Mutating actions report
// their outcome through a status.Banner and re-fetch on success.
package pages
