// Package utils provides small conversion helpers shared by the sync pipeline
// and the HTTP handlers: loose int/bool parsing of decoded JSON and query values,
// and extraction of numeric ids from remote resource URLs.
package utils
