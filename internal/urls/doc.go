// Package urls provides centralized constants for the service endpoint and
// documentation URLs used throughout the application.
//
// All URLs are defined here as exported constants so they can be updated in
// a single location before release.
//
// Usage:
//
//	import "github.com/muurk/petpal/internal/urls"
//
//	fmt.Printf("API reference: %s\n", urls.APIDocs)
package urls
