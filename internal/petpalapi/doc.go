// Package petpalapi provides an HTTP client for the PetPal inference service.
//
// The service identifies dog breeds from an image or a breed name and
// generates breed-appropriate recipes, optionally filtered by dietary tags and
// an age group. It also answers free-form questions about a breed.
//
// # Usage Example
//
//	client := petpalapi.NewClient()
//
//	img, err := petpalapi.LoadImageFile("rex.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := client.PredictBreedFromImage(ctx, img, "grain-free,low-fat", "adult")
//	if err != nil {
//	    log.Fatal(petpalapi.GetShortErrorMessage(err))
//	}
//	if len(results) > 0 {
//	    fmt.Print(results[0].FormatDetailed())
//	}
//
// # Timeouts
//
// Only image analysis carries its own deadline (DefaultImageTimeout). Every
// other call uses the HTTPClient timeout, which is unset by default, plus
// whatever deadline the caller puts on the context.
//
// # Error Handling
//
// Failed round trips return *RequestError. Use IsNetworkError, IsTimeoutError,
// IsHTTPError and IsParseError to branch on the category, and ErrorMessage to
// get the text a user should see. Local problems such as an unreadable or
// non-image file are plain wrapped errors and never reach the network.
package petpalapi
