// Package logging provides structured logging for the PetPal client.
//
// This package wraps a global zap logger with convenience functions for the
// events the client cares about: outbound API calls, screen-state transitions
// and notices shown to the user.
//
// # Log Levels
//
//   - Debug: request starts, state transitions, upload details
//   - Info: completed API responses, notices
//   - Warn: failed requests and non-success responses
//   - Error: startup failures
//
// # Configuration
//
// Logging is silent unless a level is given by flag, config file or the
// PETPAL_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The terminal UI owns the screen, so it writes to a file instead:
//
//	logging.InitializeWithOutput(level, "/home/me/.config/petpal/petpal.log")
//
// # Correlation
//
// Every API call carries an X-Request-ID; LogAPIRequest, LogAPIResponse and
// LogAPIFailure all record it as request_id.
package logging
