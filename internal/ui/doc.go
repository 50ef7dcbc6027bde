// Package ui provides terminal output components for the petpal CLI.
//
// These components follow a "run once and exit" pattern: each subcommand
// prints a header, reports its steps, and then prints the result in the
// format chosen with --format. The interactive screen lives in package tui.
//
// # Architecture
//
//   - Header: command banner showing the operation name and parameters
//   - Runner: header → step list → failure box flow around one command
//   - Result: success, warning and failure boxes with troubleshooting tips
//   - Printer: breed results, recipe cards, chat answers and catalogs in
//     detailed, compact or json format
//
// # Usage Pattern
//
//	printer := ui.NewPrinter(os.Stdout).SetFormat(format)
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:   "Breed Search",
//	    Command: "petpal search",
//	    Params:  map[string]string{"Breed": breed},
//	    Steps:   []string{"Searching breed"},
//	})
//
//	err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) error {
//	    onStep(1, ui.StepRunning, "")
//	    if err := ui.NoticeErr(controller.Analyze(ctx, breed)); err != nil {
//	        onStep(1, ui.StepFailed, "")
//	        return err
//	    }
//	    onStep(1, ui.StepComplete, "")
//	    return nil
//	})
//
// Session notices travel through a Runner as *NoticeError so precondition
// messages print as warnings and transport failures as failure boxes with
// advice from petpalapi.GetTroubleshootingHint.
//
// # Logging Integration
//
// Logging is controlled by --log-level, the config file, or the
// PETPAL_LOG_LEVEL environment variable. When none is set, zap logging is
// silent so the styled output is displayed cleanly.
package ui
