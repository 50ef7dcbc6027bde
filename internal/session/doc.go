// Package session implements the PetPal screen state controller.
//
// A Controller owns one State: the active input mode, the workflow phase,
// the picked image, dietary and age selections, the current breed result
// and recipe batch, chat visibility, the loading flag and the startup
// catalog. It turns user intents into transport calls and folds the results
// back in.
//
// # Phases
//
// Image mode:  Idle -> FileSelected -> Analyzing -> ResultReady <-> GeneratingMore
// Text mode:   Idle -> Analyzing -> ResultReady <-> GeneratingMore
// General chat has no phases.
//
// The legal edges are listed in one table (see Transitions). Switching mode
// is a reset, not a transition.
//
// # Async Calls
//
// Calls are split in three so a UI can run the network part off its event
// loop:
//
//	p, notice := ctrl.BeginAnalyze(text) // checks preconditions, sets loading
//	if p == nil {
//	    show(notice)
//	    return
//	}
//	out := p.Run(ctx)                    // network only, no state access
//	notice = ctrl.Complete(out)          // applies result, clears loading
//
// Every Pending carries the generation it was started in. SwitchMode bumps
// the generation, so a result that lands after the user has moved on is
// dropped by Complete. Analyze and GenerateMore run all three steps
// synchronously for command-line use.
//
// # Notices
//
// Failures never escape as errors. They come back as a Notice whose Kind is
// Precondition (nothing was sent), Transport (the call failed) or
// EmptyResult (the image contained no recognizable dog).
package session
