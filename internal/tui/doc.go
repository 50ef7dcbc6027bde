// Package tui implements the full-screen terminal interface for PetPal.
//
// The TUI renders a session.Controller. It never holds workflow state of its
// own: every key press becomes a controller call, and the view is redrawn
// from a fresh Snapshot afterwards.
//
// # Architecture
//
// A single AppModel shows three tabs, one per session.Mode:
//   - Upload Image: enter a file path, then analyze the photo
//   - Search by Breed: type a breed or pick one of the popular breeds
//   - General Chat: free-form questions to the assistant
//
// Below the input sit the age-group selector and dietary chips, then the
// breed result with its recipe cards, then the breed chat panel. All of it
// scrolls inside a bubbles/viewport wrapped by RenderApplicationContainer.
//
// # Async Calls
//
// Transport calls never run on the UI goroutine. An action calls a Begin
// method on the controller, and the returned session.Pending runs inside a
// tea.Cmd. Its Outcome comes back as a message and is handed to
// Controller.Complete, which drops outcomes made stale by a tab switch.
// Chat questions follow the same shape through chat.Question and
// chat.Session.Resolve.
//
// # Framework Components
//
//   - bubbles/spinner: loading indicator next to the status label
//   - bubbles/textinput: path, breed and chat inputs
//   - bubbles/viewport: scrolling body
//   - bubbles/help: key hints in the footer and the f1 overlay
//   - lipgloss: dark and light themes
//   - glamour: markdown rendering of assistant answers
//   - fuzzysearch: breed suggestions while typing
//
// # Usage Example
//
//	controller := session.NewController(client, prefs)
//	app := tui.NewAppModel(ctx, controller, client)
//	program := tea.NewProgram(app, tea.WithAltScreen())
//
//	if _, err := program.Run(); err != nil {
//	    return err
//	}
package tui
