// Package chat keeps the question/answer history for the breed chat panel
// and the general-chat tab.
//
// The remote chatbot is stateless: every question is sent alone with its
// topic. History exists only so it can be shown.
package chat
