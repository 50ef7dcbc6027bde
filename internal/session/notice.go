package session

import (
	"fmt"

	"github.com/muurk/petpal/internal/petpalapi"
)

// NoticeKind classifies what a user must be told after an action
type NoticeKind int

const (
	// NoticeNone means the action needs no user-facing message
	NoticeNone NoticeKind = iota
	// NoticePrecondition is a local failure; no network call was made
	NoticePrecondition
	// NoticeTransport is a failed round trip
	NoticeTransport
	// NoticeEmptyResult means image analysis found no breed
	NoticeEmptyResult
)

// String returns a human-readable name for the notice kind
func (k NoticeKind) String() string {
	switch k {
	case NoticeNone:
		return "None"
	case NoticePrecondition:
		return "Precondition"
	case NoticeTransport:
		return "Transport"
	case NoticeEmptyResult:
		return "EmptyResult"
	default:
		return fmt.Sprintf("NoticeKind(%d)", k)
	}
}

// User-facing messages
const (
	MsgSelectImage     = "Please select an image first"
	MsgEnterBreed      = "Please enter a breed name"
	MsgDetectFirst     = "Please detect a breed first"
	MsgBusy            = "Please wait for the current request to finish"
	MsgNoAnalysis      = "Breed analysis is not available in general chat"
	MsgImageModeOnly   = "Switch to the image tab to select a photo"
	MsgNoBreedDetected = "No breed detected. Please try with a clearer dog image."
)

// Status labels shown next to the loading indicator
const (
	StatusAnalyzingImage = "Analyzing your image..."
	StatusSearchingBreed = "Searching for breed information..."
	StatusGeneratingMore = "Generating more recipes..."
	APIStatusConnecting  = "Connecting to API..."
	APIStatusConnected   = "API Connected ✓"
	APIStatusFailed      = "API Connection Failed ✗"
)

// Notice is the outcome of a user action that the UI must surface.
// The zero value means "nothing to show".
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error // transport error, NoticeTransport only
}

// IsZero reports whether there is nothing to show
func (n Notice) IsZero() bool {
	return n.Kind == NoticeNone
}

// Blocking reports whether the notice must be acknowledged before continuing
func (n Notice) Blocking() bool {
	return n.Kind != NoticeNone
}

func precondition(msg string) Notice {
	return Notice{Kind: NoticePrecondition, Message: msg}
}

func emptyResult() Notice {
	return Notice{Kind: NoticeEmptyResult, Message: MsgNoBreedDetected}
}

// transportFailure builds "<prefix>: <detail>" from a transport error
func transportFailure(prefix string, err error) Notice {
	return Notice{
		Kind:    NoticeTransport,
		Message: fmt.Sprintf("%s: %s", prefix, petpalapi.ErrorMessage(err)),
		Err:     err,
	}
}
