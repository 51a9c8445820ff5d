package calendar

import (
	"errors"
	"fmt"
)

// Op names a calendar operation.
type Op string

const (
	OpList   Op = "list"
	OpGet    Op = "get"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

var alerts = map[Op]string{
	OpList:   "Could not fetch Google Calendar events. Please ensure you have granted calendar permissions.",
	OpGet:    "Could not load the event from Google Calendar.",
	OpCreate: "Could not create the event in Google Calendar.",
	OpUpdate: "Could not update the event in Google Calendar.",
	OpDelete: "Could not delete the event from Google Calendar.",
}

// Error is returned for every failed Google Calendar call.
type Error struct {
	Op      Op
	EventID string
	Err     error
}

func (e *Error) Error() string {
	if e.EventID != "" {
		return fmt.Sprintf("calendar %s %s: %v", e.Op, e.EventID, e.Err)
	}
	return fmt.Sprintf("calendar %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Alert returns the message shown to the user for this failure.
func (e *Error) Alert() string {
	if msg, ok := alerts[e.Op]; ok {
		return msg
	}
	return "Google Calendar request failed."
}

// Alert returns the user-facing message for err: the operation's alert
// for calendar failures, the error text otherwise.
func Alert(err error) string {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Alert()
	}
	return err.Error()
}
