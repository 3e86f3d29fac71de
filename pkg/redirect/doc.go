// Package redirect schedules the hand-off to the external document-signing
// service after a successful submission: a notification after NotifyDelay and
// the opening of the signing URL after a further OpenDelay. Both stages belong
// to one Task sharing one cancellation token.
package redirect
