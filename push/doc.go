// Package push delivers server-push messages over the Subscribe event
// stream.
//
// A Channel is session-gated: Subscribe refuses to open without an active
// session and refuses a second concurrent open. The session cookie is
// attached once, at connection time. Messages arrive on the returned Go
// channel; each payload is decoded as a self-describing JSON value, and
// payloads that fail to decode are delivered raw instead of being dropped.
//
// A dropped stream closes the event channel and is logged; the Channel never
// reconnects on its own. Close releases the stream and permits a later
// Subscribe.
package push
