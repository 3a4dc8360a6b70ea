// Package theta defines the camera model, capture status, and the sparse
// option set used to configure RICOH THETA cameras.
//
// Options are plain structs of pointer fields: a nil field means "not set"
// and is omitted from the wire. JSON field names follow the OSC option
// names so an Options value can be sent as-is in camera.setOptions.
package theta
