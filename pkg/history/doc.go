// Package history journals chat turns so sessions can be listed, exported,
// and resumed.
//
// A Turn is one user message and the reply it produced (or the error that
// ended it). Turns of one chat run share a session ID. The Recorder stamps
// and stores turns; storage backends live in the storage subpackage, the
// retention subpackage prunes old turns, and the export subpackage writes
// them as JSON or CSV.
//
// Recording is best effort: a failed Store is logged and never fails the
// chat turn that produced it.
package history
