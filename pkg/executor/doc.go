// Package executor drives the ordered schema provisioning sequence against
// the database.
//
// It combines two small pieces: a retrying executor that runs one
// management command with a bounded number of fixed-delay retries for
// transiently-classified failures, and a sequencer that walks the step list
// in declaration order, treating "already exists" responses as a skip and
// anything else as fatal. Together they make the setup command idempotent
// and safely resumable: earlier steps stay applied, later steps are never
// attempted past a failure, and re-running is always safe.
//
// Error classification is by predicate over the opaque service message
// (the service exposes no structured codes for these conditions); both
// predicates are pluggable via Config.
package executor
