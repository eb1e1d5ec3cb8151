// Package availability decides whether crews and personnel can be assigned
// to an immersion on a date without colliding with an existing assignment.
//
// Two paths are provided:
//   - Checker probes each candidate crew through a Probe, in debounced,
//     cancellable runs of bounded-size batches, and publishes one StatusMap
//     per completed run.
//   - PersonnelScanner loads every assignment on a date with one query and
//     derives which people are already committed.
//
// Both paths fail open: a store failure yields "available", never an error.
// Write-time validation in the assignment store remains authoritative.
package availability
