// Package reconcile derives the submittable recipient list for a campaign
// from three inputs: the active requirement's lead list, the set of selected
// lead ids, and per-lead email overrides.
//
// The package is pure data merging — no I/O, no clocks, no goroutines. Every
// discrete event (selection toggle, requirement switch, lead-list refresh,
// manual email edit) goes through one explicit method on Selection, so there
// is a single place where the selection invariants hold:
//
//	I1: a lead enters the selection only if it has a resolvable email at
//	    the moment of selection.
//	I2: every selected id resolves to a non-empty email at submission, or
//	    submission fails naming the offenders.
//	I3: switching the active requirement clears selection and overrides.
package reconcile
