// Package clinic is the application service of the appointment book.
//
// Service is what a front-end talks to. It validates input, enforces the
// appointment lifecycle, keeps patient histories in step with completed
// appointments and delegates persistence to the store.
//
// Persistence failures never abort the caller: each one is logged, the
// operation degrades to an empty result or a no-op, and the error is still
// returned so callers and tests can see what happened.
package clinic
