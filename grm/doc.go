// Package grm provides a client for the external GRM (Grievance Redress
// and Monitoring) case-management API.
//
// The client covers the four operations the assistant needs: complaint
// classification, grievance creation, single-grievance lookup, and the
// per-user grievance listing. All requests carry a bearer token and are
// bounded by the caller's context.
//
// Lookup misses surface as [ErrNotFound] so callers can distinguish a
// missing record from an upstream failure:
//
//	g, err := client.GetGrievance(ctx, id)
//	if errors.Is(err, grm.ErrNotFound) {
//	    // tell the user the ID does not exist
//	}
package grm
