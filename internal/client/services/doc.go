// Package services turns typed API results into what the CLI screens show:
// the student's attendance summary, filtered faculty listings and the admin
// overview. Figures computed by the backend (percentages, shortage flags)
// are displayed as-is and never recomputed here.
package services
