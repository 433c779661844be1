// Package input reads and writes project descriptions.
//
// # Format
//
// The text format is the one from the original puzzle. The first line holds
// the number of teams m (1 to 10000). Each of the next m lines holds a
// Stockholm employee ID (1000-1999) and a London employee ID (2000-2999)
// separated by a single space or tab. IDs and the count are unsigned decimal
// numbers:
//
//	3
//	1000 2000
//	1001 2000
//	1009 2001
//
// Surrounding spaces are trimmed and anything after the m-th team line is
// ignored. Violations are reported as *errors.Error values wrapped in an
// errors.LineError that names the offending line.
//
// # JSON
//
// [ReadJSON] accepts the request body used by the HTTP API:
//
//	{"teams": [[1000, 2000], [1001, 2000]], "friend": 1009}
//
// # Generation
//
// [Generate] builds random datasets for benchmarking, and [WriteProlog]
// renders a dataset as a Prolog goal for cross-checking with a constraint
// solver.
package input
