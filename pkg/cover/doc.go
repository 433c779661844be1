// Package cover finds a minimum set of employees that meets every project
// team, preferring sets that include a designated friend.
//
// # Overview
//
// The project graph from package team is bipartite: Stockholm employees on
// one side, London employees on the other, one edge per team. A set that
// contains at least one member of every team is a vertex cover. This package
// finds one of minimum size by exhaustive enumeration.
//
// # Enumeration
//
// [Enumerate] walks a binary choice tree breadth-first, one team per level.
// Starting from the empty set, every candidate in the frontier is extended
// once with each endpoint of the current team:
//
//	{}                      (before any team)
//	{1000} {2000}           after 1000:2000
//	{1000} {1000,2000}      after 1001:2000 ... and so on
//	{1001,2000} {2000}
//
// Every candidate produced this way is a cover of the teams processed so far.
// Conversely any cover K contains, for each team, at least one endpoint; the
// path that always picks such an endpoint ends in a subset of K. The minimum
// over the final frontier is therefore the exact minimum vertex cover.
//
// Candidates that are equal as sets collapse into one (see [Options.Raw] to
// keep every path). Without collapsing the frontier holds exactly 2^m paths
// for m teams.
//
// # Budget
//
// The search is exponential in the number of teams. [Options.MaxFrontier]
// and [Options.MaxTeams] bound it, and the context passed to [Enumerate]
// can carry a deadline. Exceeding any bound is an error carrying
// errors.ErrCodeResourceLimit or errors.ErrCodeTimeout. Results are never
// truncated: a returned frontier is always the complete candidate space.
//
// # Selection
//
// [Select] keeps the candidates of minimum size, narrows them to those
// containing the friend when any exist, and returns the one whose sorted
// member list is lexicographically smallest. The last rule makes results
// reproducible across runs; any cover passing the first two filters would be
// a correct answer.
//
// # Usage
//
//	res, err := cover.Solve(ctx, projects, cover.DefaultFriend, cover.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Cover.Len())
//	for _, id := range res.Cover.Members() {
//	    fmt.Println(id)
//	}
package cover
