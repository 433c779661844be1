// Package team models the bilateral project graph: employees from two
// offices and the two-person teams that connect them.
//
// # Overview
//
// Every project is staffed by exactly one Stockholm employee and one London
// employee. Seen as a graph, employees are vertices and teams are edges of a
// bipartite graph whose sides are the two offices. Choosing a set of
// employees that meets every team is the vertex cover problem solved by
// package cover.
//
// # Identity
//
// An employee is identified by its [ID] alone. Teams are unordered for
// equality: two teams are the same when their endpoint sets match, whichever
// side each endpoint was stored on. [Team.Key] returns that canonical pair
// and [Projects] uses it to reject duplicates:
//
//	p := team.NewProjects()
//	_ = p.Add(team.Team{Stockholm: 1000, London: 2000})
//	err := p.Add(team.Team{Stockholm: 2000, London: 1000}) // ErrDuplicateTeam
//
// # Ordering
//
// [Projects.Teams] returns teams sorted by key. The order carries no meaning
// for the minimum cover, but fixing it keeps enumeration reproducible.
//
// # Concurrency
//
// A Projects value is not safe for concurrent mutation. Once built it is
// treated as read-only and may be shared between goroutines.
package team
