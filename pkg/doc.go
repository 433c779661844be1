// Package pkg holds the public libraries behind bilateral.
//
// # Overview
//
// Bilateral reads a list of two-person teams, one member per office, and
// picks the fewest employees such that every team keeps one member. The
// packages split that work as follows:
//
//  1. [team] - employee IDs, teams and the deduplicated project set
//  2. [input] - the text and JSON dataset formats and the random generator
//  3. [cover] - exhaustive cover enumeration and the selection policy
//  4. [output] - text, JSON and Graphviz renderings of a solved cover
//  5. [pipeline] - caching and hooks around a solve, shared by CLI and server
//  6. [cache], [store] - result cache backends and the solve archive
//
// # Data flow
//
//	dataset (text or JSON)
//	         ↓
//	    [input] package (parse, validate ranges, drop nothing silently)
//	         ↓
//	    [cover] package (enumerate candidates, rank, select)
//	         ↓
//	    [output] package (text, JSON, DOT, SVG)
//
// # Quick Start
//
//	p, err := input.ParseFile("teams.txt")
//	if err != nil {
//	    return err
//	}
//	res, err := cover.Solve(ctx, p, cover.DefaultFriend, cover.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Cover) // {1009 2000}
package pkg
