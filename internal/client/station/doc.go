// Package station holds the cached server state of one mounted station
// view: storage, hangar and locations.
//
// Each context keeps its last committed snapshot behind an atomic pointer,
// so readers never observe a half-applied fetch. Snapshots are unavailable
// (ok == false) until the first fetch commits. Contexts do not poll; they
// refresh when asked or after a mutation they triggered.
//
// A View ties the three contexts to one lifetime. Closing the view cancels
// in-flight fetches and drops any result that arrives afterwards.
package station
