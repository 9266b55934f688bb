package checker

// Event is one unit of run progress. Scan events (Link nil) announce a
// file entering extraction, or carry Err when the file could not be
// read. Note events carry a fail-open diagnostic for Path, such as a
// robots.txt that could not be fetched. Link events report one verified
// link together with running totals.
type Event struct {
	Path string // file or URL the event concerns
	Err  error  // extraction failure for Path, if any
	Note string // fail-open diagnostic for Path, if any
	Link *Link  // verified link, nil on scan events

	Checked      int // links verified so far
	Broken       int // unreachable so far
	Questionable int // questionable so far
}
