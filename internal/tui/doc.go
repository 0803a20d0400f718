// Package tui is the terminal browser for a bucketed collection. It renders
// the pager window as sections under bucket headers with an index bar, and
// translates viewport movement into the engine's visibility signals.
//
// The model never talks to storage directly: every load goes through a
// Driver (normally *pager.Engine), whose events arrive as EventMsg values
// sent into the running tea.Program.
//
// Keys
//
//	j/k, up/down      move the cursor
//	pgup/pgdown, g/G  page and jump to the ends of the window
//	h/l, left/right   select a bucket in the index bar
//	enter             jump to the selected bucket, clearing any search
//	/                 search (esc clears, enter keeps the text)
//	+                 seed 1000 items (when an Admin is configured)
//	D                 delete every item (when an Admin is configured)
//	r                 reload the window
//	q, ctrl+c         quit
package tui
