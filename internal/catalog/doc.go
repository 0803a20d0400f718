// Package catalog stores named items in a total (name, id) order and answers
// the bounded range queries the pager consumes.
//
// # Keyspace
//
//	col/{collection}/i/{name}\x00{id}   entry (record-encoded JSON item)
//	col/{collection}/id/{id}            identity index (value: name)
//	col/{collection}/m/count            item count, 8 bytes big-endian
//
// Entry keys sort byte-wise by name and then id, so a forward scan from
// col/{c}/i/{lower} yields items with name >= lower in order, and a reverse
// scan bounded above by col/{c}/i/{upper} yields name < upper descending.
//
// # Queries
//
// Forward and Reverse accept an optional CEL filter over name, id,
// created_ms and attrs. Offsets and limits count matching items only.
// SearchFilter builds the substring filter used by the search box.
//
// # Change feed
//
// Insert and DeleteAll close and replace a notification channel; Changes
// returns the current one and Watch turns it into callbacks. The sqlstore
// subpackage implements the same Store contract on SQLite.
package catalog
