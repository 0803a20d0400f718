// Package pebblestore wraps Pebble with an fsync policy, bounded range scans
// in either direction, range deletes and a small metrics hook.
//
//	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	err = db.Scan(ctx, []byte("col/a/i/"), []byte("col/a/i0"), true,
//	    func(k, v []byte) (bool, error) { return true, nil })
package pebblestore
