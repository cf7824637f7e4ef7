/*
Package cache provides each addon with a private, file-backed key/value store.

Entries live under <cache-root>/<addon-name>/<relative-path>; a file's
modification time is its age. Relative paths may contain subdirectories but
never "..": such names are rejected with *addon.PathTraversalError before the
filesystem is touched.

	store := cache.New(layout.Cache, "karma")
	store.Put("votes/entry-1", []byte("12"))
	removed, err := store.PurgeOlderThan(24*time.Hour, "votes")

Concurrent writers to the same entry are last-writer-wins. A purge racing a
write may remove a file written after the scan started or skip one created
after it; cache correctness only requires eventual cleanup.
*/
package cache
