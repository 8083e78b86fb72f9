package hkrepo

// ResolveFlags holds hkrepo's four resolve-time switches as named
// booleans threaded through every resolve call, rather than one options
// bag. There is no skip-refetch, force-fetch, force-clean or
// force-reparse switch.
type ResolveFlags struct {
	// Offline skips any network fetch; a remote import whose directory
	// isn't already materialized under _hkdeps is reported as an error
	// instead of being cloned.
	Offline bool
	// NoPrune disables the mark-and-sweep deletion of _hkdeps
	// directories that no resolved module transitively imports anymore.
	NoPrune bool
	// Verbose records the CLI's -v option. hkrepo does not read it;
	// cmd/hkc gates its own debug logging on the same option.
	Verbose bool
	// FrozenLock requires every remote import to already have a pinned
	// entry in hkc.lock; resolving an import with no lock entry is an
	// error instead of writing a new one.
	FrozenLock bool
}
