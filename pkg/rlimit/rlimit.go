// Package rlimit raises the soft limit on open files for processes that may
// hold many files or connections at once.
package rlimit

// RaiseOpenFilesLimit raises the soft limit on open files to the hard limit
// and returns the new soft limit.
func RaiseOpenFilesLimit() (uint64, error) {
	return raiseOpenFilesLimit()
}
