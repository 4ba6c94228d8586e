package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrURLMissing indicates no cluster URL was given by flag, config file or environment.
	ErrURLMissing = errors.New("cluster URL not set (use --url, `clusteradm config set url` or CLUSTERADM_URL)")

	// ErrBadConfig indicates the local configuration could not be loaded.
	ErrBadConfig = errors.New("invalid local configuration")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrNotConfirmed indicates a destructive command ran without --yes.
	ErrNotConfirmed = errors.New("confirmation required (pass --yes)")

	// ErrEmptyPassword indicates an empty password was entered.
	ErrEmptyPassword = errors.New("password is required")
)
