package cli

// Export internal functions for testing.

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// WriteFileAtomic exports writeFileAtomic for testing.
var WriteFileAtomic = writeFileAtomic

// ReadInputFile exports readInputFile for testing.
var ReadInputFile = readInputFile

// ParseCookies exports parseCookies for testing.
var ParseCookies = parseCookies

// FormatCookies exports formatCookies for testing.
var FormatCookies = formatCookies
