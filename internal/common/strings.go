package common

// UnknownStr is the display name for values outside a known enum range.
const UnknownStr = "unknown"
