package errors

// MessageSentinels lists the sentinels that have a user message.
func MessageSentinels() []error {
	out := make([]error, len(errorInfoEntries))
	for i, entry := range errorInfoEntries {
		out[i] = entry.err
	}
	return out
}
