package maintenance

// Stats summarises one cleanup run: files scanned, keys expired by age,
// entries deleted (markers + outputs combined, across both phases), and
// bytes freed.
type Stats struct {
	FilesScanned   int
	ExpiredKeys    int
	EntriesDeleted int
	BytesFreed     int64
	Ran            bool
	Reason         string
}
