package domain

// Check is a named staleness question: is Target older than any matching file under Source?
type Check struct {
	// Name identifies the check in reports and on the command line.
	Name string
	// Source is the directory (or single file) holding the inputs.
	Source string
	// Target is the artifact produced from Source.
	Target string
	// Config controls traversal and matching.
	Config ScanConfig
}

// AdHocCheckName names a check assembled from command line flags.
const AdHocCheckName = "target"
