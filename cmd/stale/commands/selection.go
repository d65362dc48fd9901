package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stale/internal/app"
	"go.trai.ch/stale/internal/core/domain"
)

// addSelectionFlags registers the flags shared by check and watch.
func addSelectionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("dir", "C", ".", "Working directory for config discovery and relative paths")
	flags.StringP("config", "c", "", "Path to a config file instead of discovering "+domain.ConfigFileName)
	flags.StringP("source", "s", "", "Source directory of an ad-hoc check (defaults to --dir)")
	flags.StringP("target", "t", "", "Target artifact of an ad-hoc check; skips the config file")
	flags.StringArrayP("pattern", "p", nil, "Glob a source path must match, relative to the source (repeatable)")
	flags.BoolP("verbose", "v", false, "Log every matched file")
	flags.Bool("follow-links", false, "Follow symbolic links below the source")
	flags.Bool("follow-root-links", true, "Follow a symbolic link given as the source")
	flags.Int("max-depth", 0, "Maximum directory depth below the source (unlimited when unset)")
	flags.Int("max-open", domain.DefaultMaxOpenHandles, "Maximum number of directory handles held open")
	flags.Bool("same-file-system", false, "Do not descend into other file systems")
}

// selectionFromFlags builds the check selection. Only flags set on the
// command line override values from the config file.
func selectionFromFlags(cmd *cobra.Command, names []string) app.Selection {
	flags := cmd.Flags()
	dir, _ := flags.GetString("dir")
	configPath, _ := flags.GetString("config")
	source, _ := flags.GetString("source")
	target, _ := flags.GetString("target")

	var opts []domain.ScanOption
	if flags.Changed("pattern") {
		patterns, _ := flags.GetStringArray("pattern")
		opts = append(opts, domain.WithPatterns(patterns...))
	}
	if flags.Changed("verbose") {
		verbose, _ := flags.GetBool("verbose")
		opts = append(opts, domain.WithVerbose(verbose))
	}
	if flags.Changed("follow-links") {
		follow, _ := flags.GetBool("follow-links")
		opts = append(opts, domain.WithFollowLinks(follow))
	}
	if flags.Changed("follow-root-links") {
		follow, _ := flags.GetBool("follow-root-links")
		opts = append(opts, domain.WithFollowRootLinks(follow))
	}
	if flags.Changed("max-depth") {
		depth, _ := flags.GetInt("max-depth")
		opts = append(opts, domain.WithMaxDepth(depth))
	}
	if flags.Changed("max-open") {
		maxOpen, _ := flags.GetInt("max-open")
		opts = append(opts, domain.WithMaxOpenHandles(maxOpen))
	}
	if flags.Changed("same-file-system") {
		same, _ := flags.GetBool("same-file-system")
		opts = append(opts, domain.WithSameFileSystem(same))
	}

	return app.Selection{
		Dir:        dir,
		ConfigPath: configPath,
		Names:      names,
		Source:     source,
		Target:     target,
		Scan:       opts,
	}
}
