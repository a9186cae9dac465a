package pipeline

const (
	previewFlag           = "--preview"
	dryRunFlag            = "--dry-run"
	noDryRunFlag          = "--no-dry-run"
	sensitivityFlag       = "--sensitivity"
	namingStyleFlag       = "--naming-style"
	includeSubfoldersFlag = "--include-subfolders"
	noSubfoldersFlag      = "--no-subfolders"
)

// BuildArguments renders the argument vector passed to the interpreter:
//
//	<entry> [--preview] <target> [--dry-run|--no-dry-run] [--sensitivity V] [--naming-style V] [--include-subfolders|--no-subfolders]
//
// Only present option fields contribute flags. Explicit false values keep their own flag.
func BuildArguments(entryScript string, request OperationRequest) []string {
	arguments := []string{entryScript}
	if request.mode == ModePreview {
		arguments = append(arguments, previewFlag)
	}
	arguments = append(arguments, request.targetPath)

	options := request.options
	if options == nil {
		return arguments
	}
	if options.DryRun != nil {
		arguments = append(arguments, choose(*options.DryRun, dryRunFlag, noDryRunFlag))
	}
	if options.ClusterSensitivity != nil {
		arguments = append(arguments, sensitivityFlag, *options.ClusterSensitivity)
	}
	if options.FolderNamingStyle != nil {
		arguments = append(arguments, namingStyleFlag, *options.FolderNamingStyle)
	}
	if options.IncludeSubfolders != nil {
		arguments = append(arguments, choose(*options.IncludeSubfolders, includeSubfoldersFlag, noSubfoldersFlag))
	}
	return arguments
}

func choose[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
