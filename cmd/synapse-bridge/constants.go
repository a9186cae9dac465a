package synapsebridge

const (
	rootCommandUse   = "synapse-bridge"
	rootCommandShort = "Bridge between a desktop front end and the semantic sorting pipeline"

	environmentPrefix = "SYNAPSE_BRIDGE"

	configFlagName    = "config"
	configFlagUsage   = "Path to config.yaml (default: search ./, $XDG_CONFIG_HOME/synapse-bridge, ~/.synapse-bridge)"
	logLevelFlagName  = "log-level"
	logLevelFlagUsage = "Override common.logging.level (debug, info, warn, error)"
	formatFlagName    = "format"
	formatFlagUsage   = "Output format: json or markdown"
	styleFlagName     = "style"
	styleFlagUsage    = "Markdown style: auto, dark, light, notty or a style file path"
	widthFlagName     = "width"
	widthFlagUsage    = "Markdown word wrap width (0 = renderer default)"

	sensitivityFlagName        = "sensitivity"
	sensitivityFlagUsage       = "Cluster sensitivity passed to the pipeline"
	namingStyleFlagName        = "naming-style"
	namingStyleFlagUsage       = "Folder naming style passed to the pipeline"
	includeSubfoldersFlagName  = "include-subfolders"
	includeSubfoldersFlagUsage = "Include subfolders (unset = pipeline default)"
	dryRunFlagName             = "dry-run"
	dryRunFlagUsage            = "Plan the sort without moving files (unset = pipeline default)"
	progressFlagName           = "progress"
	progressFlagUsage          = "Report pipeline progress on stderr while sorting"

	previewCommandUse   = "preview PATH"
	previewCommandShort = "Estimate the semantic clusters of a folder without changing it"
	runCommandUse       = "run PATH"
	runCommandShort     = "Sort a folder into semantic subfolders"
	selectCommandUse    = "select folder|files"
	selectCommandShort  = "Open the terminal picker and print the selection"
	serveCommandUse     = "serve"
	serveCommandShort   = "Serve line-delimited JSON bridge requests on stdin/stdout"

	selectTargetFolder = "folder"
	selectTargetFiles  = "files"

	outputFormatJSON     = "json"
	outputFormatMarkdown = "markdown"

	configurationLoaderInitializationErrorFormat = "initialize configuration loader: %w"
	configurationSourceResolutionErrorFormat     = "resolve configuration source: %w"
	rootConfigurationLoadErrorFormat             = "load root configuration %s: %w"
	unsupportedFormatErrorFormat                 = "unsupported output format %q (want json or markdown)"
	unsupportedSelectTargetErrorFormat           = "unsupported selection %q (want folder or files)"
	writeOutputErrorFormat                       = "write output: %w"
)
