// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Library Management - these keys govern course folder discovery and collection behavior.
const (
	LibraryLoadOnStart = "library.load_on_start"
	LibrarySortBy      = "library.sort_by"
)

// Progress Tracking - these keys configure the persistence of course watch state.
const (
	ProgressDebounceMs      = "progress.debounce_ms"
	ProgressAutosaveSeconds = "progress.autosave_seconds"
)

// Search Interaction - these keys define the behavior of library search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Media Playback - these keys maintain the state and configuration for the external video player.
const (
	Player                     = "player.default"
	PlayerCompletionPercentage = "player.completion_percentage"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the application's terminal behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
