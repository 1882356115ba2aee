// Package shimconfig defines the persisted ShimDocument data model and the
// ConfigStore that loads, validates, caches and resolves it. Each shim is
// described by one TOML document: a required [shim] core, an [args]
// section controlling how invocation arguments are composed, free-form
// [env] and [metadata], and an optional [auto_update] block.
package shimconfig

// SourceType distinguishes how a shim's target executable originates.
type SourceType string

const (
	SourceFile    SourceType = "file"
	SourceArchive SourceType = "archive"
	SourceURL     SourceType = "url"
)

// ShimDocument is the persisted declarative description of one shim.
type ShimDocument struct {
	Shim       ShimCore   `toml:"shim"`
	Args       ArgsConfig `toml:"args"`
	Env        map[string]string `toml:"env,omitempty"`
	Metadata   Metadata   `toml:"metadata"`
	AutoUpdate *AutoUpdate `toml:"auto_update,omitempty"`
}

// ShimCore holds the required, identity-defining fields of a shim.
type ShimCore struct {
	Name                 string                 `toml:"name"`
	Path                 string                 `toml:"path"`
	Args                 []string               `toml:"args,omitempty"`
	Cwd                  string                 `toml:"cwd,omitempty"`
	DownloadURL          string                 `toml:"download_url,omitempty"`
	SourceType           SourceType             `toml:"source_type,omitempty"`
	ExtractedExecutables []ExtractedExecutable  `toml:"extracted_executables,omitempty"`
}

// ExtractedExecutable describes one executable found inside an extracted
// archive-sourced shim.
type ExtractedExecutable struct {
	Name       string `toml:"name"`
	Path       string `toml:"path"`
	FullPath   string `toml:"full_path"`
	IsPrimary  bool   `toml:"is_primary,omitempty"`
}

// ArgsMode selects how user-supplied arguments combine with the shim's
// configured defaults.
type ArgsMode string

const (
	ArgsModeTemplate ArgsMode = "template"
	ArgsModeMerge    ArgsMode = "merge"
	ArgsModeReplace  ArgsMode = "replace"
	ArgsModePrepend  ArgsMode = "prepend"
)

// ArgsConfig configures how ShimRunner composes the final argument vector.
type ArgsConfig struct {
	Mode     ArgsMode `toml:"mode,omitempty"`
	Template []string `toml:"template,omitempty"`
	Inline   string   `toml:"inline,omitempty"`
	Default  []string `toml:"default,omitempty"`
	Prefix   []string `toml:"prefix,omitempty"`
	Suffix   []string `toml:"suffix,omitempty"`
}

// Metadata is free-form descriptive information about a shim.
type Metadata struct {
	Description string   `toml:"description,omitempty"`
	Version     string   `toml:"version,omitempty"`
	Author      string   `toml:"author,omitempty"`
	Tags        []string `toml:"tags,omitempty"`
}

// AutoUpdate configures the Updater for one shim.
type AutoUpdate struct {
	Enabled            bool              `toml:"enabled"`
	Provider           ProviderConfig    `toml:"provider"`
	DownloadURL        string            `toml:"download_url,omitempty"`
	VersionCheck       VersionCheckConfig `toml:"version_check"`
	CheckIntervalHours uint64            `toml:"check_interval_hours"`
	PreUpdateCommand   string            `toml:"pre_update_command,omitempty"`
	PostUpdateCommand  string            `toml:"post_update_command,omitempty"`
}

// ProviderConfig is a tagged variant over the three update-source kinds.
// go-toml has no native enum support, so each variant is modeled as an
// optional sub-table keyed by its tag name under [auto_update.provider].
// Validate does not check how many are set; the updater uses the first
// one set, checking Custom, then Github, then Https.
type ProviderConfig struct {
	Github *GithubProvider `toml:"github,omitempty"`
	Https  *HTTPSProvider  `toml:"https,omitempty"`
	Custom *CustomProvider `toml:"custom,omitempty"`
}

type GithubProvider struct {
	Repo             string `toml:"repo"`
	AssetPattern     string `toml:"asset_pattern"`
	IncludePrerelease bool  `toml:"include_prerelease,omitempty"`
}

type HTTPSProvider struct {
	BaseURL    string `toml:"base_url"`
	VersionURL string `toml:"version_url,omitempty"`
}

type CustomProvider struct {
	UpdateCommand  string `toml:"update_command"`
	VersionCommand string `toml:"version_command,omitempty"`
}

// VersionCheckConfig is a tagged variant over the four ways to determine
// the latest available version.
type VersionCheckConfig struct {
	GithubLatest *GithubLatestCheck `toml:"githublatest,omitempty"`
	Http         *HTTPCheck         `toml:"http,omitempty"`
	Semver       *SemverCheck       `toml:"semver,omitempty"`
	Command      *CommandCheck      `toml:"command,omitempty"`
}

type GithubLatestCheck struct {
	Repo              string `toml:"repo"`
	IncludePrerelease bool   `toml:"include_prerelease,omitempty"`
}

type HTTPCheck struct {
	URL          string `toml:"url"`
	JSONPath     string `toml:"json_path,omitempty"`
	RegexPattern string `toml:"regex_pattern,omitempty"`
}

type SemverCheck struct {
	Current  string `toml:"current"`
	CheckURL string `toml:"check_url"`
}

type CommandCheck struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args,omitempty"`
}
