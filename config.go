package censuskit

// DefaultBasePath is the published release the client reads from when no
// base path is configured.
const DefaultBasePath = "https://popgetter.blob.core.windows.net/releases/v0.2"

// Config selects the remote or local root the client reads from.
type Config struct {
	// BasePath is the remote URL or local directory containing
	// countries.txt, per-country metadata and the metric/geometry files.
	// Empty means DefaultBasePath.
	BasePath string

	// CachePath is a local directory for the metadata catalog snapshot.
	// Empty disables caching.
	CachePath string
}

// DefaultConfig returns the configuration pointing at the published release,
// with caching disabled.
func DefaultConfig() Config {
	return Config{BasePath: DefaultBasePath}
}

func (c Config) basePath() string {
	if c.BasePath == "" {
		return DefaultBasePath
	}
	return c.BasePath
}
