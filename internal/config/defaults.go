package config

const (
	defaultLogDir          = "~/.local/share/dubscore/logs"
	defaultHistoryDB       = "~/.local/share/dubscore/history.db"
	defaultOutputDirName   = "_analysis"
	defaultFFmpeg          = "ffmpeg"
	defaultFFprobe         = "ffprobe"
	defaultConcurrency     = 4
	defaultTimeoutSeconds  = 300
	defaultFragmentSeconds = 30
	defaultFragmentStart   = "00:00:10"
	defaultMinFreeMiB      = 512
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// DefaultExtensions lists the container extensions analyzed when none are
// configured.
var DefaultExtensions = []string{"mp3", "mp4", "wav", "flac", "aac", "m4a", "mkv", "avi", "mov"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
		},
		Analysis: Analysis{
			Concurrency:     defaultConcurrency,
			TimeoutSeconds:  defaultTimeoutSeconds,
			Extensions:      append([]string(nil), DefaultExtensions...),
			FragmentSeconds: defaultFragmentSeconds,
			FragmentStart:   defaultFragmentStart,
			Fragments:       true,
			MinFreeMiB:      defaultMinFreeMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
