package config

const (
	defaultStagingDir = "~/.local/share/curator/staging"
	defaultLogDir     = "~/.local/share/curator/logs"
	defaultDataDir    = "~/.local/share/curator/data"

	defaultDaemonBaseURL         = "http://127.0.0.1:8765"
	defaultHealthTimeoutSeconds  = 1
	defaultHealthCacheSeconds    = 5
	defaultRequestTimeoutSeconds = 30
	defaultMaxTokens             = 256
	defaultResultCacheSeconds    = 300

	defaultRuntime                = "curator-modelrun"
	defaultModelPath              = "~/.local/share/curator/models/asset-classifier-q4.gguf"
	defaultDownloadTimeoutSeconds = 600
	defaultRunTimeoutSeconds      = 60

	defaultThermalMaxCelsius      = 90.0
	defaultThermalMaxLoadRatio    = 0.9
	defaultThermalSustainedCount  = 3
	defaultThermalSampleSeconds   = 10
	defaultMinFuzzyLength         = 3
	defaultPreset                 = "standard"
	defaultMusicSubfolderBy       = "mood"
	defaultRetentionMinutes       = 60
	defaultMinFreeSpaceMB         = 512
	defaultMapperTimeoutSeconds   = 30
	defaultNotifyRequestTimeout   = 10
	defaultQueuePollInterval      = 2
	defaultErrorRetryInterval     = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			DataDir:    defaultDataDir,
		},
		Classifier: Classifier{
			DaemonBaseURL:         defaultDaemonBaseURL,
			HealthTimeoutSeconds:  defaultHealthTimeoutSeconds,
			HealthCacheSeconds:    defaultHealthCacheSeconds,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
			MaxTokens:             defaultMaxTokens,
			WebEnrichment:         true,
			ResultCacheSeconds:    defaultResultCacheSeconds,
		},
		Subprocess: Subprocess{
			Runtime:                defaultRuntime,
			ModelPath:              defaultModelPath,
			DownloadTimeoutSeconds: defaultDownloadTimeoutSeconds,
			RunTimeoutSeconds:      defaultRunTimeoutSeconds,
		},
		Thermal: Thermal{
			Enabled:          true,
			MaxCelsius:       defaultThermalMaxCelsius,
			MaxLoadRatio:     defaultThermalMaxLoadRatio,
			SustainedSamples: defaultThermalSustainedCount,
			SampleSeconds:    defaultThermalSampleSeconds,
		},
		Matching: Matching{
			MinFuzzyLength: defaultMinFuzzyLength,
		},
		Organizer: Organizer{
			Preset:           defaultPreset,
			MusicSubfolderBy: defaultMusicSubfolderBy,
			RetentionMinutes: defaultRetentionMinutes,
			MinFreeSpaceMB:   defaultMinFreeSpaceMB,
		},
		Mapper: Mapper{
			TimeoutSeconds: defaultMapperTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Completed:      true,
			Failed:         true,
			NeedsReview:    true,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
