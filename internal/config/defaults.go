package config

const (
	defaultDataDir             = "~/.local/share/lectern"
	defaultAPIBind             = "127.0.0.1:8080"
	defaultAPIReadTimeout      = 30
	defaultAPIWriteTimeout     = 60
	defaultMaxUploadMB         = 512
	defaultAIProvider          = "openai"
	defaultAIBaseURL           = "https://api.groq.com/openai/v1"
	defaultTranscriptionModel  = "whisper-large-v3"
	defaultAnalysisModel       = "llama-3.3-70b-instruct"
	defaultRoadmapModel        = "llama-3.1-70b-instruct"
	defaultAIRequestTimeout    = 180
	defaultAIRequestsPerMinute = 30
	defaultAIBurst             = 5
	defaultAIMaxAttempts       = 4
	defaultPollInterval        = 3
	defaultHeartbeatInterval   = 15
	defaultStaleMinutes        = 30
	defaultTopicCount          = 3
	defaultTermsPerTopic       = 5
	defaultTopicPasses         = 10
	defaultTopicSeed           = 42
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "auto"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 7
	defaultOTLPEndpoint        = "localhost:4317"
	defaultServiceName         = "lecternd"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		API: API{
			Bind:                defaultAPIBind,
			ReadTimeoutSeconds:  defaultAPIReadTimeout,
			WriteTimeoutSeconds: defaultAPIWriteTimeout,
			MaxUploadMB:         defaultMaxUploadMB,
		},
		AI: AI{
			Provider:              defaultAIProvider,
			BaseURL:               defaultAIBaseURL,
			TranscriptionModel:    defaultTranscriptionModel,
			AnalysisModel:         defaultAnalysisModel,
			RoadmapModel:          defaultRoadmapModel,
			RequestTimeoutSeconds: defaultAIRequestTimeout,
			RequestsPerMinute:     defaultAIRequestsPerMinute,
			Burst:                 defaultAIBurst,
			MaxAttempts:           defaultAIMaxAttempts,
		},
		Pipeline: Pipeline{
			PollIntervalSeconds:      defaultPollInterval,
			HeartbeatIntervalSeconds: defaultHeartbeatInterval,
			StaleProcessingMinutes:   defaultStaleMinutes,
		},
		Topics: Topics{
			Count:         defaultTopicCount,
			TermsPerTopic: defaultTermsPerTopic,
			Passes:        defaultTopicPasses,
			Seed:          defaultTopicSeed,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Telemetry: Telemetry{
			OTLPEndpoint: defaultOTLPEndpoint,
			ServiceName:  defaultServiceName,
		},
	}
}
