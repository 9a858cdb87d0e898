package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile       string
	DataDir       string
	Keywords      []string
	Fields        []string
	MaxResults    int
	Language      string
	ListModels    bool
	ListVoices    bool
	ListFavorites bool
	NoAutoPlay    bool
	NoReminder    bool
	Autostart     string

	// Translation flags
	TranslationBackend string

	// Speech flags
	SpeechProvider string
	Voice          string
	AudioFormat    string
	OpenAIModel    string
	OpenAIVoice    string
	OpenAISpeed    float64
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Keywords:       []string{"pulsar"},
		Fields:         []string{"astro-ph"},
		MaxResults:     10,
		Language:       "zh-CN",
		SpeechProvider: "edge-tts",
		AudioFormat:    "mp3",
		OpenAIModel:    "gpt-4o-mini-tts",
		OpenAISpeed:    1.0,
	}
}
