package ui

// Config contains TUI-specific configuration, resolved once at startup.
type Config struct {
	// ServerURL is the TTS service root.
	ServerURL string `env:"TTSDECK_SERVER" envDefault:"http://localhost:8000"`

	// Transport selects how job updates reach the engine: "poll" or
	// "push" (legacy socket in addition to polling).
	Transport string `env:"TTSDECK_TRANSPORT" envDefault:"poll"`

	// Voice parameters applied to every submission.
	Voice  string  `env:"TTSDECK_VOICE" envDefault:"default"`
	Pitch  float64 `env:"TTSDECK_PITCH" envDefault:"1.0"`
	Speed  float64 `env:"TTSDECK_SPEED" envDefault:"1.0"`
	Volume float64 `env:"TTSDECK_VOLUME" envDefault:"1.0"`

	// MaxTextLength bounds submission text client-side.
	MaxTextLength int `env:"TTSDECK_MAX_TEXT_LENGTH" envDefault:"5000"`

	// EnablePlayback controls whether fetched audio can be played from
	// the job list. Disabled automatically when no audio device exists.
	EnablePlayback bool `env:"TTSDECK_PLAYBACK" envDefault:"true"`

	HomeDir string `env:"HOME"`
}
