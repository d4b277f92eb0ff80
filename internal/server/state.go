package server

// Document is an open document as last synced by the client. Handlers treat
// it as a read-only snapshot.
type Document struct {
	Text    string
	Version int
}

// Settings is the runtime validation configuration, mutable only through
// workspace/didChangeConfiguration.
type Settings struct {
	Enabled     bool
	MaxProblems int
}

type Config struct {
	Source             string
	DefaultMaxProblems int
}

type State struct {
	Documents         map[string]Document
	Settings          Settings
	Config            Config
	ShutdownRequested bool
}

func NewState(config Config) State {
	if config.Source == "" {
		config.Source = "ejsd"
	}
	if config.DefaultMaxProblems == 0 {
		config.DefaultMaxProblems = defaultMaxProblems
	}

	return State{
		Documents: make(map[string]Document),
		Settings: Settings{
			Enabled:     true,
			MaxProblems: config.DefaultMaxProblems,
		},
		Config:            config,
		ShutdownRequested: false,
	}
}

func (s *State) SetDocument(uri, documentText string, version int) {
	s.Documents[uri] = Document{
		Text:    documentText,
		Version: version,
	}
}

func (s *State) RemoveDocument(uri string) {
	delete(s.Documents, uri)
}
