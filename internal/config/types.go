package config

// Config is the top-level ask-user configuration.
type Config struct {
	Dialog  DialogConfig  `json:"dialog"`
	History HistoryConfig `json:"history"`
	Log     LogConfig     `json:"log"`
}

// DialogConfig holds the literal strings and timing of the dialog.
type DialogConfig struct {
	Prompt       string `json:"prompt"`
	Countdown    int    `json:"countdown"`
	Placeholder  string `json:"placeholder"`
	SubmitLabel  string `json:"submit_label"`
	CancelLabel  string `json:"cancel_label"`
	Warning      string `json:"warning"`
	CancelNotice string `json:"cancel_notice"`
	AltScreen    bool   `json:"alt_screen"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// HistoryConfig controls the JSONL record of finished dialogs.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`

	// StoreContent keeps submitted text in the file. Off records only metadata.
	StoreContent bool `json:"store_content"`
}

// LogConfig controls diagnostic logging. Logs never go to stdout.
type LogConfig struct {
	Verbose bool   `json:"verbose"`
	File    string `json:"file"`
}
