package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Maximum number of due items sent for one /due command
	DueBatchSize int
	// Long polling timeout in seconds
	UpdateTimeout int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() BotConfig {
	return BotConfig{
		DueBatchSize:  10,
		UpdateTimeout: 60,
	}
}
