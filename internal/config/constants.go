package config

const (
	DefaultDatabasePath = "./authgate.db"
)
