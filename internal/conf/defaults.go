// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig sets default values for every configuration key.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("database.type", DatabaseSQLite)
	viper.SetDefault("database.slowquerythreshold", 200*time.Millisecond)
	viper.SetDefault("database.sqlite.path", "reefkb.db")
	viper.SetDefault("database.mysql.host", "localhost")
	viper.SetDefault("database.mysql.port", "3306")
	viper.SetDefault("database.mysql.database", "reefkb")
	viper.SetDefault("database.mysql.maxopenconns", 10)
	viper.SetDefault("database.postgres.host", "localhost")
	viper.SetDefault("database.postgres.port", "5432")
	viper.SetDefault("database.postgres.database", "reefkb")
	viper.SetDefault("database.postgres.sslmode", "disable")

	viper.SetDefault("photos.store", PhotoStoreDir)
	viper.SetDefault("photos.directory", "photos")
	viper.SetDefault("photos.baseurl", "")
	viper.SetDefault("photos.s3.region", "us-east-1")
	viper.SetDefault("photos.s3.usepathstyle", false)

	viper.SetDefault("cache.type", CacheMemory)
	viper.SetDefault("cache.ttl", 24*time.Hour)
	viper.SetDefault("cache.redis.addr", "localhost:6379")
	viper.SetDefault("cache.redis.db", 0)
	viper.SetDefault("cache.redis.keyprefix", "reefkb:sheet:")

	viper.SetDefault("importer.campaign", "")
	viper.SetDefault("importer.taxonomyfile", "")
	viper.SetDefault("importer.dryrun", false)

	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.file_output.enabled", false)
	viper.SetDefault("logging.file_output.path", "logs/reefkb.log")
	viper.SetDefault("logging.file_output.level", "debug")

	viper.SetDefault("metrics.textfilepath", "")

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")
	viper.SetDefault("sentry.environment", "production")
}
