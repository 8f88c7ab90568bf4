package conf

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/reefgenomics/reefkb/internal/secrets"
)

// resolveSecrets replaces every credential setting with its resolved value:
// the matching *file setting when set, else the value with ${ENV}
// references expanded.
func resolveSecrets(fs afero.Fs, s *Settings) error {
	fields := []struct {
		name  string
		file  string
		value *string
	}{
		{"database.mysql.password", s.Database.MySQL.PasswordFile, &s.Database.MySQL.Password},
		{"database.postgres.password", s.Database.Postgres.PasswordFile, &s.Database.Postgres.Password},
		{"cache.redis.password", s.Cache.Redis.PasswordFile, &s.Cache.Redis.Password},
		{"sentry.dsn", s.Sentry.DSNFile, &s.Sentry.DSN},
	}
	for _, f := range fields {
		resolved, err := secrets.Resolve(fs, f.file, *f.value)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.value = resolved
	}
	return nil
}
