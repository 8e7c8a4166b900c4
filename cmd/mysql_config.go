package cmd

import (
	"github.com/jasonamaral/mba.modulo4-sub001/config"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/persistence/mysql"
)

// NewMySQLConfig maps application config onto the MySQL connection settings.
func NewMySQLConfig(cfg *config.Config) *mysql.Config {
	return &mysql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		LogLevel:        cfg.Log.Level,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
}
