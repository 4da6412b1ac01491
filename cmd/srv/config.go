package main

import (
	"os"
	"strconv"
	"time"

	"github.com/caseclub-lab/backend/config"
)

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "caseclub"),
			User:     getEnv("MYSQL_USER", "caseclub"),
			Password: getEnv("MYSQL_PASSWORD", "caseclub"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("HOST", "localhost"),
			Port: getEnv("PORT", "8080"),
			Cert: getEnv("SERVER_CERT", ""),
			Key:  getEnv("SERVER_KEY", ""),
		},
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Secret:     getEnv("TOKEN_SECRET", "token-secret"),
				Expiration: getDuration("ACCESS_TOKEN_DURATION", time.Hour),
			},
		},
		Session: config.SessionConfigs{
			Secret: getEnv("AUTH_SESSION_SECRET", "session-secret"),
			Name:   "auth_session",
		},
		SmartShell: config.SmartShellConfigs{
			BaseURL:           getEnv("SMARTSHELL_BASE_URL", "https://billing.smartshell.gg/api/v1"),
			Login:             getEnv("SMARTSHELL_LOGIN", ""),
			Password:          getEnv("SMARTSHELL_PASSWORD", ""),
			PaymentsPageSize:  getInt("SMARTSHELL_PAYMENTS_PAGE_SIZE", 200),
			CallTimeout:       getDuration("SMARTSHELL_CALL_TIMEOUT", 10*time.Second),
			HeavyCallTimeout:  getDuration("SMARTSHELL_HEAVY_CALL_TIMEOUT", 30*time.Second),
			TokenSafetyMargin: getDuration("SMARTSHELL_TOKEN_SAFETY_MARGIN", time.Minute),
		},
		Club: config.ClubConfigs{
			Timezone: getEnv("CLUB_TIMEZONE", "Europe/Riga"),
		},
		Case: config.CaseConfigs{
			EnforceStock: getBool("CASE_ENFORCE_STOCK", false),
		},
		Request: config.RequestConfigs{
			ExpireAfter:   getDuration("REQUEST_EXPIRE_AFTER", time.Hour),
			SweepInterval: getDuration("REQUEST_SWEEP_INTERVAL", 10*time.Minute),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	return n
}

func getBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(err)
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}
