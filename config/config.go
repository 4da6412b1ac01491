package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database   DatabaseConfigs
	ApiServer  ServerConfigs
	Auth       AuthConfigs
	Session    SessionConfigs
	SmartShell SmartShellConfigs
	Club       ClubConfigs
	Case       CaseConfigs
	Request    RequestConfigs
	Redis      RedisConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type AuthConfigs struct {
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Secret     string
	Expiration time.Duration
}

// SmartShellConfigs describes the external billing system connection.
type SmartShellConfigs struct {
	BaseURL  string
	Login    string
	Password string

	// PaymentsPageSize bounds how many history records a deposit total scan
	// reads from upstream.
	PaymentsPageSize int

	// CallTimeout applies to lightweight calls, HeavyCallTimeout to balance
	// and payment-history reads, which upstream serves slowly.
	CallTimeout      time.Duration
	HeavyCallTimeout time.Duration

	// TokenSafetyMargin refreshes the service token this long before its
	// stated expiry.
	TokenSafetyMargin time.Duration
}

// ClubConfigs holds club-local settings. Timezone anchors every claim period
// calculation; it is never the server or client timezone.
type ClubConfigs struct {
	Timezone string
}

func (c ClubConfigs) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		panic(fmt.Sprintf("invalid club timezone %q: %v", c.Timezone, err))
	}
	return loc
}

type CaseConfigs struct {
	// EnforceStock excludes depleted items from the prize pool and decrements
	// stock on award. Off by default: stock stays informational for admins.
	EnforceStock bool
}

type RequestConfigs struct {
	// ExpireAfter bounds how long a fulfillment request may stay pending
	// before the sweep rolls its inventory entry back to available.
	ExpireAfter time.Duration

	SweepInterval time.Duration
}

type RedisConfigs struct {
	Addr string
}
