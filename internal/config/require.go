package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/Skotchmaster/grocery_shop/internal/logging"
)

// Validate reports every missing or inconsistent setting at once so a bad
// deployment fails with the full list.
func (c Config) Validate() error {
	var errs []error
	missing := func(name string) { errs = append(errs, fmt.Errorf("missing required env %s", name)) }

	if c.DatabaseURL == "" {
		missing("DATABASE_URL")
	}
	if len(c.JWTAccessSecret) == 0 {
		missing("JWT_SECRET")
	}
	if len(c.JWTRefreshSecret) == 0 {
		missing("JWT_REFRESH_SECRET")
	}
	if len(c.JWTAccessSecret) > 0 && bytes.Equal(c.JWTAccessSecret, c.JWTRefreshSecret) {
		errs = append(errs, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT %d out of range", c.ServerPort))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.ESURL != "" {
		if u, err := url.Parse(c.ESURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("ES_URL %q is not an absolute url", c.ESURL))
		}
	}
	return errors.Join(errs...)
}

func MustValidate(c Config) {
	if err := c.Validate(); err != nil {
		log.Fatalf("invalid configuration:\n%v", err)
	}
}
