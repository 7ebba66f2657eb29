package whmcsmp

import (
	"regexp"
	"strconv"
)

var productIDPattern = regexp.MustCompile(`^[0-9]+$`)

// Verify checks the configuration before any session is opened. It returns a
// *VerificationError listing every violated condition, or nil for a valid
// configuration.
func Verify(cfg Config) error {
	var errs []*CodeError

	if cfg.Login == "" || cfg.Password == "" {
		errs = append(errs, NewError(EWHMCSNOCREDENTIALS))
	}

	if cfg.ProductID == "" {
		errs = append(errs, NewError(EWHMCSNOPRODUCTID))
	} else if !validProductID(cfg.ProductID) {
		errs = append(errs, NewError(EWHMCSINVALIDPRODUCTID))
	}

	// The token is only needed to list releases for synchronization, so it
	// is required exactly when a repository is configured.
	if cfg.GitHubRepo != "" && cfg.GitHubToken == "" {
		errs = append(errs, NewError(ENOGHTOKEN))
	}

	if len(errs) > 0 {
		return &VerificationError{Errors: errs}
	}
	return nil
}

func validProductID(id string) bool {
	if !productIDPattern.MatchString(id) {
		return false
	}
	n, err := strconv.Atoi(id)
	return err == nil && n != 0
}
