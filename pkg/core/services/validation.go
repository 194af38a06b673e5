package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wadjakorntonsri/tinylink/pkg/core/codegen"
	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
)

func validateTargetURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: targetUrl is required", domain.ErrInvalidInput)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: targetUrl is not a valid URL", domain.ErrInvalidInput)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: targetUrl must be an absolute URL", domain.ErrInvalidInput)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: targetUrl must use http or https", domain.ErrInvalidInput)
	}
	return nil
}

func validateCode(code string) error {
	if !codegen.IsValid(code) {
		return fmt.Errorf("%w: code must match [A-Za-z0-9]{6,8}", domain.ErrInvalidInput)
	}
	return nil
}

// reservedCodes are single-segment paths served by the router itself.
// A link under one of them could never redirect.
var reservedCodes = map[string]bool{
	"healthz": true,
}

func isReserved(code string) bool {
	return reservedCodes[code]
}
