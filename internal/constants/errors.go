package constants

import "errors"

// Configuration errors.
var (
	ErrAPIKeyNotProvided   = errors.New("no API key provided, set ACSF_API_KEY or use --api-key")
	ErrUsernameNotProvided = errors.New("no username provided, set ACSF_USERNAME or use --username")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrInvalidNumber       = errors.New("must be a non-negative integer")
)

// Command errors.
var (
	ErrInvalidTaskID     = errors.New("task ID must be a positive integer")
	ErrInvalidSiteID     = errors.New("site ID must be a positive integer")
	ErrInvalidBackupID   = errors.New("backup ID must be a positive integer")
	ErrInvalidUpdateID   = errors.New("update ID must be a positive integer")
	ErrTaskFailed        = errors.New("task finished with an error status")
	ErrUnsupportedOutput = errors.New("unsupported output format")
)
