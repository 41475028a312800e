package batch

import "errors"

// Error taxonomy shared by all operations. Operations wrap these with
// fmt.Errorf("%w: ...") so callers can classify with errors.Is.
var (
	ErrNotFound              = errors.New("directory not found")
	ErrNoInput               = errors.New("no matching files")
	ErrInsufficientInput     = errors.New("not enough input files")
	ErrNoCredential          = errors.New("no input value provided")
	ErrCapabilityUnavailable = errors.New("capability unavailable")
	ErrExternalToolMissing   = errors.New("external tool not found")
	ErrInvalidInput          = errors.New("invalid input value")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrNotFound, "NotFound"},
	{ErrNoInput, "NoInput"},
	{ErrInsufficientInput, "InsufficientInput"},
	{ErrNoCredential, "NoCredential"},
	{ErrCapabilityUnavailable, "CapabilityUnavailable"},
	{ErrExternalToolMissing, "ExternalToolMissing"},
	{ErrInvalidInput, "InvalidInput"},
}

// Kind returns the taxonomy name of err, "Internal" for anything else
// and "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Internal"
}
