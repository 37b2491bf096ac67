package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName rejects names that are empty or could reach another
// file: path separators, and dots that would change the extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
