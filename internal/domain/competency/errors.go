package competency

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrInvalidCatalog = errors.New("invalid competency catalog")
	ErrLoadCatalog    = errors.New("load competency catalog failed")
)
