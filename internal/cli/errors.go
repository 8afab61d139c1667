package cli

import (
	"errors"

	"restaurant-client/internal/api"
)

func isNotFound(err error) bool {
	return errors.Is(err, api.ErrNotFound)
}
