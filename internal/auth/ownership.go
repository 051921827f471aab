package auth

import (
	"errors"

	"github.com/isdelr/socialsync-api/internal/common"
)

// Owned is implemented by every owner-scoped resource.
type Owned interface {
	OwnerID() string
}

// AuthorizeAccess decides whether identity may touch a resource that was
// just fetched. fetchErr is the error returned by the fetch. A missing
// resource and a resource owned by someone else both yield
// common.ErrNotFoundOrForbidden; any other fetch error is returned as is.
func AuthorizeAccess[T Owned](identity string, resource T, fetchErr error) (T, error) {
	var zero T
	if fetchErr != nil {
		if errors.Is(fetchErr, common.ErrNotFound) {
			return zero, common.ErrNotFoundOrForbidden
		}
		return zero, fetchErr
	}
	if identity == "" || resource.OwnerID() != identity {
		return zero, common.ErrNotFoundOrForbidden
	}
	return resource, nil
}
