package domain

import "errors"

var ErrPlaceNotFound = errors.New("place not found")
