package domain

import "errors"

var ErrSolicitudNotFound = errors.New("solicitud not found")
