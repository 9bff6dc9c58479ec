package domain

import "errors"

var (
	ErrInvalidAddress        = errors.New("public address is invalid")
	ErrInvalidCatalogID      = errors.New("nft id is invalid")
	ErrUnsupportedNetwork    = errors.New("network is not supported")
	ErrUnsupportedCollection = errors.New("collection is not supported")
	ErrUnsupportedToken      = errors.New("token is not supported")
)
