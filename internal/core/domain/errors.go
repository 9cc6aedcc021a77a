package domain

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrMissingToken = errors.New("token is missing")
var ErrInvalidToken = errors.New("token is invalid")
var ErrForbidden = errors.New("access forbidden")
var ErrBookNotFound = errors.New("book not found")
var ErrBookExists = errors.New("book already exists")
var ErrOutOfStock = errors.New("book out of stock")
var ErrOverReturn = errors.New("all copies already returned")
var ErrValidation = errors.New("invalid book data")
